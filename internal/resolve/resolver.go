package resolve

import (
	"fmt"
	"sort"
	"strings"
)

// Resolve picks the best-matching cell value for one logical field out of a
// semi-structured row. Two passes:
//
//  1. exact: aliases are tried in order against the row's keys as-is; the
//     first key present with a non-nil value wins. Alias order encodes
//     priority.
//  2. fuzzy: every actual header (trimmed, lower-cased) is checked for
//     substring containment of each alias, so "Voter ID Card No." still
//     matches the alias "ID CARD" without exact schema knowledge.
//
// Headers are scanned in sorted order during the fuzzy pass to keep the
// result deterministic. Returns "" when nothing matches.
func Resolve(row map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != nil {
			return strings.TrimSpace(stringify(v))
		}
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, alias := range aliases {
		needle := strings.ToLower(alias)
		for _, k := range keys {
			if strings.Contains(strings.ToLower(strings.TrimSpace(k)), needle) {
				if v := row[k]; v != nil {
					return strings.TrimSpace(stringify(v))
				}
				return ""
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
