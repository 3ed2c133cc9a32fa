package llm

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/entity"
)

// NormalizeResponse repairs a parsed extraction response into canonical
// records. Every field access is defaulted, so a partial response always
// yields a structurally complete record set; this function never fails.
// The original meta object is returned for caller use (document-wide
// constituency display), unmodified.
func NormalizeResponse(doc map[string]any) ([]entity.VoterRecord, Meta) {
	var meta Meta
	if m, ok := doc["meta"].(map[string]any); ok {
		meta = m
	}

	rawVoters, _ := doc["voters"].([]any)
	out := make([]entity.VoterRecord, 0, len(rawVoters))
	for _, rv := range rawVoters {
		v, ok := rv.(map[string]any)
		if !ok {
			v = map[string]any{}
		}
		out = append(out, normalizeVoter(v, meta))
	}
	return out, meta
}

func normalizeVoter(v map[string]any, meta Meta) entity.VoterRecord {
	epic := str(v, "epicNo")
	if epic == "" {
		epic = constants.ExtEpicPrefix + randToken(9)
	}

	station := entity.PollingStation{}
	if ps, ok := v["pollingStation"].(map[string]any); ok {
		station.Name = str(ps, "name")
		station.Address = str(ps, "address")
	}

	return entity.VoterRecord{
		EpicNo:                    epic,
		Name:                      orDefault(str(v, "name"), constants.UnknownName),
		Age:                       num(v, "age"),
		Gender:                    aiGender(str(v, "gender")),
		ParentSpouseName:          orDefault(str(v, "parentSpouseName"), constants.UnknownName),
		AssemblyConstituency:      withMeta(v, meta, "assemblyConstituency"),
		ParliamentaryConstituency: withMeta(v, meta, "parliamentaryConstituency"),
		District:                  str(v, "district"),
		State:                     str(v, "state"),
		PartNo:                    withMeta(v, meta, "partNo"),
		PartName:                  withMeta(v, meta, "partName"),
		SerialNo:                  str(v, "serialNo"),
		PollingStation:            station,
		LastUpdated:               time.Now(),
	}
}

// aiGender trusts the model further than the row path does: an explicit F is
// kept, a masculine marker or anything unrecognized maps to M.
func aiGender(token string) entity.Gender {
	switch strings.TrimSpace(token) {
	case "F":
		return entity.GenderFemale
	default:
		return entity.GenderMale
	}
}

func withMeta(v map[string]any, meta Meta, key string) string {
	if s := str(v, key); s != "" {
		return s
	}
	return str(meta, key)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// str reads a field tolerantly: strings are trimmed, numbers stringified,
// anything else (nil, missing, wrong type) becomes "".
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch t := m[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// num reads an integer field tolerantly, defaulting to 0. Unlike the row
// path, absence is reported as 0 so it stays distinguishable from a real
// extracted age.
func num(m map[string]any, key string) int {
	switch t := m[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return string(b)
}
