package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/entity"
)

var (
	reEpic      = regexp.MustCompile(`[A-Z]{3}[0-9]{7}`)
	reDigitRun  = regexp.MustCompile(`[0-9]+`)
	reAgeInline = regexp.MustCompile(`(?i)age:\s*([0-9]+)`)
)

// ExtractFromText scans line-oriented OCR output for EPIC identifiers and
// harvests the adjacent lines heuristically. This is the legacy fallback
// path for when no structured or model-based extraction is available;
// positional and brittle on purpose.
func ExtractFromText(raw string) []entity.VoterRecord {
	lines := strings.Split(raw, "\n")
	var out []entity.VoterRecord

	for i, line := range lines {
		epic := reEpic.FindString(line)
		if epic == "" {
			continue
		}

		serial := reDigitRun.FindString(line)
		if serial == "" {
			serial = "0"
		}

		name := ""
		if i+1 < len(lines) {
			name = strings.TrimSpace(stripDigits(lines[i+1]))
		}
		if name == "" {
			name = "Extracted Name"
		}

		parent := ""
		if i+2 < len(lines) {
			parent = strings.TrimSpace(lines[i+2])
		}
		if parent == "" {
			parent = "Unknown Parent"
		}

		out = append(out, entity.VoterRecord{
			EpicNo:           epic,
			Name:             name,
			Age:              inlineAge(line),
			Gender:           lineGender(line),
			ParentSpouseName: parent,
			SerialNo:         serial,
			LastUpdated:      time.Now(),
		})
	}
	return out
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s)
}

func inlineAge(line string) int {
	m := reAgeInline.FindStringSubmatch(line)
	if m == nil {
		return constants.DefaultRowAge
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age == 0 {
		return constants.DefaultRowAge
	}
	return age
}

func lineGender(line string) entity.Gender {
	if strings.Contains(strings.ToLower(line), "female") {
		return entity.GenderFemale
	}
	return entity.GenderMale
}
