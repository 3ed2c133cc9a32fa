package normalize

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/resolve"
)

func newTestRowNormalizer() *RowNormalizer {
	return NewRowNormalizer(resolve.DefaultAliases(), nil)
}

func TestNormalizeExcelRow(t *testing.T) {
	rows := []map[string]any{
		{"नाव": "Asha Patil", "वय": "34", "लिंग": "स्त्री", "EPIC": ""},
	}

	out := newTestRowNormalizer().Normalize(rows, 0)
	require.Len(t, out, 1)

	r := out[0]
	assert.True(t, strings.HasPrefix(r.EpicNo, "PENDING-0-"), "epic %q", r.EpicNo)
	assert.Equal(t, "Asha Patil", r.Name)
	assert.Equal(t, 34, r.Age)
	assert.Equal(t, entity.GenderFemale, r.Gender)
	assert.Equal(t, "1", r.SerialNo)
	assert.Equal(t, "Unknown", r.ParentSpouseName)
	assert.False(t, r.LastUpdated.IsZero())
}

func TestNormalizeEmptyRowIsStructurallyComplete(t *testing.T) {
	out := newTestRowNormalizer().Normalize([]map[string]any{{}}, 0)
	require.Len(t, out, 1)

	r := out[0]
	assert.NotEmpty(t, r.EpicNo)
	assert.True(t, strings.HasPrefix(r.EpicNo, "PENDING-"))
	assert.Equal(t, "Unknown", r.Name)
	assert.Equal(t, 25, r.Age)
	assert.Equal(t, entity.GenderMale, r.Gender)
	assert.Equal(t, "Unknown", r.ParentSpouseName)
	assert.Equal(t, "1", r.SerialNo)
	assert.Equal(t, entity.PollingStation{}, r.PollingStation)
}

func TestNormalizeKeepsRowOrderAndCount(t *testing.T) {
	rows := []map[string]any{
		{"Name": "A", "EPIC": "AAA0000001"},
		{"Name": "B"},
		{"Name": "C", "EPIC": "CCC0000003"},
	}

	out := newTestRowNormalizer().Normalize(rows, 0)
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
	assert.Equal(t, "C", out[2].Name)
}

func TestSerialFallbackDeterminism(t *testing.T) {
	rows := make([]map[string]any, 5)
	for i := range rows {
		rows[i] = map[string]any{"Name": "V"}
	}

	out := newTestRowNormalizer().Normalize(rows, 0)
	require.Len(t, out, 5)
	for i, r := range out {
		assert.Equal(t, strconv.Itoa(i+1), r.SerialNo)
	}
}

func TestSerialFallbackHonorsOffset(t *testing.T) {
	out := newTestRowNormalizer().Normalize([]map[string]any{{"Name": "V"}}, 40)
	require.Len(t, out, 1)
	assert.Equal(t, "41", out[0].SerialNo)
	assert.True(t, strings.HasPrefix(out[0].EpicNo, "PENDING-40-"))
}

func TestGenderMapping(t *testing.T) {
	cases := map[string]entity.Gender{
		"Female": entity.GenderFemale,
		"female": entity.GenderFemale,
		"F":      entity.GenderFemale,
		"f":      entity.GenderFemale,
		"स्त्री":  entity.GenderFemale,
		"महिला":  entity.GenderFemale,
		"Male":   entity.GenderMale,
		"M":      entity.GenderMale,
		"":       entity.GenderMale,
		"other":  entity.GenderMale,
	}
	for in, want := range cases {
		out := newTestRowNormalizer().Normalize([]map[string]any{{"Gender": in}}, 0)
		assert.Equal(t, want, out[0].Gender, "input %q", in)
	}
}

func TestAgeDefaults(t *testing.T) {
	for _, in := range []string{"", "abc", "0"} {
		out := newTestRowNormalizer().Normalize([]map[string]any{{"Age": in}}, 0)
		assert.Equal(t, 25, out[0].Age, "input %q", in)
	}

	out := newTestRowNormalizer().Normalize([]map[string]any{{"Age": "67"}}, 0)
	assert.Equal(t, 67, out[0].Age)
}

func TestPartValueSharedByNoAndName(t *testing.T) {
	out := newTestRowNormalizer().Normalize([]map[string]any{{"Part No": "42 - Shivaji Nagar"}}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, "42 - Shivaji Nagar", out[0].PartNo)
	assert.Equal(t, out[0].PartNo, out[0].PartName)
}

func TestGenuineEpicKept(t *testing.T) {
	out := newTestRowNormalizer().Normalize([]map[string]any{{"EPIC": "XYZ1234567"}}, 0)
	assert.Equal(t, "XYZ1234567", out[0].EpicNo)
}
