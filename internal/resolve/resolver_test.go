package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactMatchWins(t *testing.T) {
	row := map[string]any{
		"Name":            "exact value",
		"voter name full": "fuzzy value",
	}

	got := Resolve(row, []string{"Name", "Voter Name"})
	assert.Equal(t, "exact value", got)
}

func TestResolveExactAliasOrderIsPriority(t *testing.T) {
	row := map[string]any{
		"नाव":  "Asha",
		"Name": "A. Patil",
	}

	assert.Equal(t, "Asha", Resolve(row, []string{"नाव", "Name"}))
	assert.Equal(t, "A. Patil", Resolve(row, []string{"Name", "नाव"}))
}

func TestResolveFuzzySubstring(t *testing.T) {
	row := map[string]any{
		"Voter ID Card No.": "XYZ1234567",
	}

	got := Resolve(row, []string{"EPIC", "ID Card"})
	assert.Equal(t, "XYZ1234567", got)
}

func TestResolveFuzzyIgnoresCaseAndSpacing(t *testing.T) {
	row := map[string]any{
		"  FULL NAME  ": " Ravi Kumar ",
	}

	got := Resolve(row, []string{"Full Name"})
	assert.Equal(t, "Ravi Kumar", got)
}

func TestResolveExactWithEmptyValue(t *testing.T) {
	// A present key with an empty value is a definite answer, not a miss.
	row := map[string]any{"EPIC": ""}

	assert.Equal(t, "", Resolve(row, []string{"EPIC"}))
}

func TestResolveNilCellInFuzzyPass(t *testing.T) {
	row := map[string]any{"Voter Name": nil, "aadhaar": "x"}

	assert.Equal(t, "", Resolve(row, []string{"Name"}))
}

func TestResolveNoMatch(t *testing.T) {
	row := map[string]any{"Ward": "7"}

	assert.Equal(t, "", Resolve(row, []string{"Name", "नाव"}))
}

func TestResolveStringifiesNumbers(t *testing.T) {
	row := map[string]any{"Age": float64(34)}

	assert.Equal(t, "34", Resolve(row, []string{"Age"}))
}

func TestLoadAliasesOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "epic_no:\n  - VoterCard\nage:\n  - Umar\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"VoterCard"}, got.EpicNo)
	assert.Equal(t, []string{"Umar"}, got.Age)
	assert.Equal(t, DefaultAliases().Name, got.Name)
}

func TestLoadAliasesMissingFileKeepsDefaults(t *testing.T) {
	got, err := LoadAliases("/nonexistent/aliases.yaml")
	assert.Error(t, err)
	assert.Equal(t, DefaultAliases(), got)
}
