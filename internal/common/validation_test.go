package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("query", "", Required).
		Field("name", strings.Repeat("x", 10), MaxLength(5))

	require.True(t, v.HasErrors())
	err := v.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")
	assert.Contains(t, err.Error(), "at most 5 characters")
}

func TestValidatorPasses(t *testing.T) {
	v := NewValidator().
		Field("query", "asha", Required, MaxLength(120))
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Error())
}

func TestMaxLengthCountsRunes(t *testing.T) {
	v := NewValidator().Field("name", "आशा पाटील", MaxLength(9))
	assert.False(t, v.HasErrors(), "rune count, not byte count")
}

func TestGenuineEpicNo(t *testing.T) {
	cases := map[string]bool{
		"XYZ1234567":  true,
		"ABC0000001":  true,
		"xyz1234567":  false,
		"XY11234567":  false,
		"XYZ123456":   false,
		"XYZ12345678": false,
		"PENDING-3-1": false,
		"EXT-A1B2C3D": false,
		"":            false,
	}
	for input, want := range cases {
		err := GenuineEpicNo("epic", input)
		if want {
			assert.Nil(t, err, input)
		} else {
			assert.NotNil(t, err, input)
		}
	}
}
