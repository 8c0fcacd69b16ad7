package curp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjacob/kangaroo/errors"
)

func TestDecode_WellFormed(t *testing.T) {
	initials, err := Decode("MAGE981117MMNCRS05")
	require.NoError(t, err)
	assert.Equal(t, "MAGE", initials.Raw())
	assert.Equal(t, []string{"MAGE"}, initials.Candidates())
}

func TestDecode_Lowercase(t *testing.T) {
	initials, err := Decode(" maps991116mocrzn07 ")
	require.NoError(t, err)
	assert.Equal(t, "MAPS", initials.Raw())
}

// A censored prefix exposes the catalog originals behind it, literal
// reading first.
func TestDecode_CensoredCandidates(t *testing.T) {
	initials, err := Decode("MXME991209MGRRSS07")
	require.NoError(t, err)
	assert.Equal(t, []string{"MXME", "MAME"}, initials.Candidates())
}

// MEAR and MIAR collapse onto the same censored form; both must be
// reported so the matcher can resolve against the name.
func TestDecode_AmbiguousCensoredCandidates(t *testing.T) {
	initials, err := Decode("MXAR990101HDFRRL02")
	require.NoError(t, err)
	assert.Equal(t, "MXAR", initials.Candidates()[0])
	assert.Contains(t, initials.Candidates(), "MEAR")
	assert.Contains(t, initials.Candidates(), "MIAR")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"too short", "MAGE981117MMNCRS0"},
		{"too long", "MAGE981117MMNCRS057"},
		{"empty", ""},
		{"digit in name letters", "M4GE981117MMNCRS05"},
		{"letter in birth date", "MAGEX81117MMNCRS05"},
		{"bad sex marker", "MAGE981117ZMNCRS05"},
		{"unknown entity code", "MACD990727MMMCRRN0"},
		{"letter check digit", "MAGE981117MMNCRS0Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFormat))
		})
	}
}

func TestCensorshipTableShape(t *testing.T) {
	for word, censored := range censoredForm {
		assert.Len(t, word, 4)
		assert.Equal(t, word[:1]+"X"+word[2:], censored, "word %s", word)
	}
	// Every censored form resolves back to at least one catalog word.
	for censored, originals := range censorReverse {
		assert.NotEmpty(t, originals, "censored form %s", censored)
	}
}
