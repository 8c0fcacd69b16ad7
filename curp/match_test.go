package curp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjacob/kangaroo/errors"
)

func TestValidate_ParticleInGivenName(t *testing.T) {
	parts, ok, err := Validate("MAGE981117MMNCRS05", "ESTEFANIA DE LOS DOLORES MACIAS GARCIA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NameParts{
		Nombre:    "ESTEFANIA DE LOS DOLORES",
		Apellido:  "MACIAS",
		ApellidoM: "GARCIA",
	}, parts)
}

func TestValidate_ParticleAttachedToSurname(t *testing.T) {
	parts, ok, err := Validate("MAPS991116MOCRZN07", "SANDRA DEL CARMEN MARTINEZ DE LA PAZ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NameParts{
		Nombre:    "SANDRA DEL CARMEN",
		Apellido:  "MARTINEZ",
		ApellidoM: "DE LA PAZ",
	}, parts)
}

func TestValidate_MissingSecondSurname(t *testing.T) {
	parts, ok, err := Validate("TAXA990915MNEMXM06", "AMBER NICOLE TAMAYO")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NameParts{
		Nombre:    "AMBER NICOLE",
		Apellido:  "TAMAYO",
		ApellidoM: "",
	}, parts)
}

// Two tokens, no particles: the single-surname fallback must still
// produce a successful candidate.
func TestValidate_TwoTokenName(t *testing.T) {
	parts, ok, err := Validate("TAXA990915MNEMXM06", "AMBER TAMAYO")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NameParts{
		Nombre:    "AMBER",
		Apellido:  "TAMAYO",
		ApellidoM: "",
	}, parts)
}

// MARTINEZ MASTACHE ESMERALDA would encode to MAME, which is on the
// inconvenient-word list, so the printed CURP carries MXME instead.
// Trailing whitespace in the source record is tolerated.
func TestValidate_CensorshipSubstitution(t *testing.T) {
	parts, ok, err := Validate("MXME991209MGRRSS07", "ESMERALDA MARTINEZ MASTACHE ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NameParts{
		Nombre:    "ESMERALDA",
		Apellido:  "MARTINEZ",
		ApellidoM: "MASTACHE",
	}, parts)
}

// The distinct-format-error policy: a CURP that does not have the
// official structure reports ErrInvalidFormat rather than being folded
// into the mismatch sentinel. This sample carries an unknown federal
// entity code.
func TestValidate_MalformedCURP(t *testing.T) {
	parts, ok, err := Validate("MACD990727MMMCRRN0", "DANIELA IVETTE MARTINEZ CRUZ")
	assert.False(t, ok)
	assert.Zero(t, parts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestValidate_WellFormedMismatch(t *testing.T) {
	_, ok, err := Validate("MAGE981117MMNCRS05", "DANIELA IVETTE MARTINEZ CRUZ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_CommonGivenNameSkipped(t *testing.T) {
	parts, ok, err := Validate("LOPG850101MDFPRD09", "MARIA GUADALUPE LOPEZ PEREZ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MARIA GUADALUPE", parts.Nombre)
	assert.Equal(t, "LOPEZ", parts.Apellido)
	assert.Equal(t, "PEREZ", parts.ApellidoM)
}

func TestValidate_MixedCaseInput(t *testing.T) {
	_, ok, err := Validate("mage981117mmncrs05", "Estefanía de los Dolores Macías García")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_Idempotent(t *testing.T) {
	first, okFirst, err := Validate("MAPS991116MOCRZN07", "SANDRA DEL CARMEN MARTINEZ DE LA PAZ")
	require.NoError(t, err)
	second, okSecond, err := Validate("MAPS991116MOCRZN07", "SANDRA DEL CARMEN MARTINEZ DE LA PAZ")
	require.NoError(t, err)

	assert.Equal(t, okFirst, okSecond)
	assert.Equal(t, first, second)
}

func TestValidate_Concurrent(t *testing.T) {
	done := make(chan NameParts, 16)
	for i := 0; i < 16; i++ {
		go func() {
			parts, ok, err := Validate("MAGE981117MMNCRS05", "ESTEFANIA DE LOS DOLORES MACIAS GARCIA")
			if err != nil || !ok {
				done <- NameParts{}
				return
			}
			done <- parts
		}()
	}
	want := NameParts{Nombre: "ESTEFANIA DE LOS DOLORES", Apellido: "MACIAS", ApellidoM: "GARCIA"}
	for i := 0; i < 16; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestInteriorVowel(t *testing.T) {
	tests := []struct {
		word string
		want byte
	}{
		{"MACIAS", 'A'},
		{"MARTINEZ", 'A'},
		{"CRUZ", 'U'},
		{"TAMAYO", 'A'},
		{"LY", 'X'}, // no interior vowel: documented X substitute
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(interiorVowel(tt.word)), "word %s", tt.word)
	}
}

func TestInitialLetter_Enye(t *testing.T) {
	assert.Equal(t, byte('X'), initialLetter("ÑANDO"))
	assert.Equal(t, byte('M'), initialLetter("MACIAS"))
}

func TestGivenInitials(t *testing.T) {
	tests := []struct {
		given string
		want  string // candidate initials in priority order
	}{
		{"ESTEFANIA DE LOS DOLORES", "E"},
		{"MARIA GUADALUPE", "GM"},
		{"JOSE LUIS", "LJ"},
		{"MARIA", "M"}, // nothing follows, nothing to skip
		{"SANDRA DEL CARMEN", "S"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(givenInitials(tt.given)), "given %s", tt.given)
	}
}
