package curp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "ESTEFANIA MACIAS GARCIA", "ESTEFANIA MACIAS GARCIA"},
		{"lowercase", "sandra martinez", "SANDRA MARTINEZ"},
		{"accents folded", "José María Pérez", "JOSE MARIA PEREZ"},
		{"enye preserved", "Ángel Muñoz Ibáñez", "ANGEL MUÑOZ IBAÑEZ"},
		{"whitespace collapsed", "  AMBER   NICOLE  TAMAYO ", "AMBER NICOLE TAMAYO"},
		{"apostrophe dropped", "O'FARRIL GOMEZ", "OFARRIL GOMEZ"},
		{"hyphen separates", "GARCIA-LOPEZ JUAN", "GARCIA LOPEZ JUAN"},
		{"diaeresis folded", "ARGÜELLO", "ARGUELLO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	once := NormalizeName("José María Muñoz  Pérez")
	assert.Equal(t, once, NormalizeName(once))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "MAGE981117MMNCRS05", normalizeCode(" mage981117mmncrs05\n"))
}
