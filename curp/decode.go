package curp

import (
	"github.com/sanjacob/kangaroo/errors"
)

// Length is the fixed size of a CURP.
const Length = 18

// ErrInvalidFormat indicates the supplied CURP does not have the
// official 18-character structure. Callers can tell malformed input
// apart from a genuine name mismatch with errors.Is.
var ErrInvalidFormat = errors.New("invalid CURP format")

// Initials holds the four name-relevant letters at positions 0-3 of a
// CURP: first letter of the first surname, first interior vowel of the
// first surname, first letter of the second surname (X when absent),
// and the initial of the given name.
type Initials struct {
	raw string
}

// Raw returns the four letters exactly as printed on the CURP.
func (i Initials) Raw() string {
	return i.raw
}

// Candidates returns every four-letter prefix the CURP may stand for,
// most literal first. When the printed letters exact-match a censored
// form from the inconvenient-word catalog, the possible originals are
// appended after the literal reading. The literal reading stays a
// candidate because an X at position 1 can also mean the first surname
// has no interior vowel, and only the declared name can tell the two
// apart; Validate resolves that ambiguity.
func (i Initials) Candidates() []string {
	out := []string{i.raw}
	out = append(out, censorReverse[i.raw]...)
	return out
}

// Decode validates the structure of a CURP and extracts its
// name-relevant letters.
//
// The full 18-character layout is enforced: four letters, six birth
// date digits, sex marker, federal entity code, three consonants, a
// homonymy character and a check digit. Anything else fails with
// ErrInvalidFormat. The trailing positions beyond 0-3 are not used for
// matching, but validating them lets callers distinguish a corrupted
// record from a well-formed CURP that simply belongs to someone else.
func Decode(code string) (Initials, error) {
	c := normalizeCode(code)

	if len(c) != Length {
		return Initials{}, errors.WithDetailf(
			errors.Wrapf(ErrInvalidFormat, "expected %d characters, got %d", Length, len(c)),
			"curp: %q", c)
	}

	for pos := 0; pos < Length; pos++ {
		b := c[pos]
		var ok bool
		switch {
		case pos < 4:
			ok = b >= 'A' && b <= 'Z'
		case pos < 10:
			ok = b >= '0' && b <= '9'
		case pos == 10:
			ok = b == 'H' || b == 'M' || b == 'X'
		case pos < 13:
			ok = b >= 'A' && b <= 'Z'
		case pos < 16:
			ok = b >= 'A' && b <= 'Z'
		case pos == 16:
			ok = (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
		default:
			ok = b >= '0' && b <= '9'
		}
		if !ok {
			return Initials{}, errors.WithDetailf(
				errors.Wrapf(ErrInvalidFormat, "unexpected character %q at position %d", b, pos),
				"curp: %q", c)
		}
	}

	if !stateCodes[c[11:13]] {
		return Initials{}, errors.WithDetailf(
			errors.Wrapf(ErrInvalidFormat, "unknown federal entity code %q", c[11:13]),
			"curp: %q", c)
	}

	return Initials{raw: c[:4]}, nil
}
