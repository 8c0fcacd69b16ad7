// Package curp validates Mexican CURP identity codes against declared
// full names.
//
// A CURP embeds four letters taken from the holder's name: the first
// letter and first interior vowel of the first surname, the first
// letter of the second surname and the initial of the given name. This
// package reverses that encoding: given a CURP and a claimed name it
// finds the split of the name into given name and surnames that the
// CURP was built from, or reports that no split works.
//
// Validation is a pure function of its inputs. The lookup tables are
// immutable after package init, so Validate may be called from any
// number of goroutines without coordination.
package curp

import "strings"

// NameParts is the decomposition of a matched name. JSON keys follow
// the certificate records the portal publishes.
type NameParts struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	ApellidoM string `json:"apellido_m"`
}

// Validate checks whether a CURP could have been issued for the given
// full name.
//
// On success it returns the name split the CURP agrees with, particles
// included in the surname strings, and ok=true. A well-formed CURP
// that matches no split of the name returns ok=false with a nil error:
// mismatches are an expected, meaningful outcome (they usually flag
// data-entry mistakes in the source records), not a failure. A
// malformed CURP returns an error wrapping ErrInvalidFormat.
func Validate(code, fullName string) (NameParts, bool, error) {
	initials, err := Decode(code)
	if err != nil {
		return NameParts{}, false, err
	}

	for _, seg := range Segmentations(fullName) {
		if matchSegmentation(initials, seg) {
			return NameParts{
				Nombre:    seg.GivenName,
				Apellido:  seg.FirstSurname,
				ApellidoM: seg.SecondSurname,
			}, true, nil
		}
	}
	return NameParts{}, false, nil
}

// matchSegmentation checks one candidate split against the decoded
// letters. The expected prefix is computed forward from the name and
// run through the censorship substitution, which sidesteps the
// ambiguity of reversing it: MEAR and MIAR both censor to MXAR, but a
// given name only ever encodes forward to one of them.
func matchSegmentation(initials Initials, seg Segmentation) bool {
	e0 := initialLetter(seg.firstCore)
	e1 := interiorVowel(seg.firstCore)
	e2 := byte('X')
	if seg.secondCore != "" {
		e2 = initialLetter(seg.secondCore)
	}

	for _, e3 := range givenInitials(seg.GivenName) {
		expected := string([]byte{e0, e1, e2, e3})
		if expected == initials.raw {
			return true
		}
		if censoredForm[expected] == initials.raw {
			return true
		}
	}
	return false
}

// initialLetter returns the letter a word contributes at a first-letter
// position. Ñ is printed as X on CURPs.
func initialLetter(word string) byte {
	for _, r := range word {
		if r == 'Ñ' {
			return 'X'
		}
		if r >= 'A' && r <= 'Z' {
			return byte(r)
		}
		return 0
	}
	return 0
}

// interiorVowel returns the first vowel after the first letter of a
// word, or X when the word has none (the documented substitute).
func interiorVowel(word string) byte {
	first := true
	for _, r := range word {
		if first {
			first = false
			continue
		}
		if r < 'A' || r > 'Z' {
			continue
		}
		if isVowel(byte(r)) {
			return byte(r)
		}
	}
	return 'X'
}

// givenInitials returns the initials a compound given name may encode
// to, in the order the issuing rule prefers them. Particles inside the
// given name are skipped, and a leading MARIA or JOSE yields to the
// name that follows it (MARIA GUADALUPE encodes G). The literal first
// initial is kept as a fallback because older records predate uniform
// application of the common-name rule.
func givenInitials(given string) []byte {
	var words []string
	for _, tok := range strings.Fields(given) {
		if !isParticle(tok) {
			words = append(words, tok)
		}
	}
	if len(words) == 0 {
		words = strings.Fields(given)
	}
	if len(words) == 0 {
		return nil
	}

	first := initialLetter(words[0])
	if len(words) > 1 && commonGivenNames[words[0]] {
		skipped := initialLetter(words[1])
		if skipped != first {
			return []byte{skipped, first}
		}
	}
	return []byte{first}
}
