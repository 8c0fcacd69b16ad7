package curp

import "strings"

// Segmentation is one hypothesized split of a full name into given
// name, first surname and second surname. Surname fields keep their
// particles ("DE LA PAZ"); the core fields hold the bare surname word
// the encoding actually takes letters from ("PAZ"). SecondSurname is
// empty when the candidate assumes the person has a single surname.
type Segmentation struct {
	GivenName     string
	FirstSurname  string
	SecondSurname string

	firstCore  string
	secondCore string
}

// Segmentations produces every plausible split of a full name, ordered
// from most likely to least. The boundary between given name and
// surnames is ambiguous from whitespace alone (given names may span
// several words, surnames may carry particles), so the matcher tries
// these in order until one agrees with the CURP.
//
// Ordering: candidates with fewer given-name words come first; the
// single-surname reading, which consumes the most words as given name,
// comes last. Within a candidate, particle runs always attach to the
// surname that follows them, never to the preceding given name.
func Segmentations(fullName string) []Segmentation {
	tokens := strings.Fields(NormalizeName(fullName))

	var segs []Segmentation
	for given := 1; given < len(tokens); given++ {
		// A particle before the surname boundary belongs to the
		// surname; a split here would tear it apart.
		if isParticle(tokens[given-1]) {
			continue
		}
		if seg, ok := parseSurnames(tokens[given:]); ok {
			seg.GivenName = strings.Join(tokens[:given], " ")
			segs = append(segs, seg)
		}
	}
	return segs
}

// parseSurnames reads the remainder of a name as one or two surnames,
// each an optional particle run followed by exactly one word. Any
// other shape is not a valid candidate.
func parseSurnames(rest []string) (Segmentation, bool) {
	var seg Segmentation

	i := 0
	for i < len(rest) && isParticle(rest[i]) {
		i++
	}
	if i >= len(rest) {
		return seg, false // nothing but particles
	}
	seg.firstCore = rest[i]
	seg.FirstSurname = strings.Join(rest[:i+1], " ")
	i++

	if i == len(rest) {
		return seg, true // single surname, second left empty
	}

	second := i
	for i < len(rest) && isParticle(rest[i]) {
		i++
	}
	if i != len(rest)-1 {
		return seg, false
	}
	seg.secondCore = rest[i]
	seg.SecondSurname = strings.Join(rest[second:], " ")
	return seg, true
}
