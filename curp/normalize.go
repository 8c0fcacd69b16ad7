package curp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// enyeSentinel temporarily replaces Ñ while diacritics are stripped.
// Ñ is a distinct letter under the encoding rules (it maps to X in the
// CURP) and must survive accent folding, unlike Á or Ü.
const enyeSentinel = "\x01"

// diacriticStripper removes combining marks after NFD decomposition,
// folding ÁÉÍÓÚÜ and friends down to their base letters.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName prepares a free-text name for segmentation and matching:
// uppercase, accents folded, apostrophes dropped, hyphens treated as
// separators, and runs of whitespace collapsed to single spaces.
//
// Normalization is idempotent, so callers may pass already-clean input.
func NormalizeName(name string) string {
	s := strings.ToUpper(name)
	s = strings.ReplaceAll(s, "Ñ", enyeSentinel)

	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}

	s = strings.ReplaceAll(s, enyeSentinel, "Ñ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", " ")

	return strings.Join(strings.Fields(s), " ")
}

// normalizeCode uppercases a CURP and trims surrounding whitespace.
// CURP content is validated separately; this only canonicalizes case.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
