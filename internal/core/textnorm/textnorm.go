// Package textnorm provides display transforms for recognized text.
package textnorm

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tatweel is the Arabic elongation mark. It carries no meaning once the
// surrounding marks are gone.
const tatweel = 'ـ'

func newStripper() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == tatweel })),
		norm.NFC,
	)
}

// StripDiacritics removes combining marks such as Arabic harakat and Latin
// accents. Base letters, line breaks and spacing are kept.
func StripDiacritics(s string) string {
	out, _, err := transform.String(newStripper(), s)
	if err != nil {
		return s
	}
	return out
}

// HasDiacritics reports whether StripDiacritics would change s.
func HasDiacritics(s string) bool {
	return StripDiacritics(s) != norm.NFC.String(s)
}
