// Package normalize maps raw Arabic lemma text to the comparison key used to
// join ontology lemmas with WordNet written forms. It strips diacritics and
// trailing disambiguation digits, folds hamza-bearing alef variants, and
// removes tatweel.
package normalize

import (
	"strings"
	"unicode"
)

const (
	alef       = 'ا'
	tatweel    = 'ـ'
	superAlef  = 'ٰ'
	harakaLow  = 'ً'
	harakaHigh = 'ٟ'
	quranLow   = 'ۖ'
	quranHigh  = 'ۭ'
)

var alefVariants = map[rune]struct{}{
	'آ': {}, // alef with madda above
	'أ': {}, // alef with hamza above
	'إ': {}, // alef with hamza below
}

// IsDiacritic reports whether r is one of the combining marks dropped by Key.
func IsDiacritic(r rune) bool {
	return (r >= harakaLow && r <= harakaHigh) ||
		r == superAlef ||
		(r >= quranLow && r <= quranHigh)
}

// Key returns the normalized comparison key for text. An empty result means
// the text cannot be matched and must never be used as a lookup key.
//
// The pass is repeated until the output is stable: removing tatweel or
// surrounding whitespace can expose digits that the earlier digit step
// did not see.
func Key(text string) string {
	for {
		next := pass(text)
		if next == text {
			return next
		}
		text = next
	}
}

func pass(text string) string {
	t := strings.TrimSpace(text)
	t = stripDiacritics(t)
	t = strings.TrimRightFunc(t, isASCIIDigit)
	t = strings.Map(foldLetter, t)
	return strings.TrimSpace(t)
}

func stripDiacritics(text string) string {
	return strings.Map(func(r rune) rune {
		if IsDiacritic(r) {
			return -1
		}
		return r
	}, text)
}

func foldLetter(r rune) rune {
	if _, ok := alefVariants[r]; ok {
		return alef
	}
	if r == tatweel {
		return -1
	}
	return r
}

func isASCIIDigit(r rune) bool {
	return r < unicode.MaxASCII && r >= '0' && r <= '9'
}
