// Package metrics measures how far edited text has drifted from the original
// reconstruction.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
)

// Stats holds character and word error rates of a hypothesis against a
// reference text.
type Stats struct {
	CER       float64 `json:"character_error_rate"`
	WER       float64 `json:"word_error_rate"`
	CharEdits int     `json:"char_edits"`
	WordEdits int     `json:"word_edits"`
	RefChars  int     `json:"ref_chars"`
	RefWords  int     `json:"ref_words"`
}

// Changed reports whether the hypothesis differs from the reference at all.
func (s Stats) Changed() bool {
	return s.CharEdits > 0
}

// Compare computes Stats for hypothesis against reference. Word boundaries are
// runs of whitespace, so line breaks count as separators.
func Compare(reference, hypothesis string) Stats {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	s := Stats{
		CharEdits: levenshtein.Distance(reference, hypothesis),
		RefChars:  utf8.RuneCountInString(reference),
		RefWords:  len(refWords),
	}
	s.WordEdits = wordDistance(refWords, hypWords)
	s.CER = rate(s.CharEdits, s.RefChars)
	s.WER = rate(s.WordEdits, s.RefWords)
	return s
}

func rate(edits, total int) float64 {
	if total == 0 {
		if edits == 0 {
			return 0
		}
		return 1
	}
	return float64(edits) / float64(total)
}

// wordDistance is the edit distance between two word sequences. Words are
// interned to integer symbols and compared with a two-row table.
func wordDistance(ref, hyp []string) int {
	symbols := make(map[string]int, len(ref))
	encode := func(words []string) []int {
		out := make([]int, len(words))
		for i, w := range words {
			id, ok := symbols[w]
			if !ok {
				id = len(symbols)
				symbols[w] = id
			}
			out[i] = id
		}
		return out
	}
	a, b := encode(ref), encode(hyp)

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
