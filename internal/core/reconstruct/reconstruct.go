// Package reconstruct rebuilds an editable text buffer from recognized words.
//
// Words are grouped into reading lines by vertical-center proximity and
// ordered right to left within a line, which is the layout of the scripts the
// analysis service targets. The resulting buffer keeps a back-reference from
// every rendered token to its source word until the first edit.
package reconstruct

import (
	"math"
	"slices"
	"strings"

	"github.com/colonyops/khatt/internal/core/analysis"
)

// DefaultLineThreshold is the fraction of the reference word height within
// which another word's vertical center joins the same line.
const DefaultLineThreshold = 0.7

// Token is one rendered word inside a Tokenized buffer.
type Token struct {
	WordID string
	Text   string
	Line   int
	// Index is the position of the token within its line.
	Index int
	// Start and End are byte offsets into the buffer text.
	Start int
	End   int
}

// Line is a derived reading line.
type Line struct {
	Tokens []Token
}

// Text renders the line with single spaces between tokens.
func (l Line) Text() string {
	parts := make([]string, len(l.Tokens))
	for i, t := range l.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Lines groups the words into reading lines. Words are sorted top to bottom,
// grouped greedily against the first word of the current line, then sorted by
// descending x within each line.
func Lines(words []analysis.Word, threshold float64) [][]analysis.Word {
	if len(words) == 0 {
		return nil
	}

	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b analysis.Word) int {
		switch {
		case a.BoundingBox.Y < b.BoundingBox.Y:
			return -1
		case a.BoundingBox.Y > b.BoundingBox.Y:
			return 1
		}
		return 0
	})

	var (
		lines   [][]analysis.Word
		current = []analysis.Word{sorted[0]}
		ref     = sorted[0]
	)

	for _, w := range sorted[1:] {
		if sameLine(ref, w, threshold) {
			current = append(current, w)
			continue
		}
		lines = append(lines, current)
		current = []analysis.Word{w}
		ref = w
	}
	lines = append(lines, current)

	for _, line := range lines {
		slices.SortStableFunc(line, func(a, b analysis.Word) int {
			switch {
			case a.BoundingBox.X > b.BoundingBox.X:
				return -1
			case a.BoundingBox.X < b.BoundingBox.X:
				return 1
			}
			return 0
		})
	}

	return lines
}

// sameLine compares vertical centers against the reference height. A zero
// height reference only accepts an exactly equal center.
func sameLine(ref, w analysis.Word, threshold float64) bool {
	refCenter := ref.BoundingBox.CenterY()
	delta := math.Abs(w.BoundingBox.CenterY() - refCenter)
	limit := ref.BoundingBox.Height * threshold
	if limit <= 0 {
		return delta == 0
	}
	return delta < limit
}

// Reconstruct builds a Tokenized buffer from the words.
func Reconstruct(words []analysis.Word, threshold float64) Buffer {
	grouped := Lines(words, threshold)

	var (
		sb    strings.Builder
		lines = make([]Line, 0, len(grouped))
	)

	for li, group := range grouped {
		if li > 0 {
			sb.WriteByte('\n')
		}
		line := Line{Tokens: make([]Token, 0, len(group))}
		for wi, w := range group {
			if wi > 0 {
				sb.WriteByte(' ')
			}
			start := sb.Len()
			sb.WriteString(w.Text)
			line.Tokens = append(line.Tokens, Token{
				WordID: w.ID,
				Text:   w.Text,
				Line:   li,
				Index:  wi,
				Start:  start,
				End:    sb.Len(),
			})
		}
		lines = append(lines, line)
	}

	return Buffer{
		kind:  Tokenized,
		text:  sb.String(),
		lines: lines,
	}
}
