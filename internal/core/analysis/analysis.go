// Package analysis defines the recognition result consumed by khatt and the
// decoders that produce it from JSON and hOCR input.
package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/colonyops/khatt/internal/core/geometry"
)

// NoFontStyle is the value the analysis service returns when no style matched.
const NoFontStyle = "N/A"

var (
	// ErrNoWords is returned by Result.Check when the result holds no words.
	ErrNoWords = errors.New("analysis result contains no words")
	// ErrUnsupportedFormat is returned for input files that are neither JSON nor hOCR.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Word is one recognized token and its source geometry. ID is synthetic and
// is the only identity used for highlight matching.
type Word struct {
	ID          string               `json:"id,omitempty"`
	Text        string               `json:"text"`
	BoundingBox geometry.BoundingBox `json:"boundingBox"`

	// MissingGeometry is set when the input had no usable box and a zero
	// box was substituted.
	MissingGeometry bool `json:"-"`
}

// NewWord creates a word with a fresh ID.
func NewWord(text string, box geometry.BoundingBox) Word {
	return Word{ID: uuid.NewString(), Text: text, BoundingBox: box}
}

// SimilarFont is a suggested font related to the identified style.
type SimilarFont struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Result is the structured output of the external analysis service. Only Words
// is interpreted; the other fields pass through to presentation.
type Result struct {
	Words               []Word        `json:"words"`
	IdentifiedFontStyle string        `json:"identifiedFontStyle"`
	IdentifiedFontName  string        `json:"identifiedFontName"`
	IdentifiedFontURL   *string       `json:"identifiedFontUrl"`
	SimilarFonts        []SimilarFont `json:"similarFonts"`
	DesignBrief         string        `json:"designBrief"`
}

// HasFontStyle reports whether a style was identified.
func (r Result) HasFontStyle() bool {
	return r.IdentifiedFontStyle != "" && r.IdentifiedFontStyle != NoFontStyle
}

// FontURL returns the identified font URL or an empty string.
func (r Result) FontURL() string {
	if r.IdentifiedFontURL == nil {
		return ""
	}
	return *r.IdentifiedFontURL
}

// WordByID returns the word with the given ID.
func (r Result) WordByID(id string) (Word, bool) {
	for _, w := range r.Words {
		if w.ID == id {
			return w, true
		}
	}
	return Word{}, false
}

// Issue describes a non-fatal problem found in a result.
type Issue struct {
	WordID  string `json:"word_id"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Check reports ErrNoWords for an empty result and lists words whose geometry
// was missing or falls outside the unit square.
func (r Result) Check() ([]Issue, error) {
	if len(r.Words) == 0 {
		return nil, ErrNoWords
	}

	var issues []Issue
	for _, w := range r.Words {
		switch {
		case w.MissingGeometry:
			issues = append(issues, Issue{WordID: w.ID, Text: w.Text, Message: "missing bounding box"})
		case !w.BoundingBox.InUnit():
			issues = append(issues, Issue{WordID: w.ID, Text: w.Text, Message: "bounding box outside image"})
		}
	}
	return issues, nil
}

// UnmarshalJSON decodes a word, substituting a zero box when the geometry is
// absent or not numeric, and assigning an ID when none is present.
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		Text        string          `json:"text"`
		BoundingBox json.RawMessage `json:"boundingBox"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	box, ok := decodeBox(raw.BoundingBox)

	*w = Word{
		ID:              raw.ID,
		Text:            raw.Text,
		BoundingBox:     box,
		MissingGeometry: !ok,
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

func decodeBox(data json.RawMessage) (geometry.BoundingBox, bool) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return geometry.BoundingBox{}, false
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return geometry.BoundingBox{}, false
	}

	values := make([]float64, 0, 4)
	for _, key := range []string{"x", "y", "width", "height"} {
		v, ok := fields[key].(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.BoundingBox{}, false
		}
		values = append(values, v)
	}

	return geometry.BoundingBox{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, true
}

// Decode parses a bare result document. Input IDs are kept unless they repeat;
// every later duplicate gets a fresh ID so each word has its own identity.
func Decode(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("decode analysis result: %w", err)
	}
	r.dedupeIDs()
	return r, nil
}

func (r *Result) dedupeIDs() {
	seen := make(map[string]struct{}, len(r.Words))
	for i := range r.Words {
		if _, dup := seen[r.Words[i].ID]; dup {
			r.Words[i].ID = uuid.NewString()
		}
		seen[r.Words[i].ID] = struct{}{}
	}
}
