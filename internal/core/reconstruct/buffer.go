package reconstruct

// Kind distinguishes the two buffer states.
type Kind int

const (
	// Tokenized buffers keep per-token addressing back to source words.
	Tokenized Kind = iota
	// FreeText buffers are plain strings after the first edit.
	FreeText
)

func (k Kind) String() string {
	switch k {
	case Tokenized:
		return "tokenized"
	case FreeText:
		return "free-text"
	}
	return "unknown"
}

// Buffer is the editable text in one of two states. The zero value is an
// empty Tokenized buffer.
type Buffer struct {
	kind  Kind
	text  string
	lines []Line
}

// Kind returns the buffer state.
func (b Buffer) Kind() Kind {
	return b.kind
}

// Text returns the full buffer content.
func (b Buffer) Text() string {
	return b.text
}

// Lines returns the tokenized lines, or nil once collapsed.
func (b Buffer) Lines() []Line {
	if b.kind != Tokenized {
		return nil
	}
	return b.lines
}

// Tokens returns every token in reading order, or nil once collapsed.
func (b Buffer) Tokens() []Token {
	if b.kind != Tokenized {
		return nil
	}
	var out []Token
	for _, l := range b.lines {
		out = append(out, l.Tokens...)
	}
	return out
}

// TokenAt returns the token on the given line whose span covers col, a byte
// offset within the line text.
func (b Buffer) TokenAt(line, col int) (Token, bool) {
	if b.kind != Tokenized || line < 0 || line >= len(b.lines) {
		return Token{}, false
	}
	toks := b.lines[line].Tokens
	if len(toks) == 0 {
		return Token{}, false
	}
	lineStart := toks[0].Start
	for _, t := range toks {
		if col >= t.Start-lineStart && col < t.End-lineStart {
			return t, true
		}
	}
	return Token{}, false
}

// TokenFor returns the token rendered for the given word.
func (b Buffer) TokenFor(wordID string) (Token, bool) {
	for _, t := range b.Tokens() {
		if t.WordID == wordID {
			return t, true
		}
	}
	return Token{}, false
}

// Collapse returns a FreeText buffer holding text. Per-token addressing is
// discarded.
func (b Buffer) Collapse(text string) Buffer {
	return Buffer{kind: FreeText, text: text}
}
