package diag

import "go/token"

// Span maps byte offsets inside an extracted snippet (directive arguments,
// a body carrier) back to positions in the original file.
type Span struct {
	Start token.Position // Position of Text[0]
	Text  string
}

// At returns the file position of the byte at offset within Text.
// Offsets are clamped to the snippet bounds.
func (s Span) At(offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}

	pos := s.Start
	pos.Offset += offset
	for i := 0; i < offset; i++ {
		if s.Text[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// Sub returns the span of Text[from:to]
func (s Span) Sub(from, to int) Span {
	if to > len(s.Text) {
		to = len(s.Text)
	}
	if from > to {
		from = to
	}
	return Span{Start: s.At(from), Text: s.Text[from:to]}
}
