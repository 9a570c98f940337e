package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"iql/internal/source"
)

// Cursor is a byte position inside a query text.
type Cursor struct {
	Text *source.Text
	Off  uint32
}

// NewCursor creates a cursor at the start of the text.
func NewCursor(t *source.Text) Cursor {
	return Cursor{Text: t, Off: 0}
}

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Text.Len()
}

// Peek reads the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text.Content[c.Off]
}

// Bump advances one byte and returns the byte read.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved cursor position used to derive spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the span from a mark to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

// MarkOf converts an arbitrary byte index into a Mark.
func MarkOf(i int) Mark {
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("cursor offset overflow: %w", err))
	}
	return Mark(off)
}
