package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Text is an immutable piece of source input: a query string or a corpus
// document. It keeps a line index so diagnostics can resolve spans to
// line/column positions.
type Text struct {
	Name    string
	Content []byte
	lineIdx []uint32 // byte offsets of '\n'
}

// LineCol is a 1-based line/column position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// NewText builds a Text from raw bytes. The bytes are not copied; callers
// must not mutate them afterwards.
func NewText(name string, content []byte) *Text {
	return &Text{
		Name:    name,
		Content: content,
		lineIdx: buildLineIndex(content),
	}
}

func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("content offset overflow: %w", err))
			}
			idx = append(idx, off)
		}
	}
	return idx
}

// Len returns the content length in bytes.
func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// Slice returns the content covered by span, clamped to the text bounds.
func (t *Text) Slice(s Span) string {
	n := t.Len()
	if s.Start > n {
		return ""
	}
	if s.End > n {
		s.End = n
	}
	return string(t.Content[s.Start:s.End])
}

// Resolve converts a span into start and end line/column positions.
func (t *Text) Resolve(s Span) (start, end LineCol) {
	return t.toLineCol(s.Start), t.toLineCol(s.End)
}

func (t *Text) toLineCol(off uint32) LineCol {
	// lineIdx holds offsets of '\n'; binary search would be overkill for
	// query-sized inputs but corpora can be large, so keep it.
	lo, hi := 0, len(t.lineIdx)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := uint32(lo) + 1
	var lineStart uint32
	if lo > 0 {
		lineStart = t.lineIdx[lo-1] + 1
	}
	return LineCol{Line: line, Col: off - lineStart + 1}
}

// Line returns the 1-based line with the given number, without the trailing
// newline. Out-of-range numbers yield "".
func (t *Text) Line(num uint32) string {
	if num == 0 {
		return ""
	}
	n := t.Len()
	var start uint32
	switch {
	case num == 1:
		start = 0
	case int(num-2) < len(t.lineIdx):
		start = t.lineIdx[num-2] + 1
	default:
		return ""
	}
	end := n
	if int(num-1) < len(t.lineIdx) {
		end = t.lineIdx[num-1]
	}
	if start >= n {
		return ""
	}
	return string(t.Content[start:end])
}
