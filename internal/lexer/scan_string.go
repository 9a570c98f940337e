package lexer

import (
	"strings"

	"iql/internal/diag"
	"iql/internal/token"
)

// scanString consumes a double-quoted parameter. Escaped quotes (\") and
// escaped backslashes (\\) are decoded into the token value; any other
// escape keeps the backslash verbatim. A missing closing quote is an error.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var b strings.Builder
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: b.String()}
		}
		if ch == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			esc := lx.cursor.Bump()
			switch esc {
			case '"', '\\':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(lx.cursor.Bump())
	}

	// EOF without a closing quote
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.NewError(diag.LexUnterminatedString, sp, "unterminated quoted parameter"))
	return token.Token{Kind: token.Invalid, Span: sp, Text: b.String()}
}
