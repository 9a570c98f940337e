package lexer

import (
	"iql/internal/diag"
	"iql/internal/source"
	"iql/internal/token"
)

// Lexer turns a query text into a stream of tokens. It never stops on an
// error; invalid input yields an Invalid token and a diagnostic through the
// reporter, and scanning continues.
type Lexer struct {
	text   *source.Text
	cursor Cursor
	opts   Options
	look   *token.Token // 1-token lookahead buffer
}

// Options configures a Lexer.
type Options struct {
	// Reporter receives lexical diagnostics. May be nil.
	Reporter diag.Reporter
}

// New creates a lexer over the given text.
func New(t *source.Text, opts Options) *Lexer {
	return &Lexer{
		text:   t,
		cursor: NewCursor(t),
		opts:   opts,
	}
}

// Peek returns the next significant token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

// EmptySpan returns a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) scan() token.Token {
	lx.skipWhitespace()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	if kind, ok := punctKind(ch); ok {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.text.Slice(sp)}
	}

	if ch == '"' {
		return lx.scanString()
	}

	if isControl(ch) {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.NewError(diag.LexUnknownChar, sp, "unexpected control character in query"))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text.Slice(sp)}
	}

	return lx.scanWord()
}

// scanWord consumes a maximal run of non-delimiter, non-whitespace bytes.
// Complete words matching a keyword spelling (case-insensitive) become
// keyword tokens; substring matches never do, because the run is maximal.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isWhitespace(b) || isDelimiter(b) || isControl(b) {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text.Slice(sp)
	return token.Token{Kind: token.LookupKeyword(text), Span: sp, Text: text}
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() && isWhitespace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) report(d diag.Diagnostic) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(d)
	}
}

func punctKind(b byte) (token.Kind, bool) {
	switch b {
	case '{':
		return token.LBrace, true
	case '}':
		return token.RBrace, true
	case '(':
		return token.LParen, true
	case ')':
		return token.RParen, true
	case '>':
		return token.Gt, true
	case '<':
		return token.Lt, true
	case '+':
		return token.Plus, true
	default:
		return token.Invalid, false
	}
}

func isDelimiter(b byte) bool {
	switch b {
	case '{', '}', '(', ')', '>', '<', '+', '"':
		return true
	default:
		return false
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isControl(b byte) bool {
	return b < 0x20 && b != '\t' && b != '\n' && b != '\r'
}
