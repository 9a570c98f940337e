package token

import (
	"iql/internal/source"
)

// Token represents a single query token with its location.
// Text carries the raw source text for words and the decoded value for
// string literals.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsBinaryOp reports whether the token is one of the binary operators
// AND, OR, >, <, +.
func (t Token) IsBinaryOp() bool {
	switch t.Kind {
	case KwAnd, KwOr, Gt, Lt, Plus:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is any operator, including NOT.
func (t Token) IsOperator() bool {
	return t.Kind == KwNot || t.IsBinaryOp()
}

// IsKeyword reports whether the token is a query keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwAnd, KwOr, KwNot, KwIs:
		return true
	default:
		return false
	}
}

// IsDelimiter reports whether the token is a brace or parenthesis.
func (t Token) IsDelimiter() bool {
	switch t.Kind {
	case LBrace, RBrace, LParen, RParen:
		return true
	default:
		return false
	}
}
