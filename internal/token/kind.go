package token

// Kind represents the category of a query token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the query input.
	EOF

	// Word represents a maximal run of non-delimiter characters.
	Word
	// StringLit represents a quoted parameter with escapes decoded.
	StringLit

	// KwAnd represents the 'AND' keyword.
	KwAnd
	// KwOr represents the 'OR' keyword.
	KwOr
	// KwNot represents the 'NOT' keyword.
	KwNot
	// KwIs represents the 'IS' keyword.
	KwIs

	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// Gt represents '>'.
	Gt
	// Lt represents '<'.
	Lt
	// Plus represents '+'.
	Plus
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "INVALID"
	case EOF:
		return "EOF"
	case Word:
		return "WORD"
	case StringLit:
		return "STRING"
	case KwAnd:
		return "AND"
	case KwOr:
		return "OR"
	case KwNot:
		return "NOT"
	case KwIs:
		return "IS"
	case LBrace:
		return "LBRACE"
	case RBrace:
		return "RBRACE"
	case LParen:
		return "LPAREN"
	case RParen:
		return "RPAREN"
	case Gt:
		return "GT"
	case Lt:
		return "LT"
	case Plus:
		return "PLUS"
	}
	return "UNKNOWN"
}
