package token

import "strings"

// keywords maps the upper-cased spelling of each keyword to its kind.
// Keywords are recognized case-insensitively, but only as whole words:
// the lexer calls LookupKeyword with a complete word, never a substring.
var keywords = map[string]Kind{
	"AND": KwAnd,
	"OR":  KwOr,
	"NOT": KwNot,
	"IS":  KwIs,
}

// LookupKeyword returns the keyword kind for word, or Word if it is not a
// keyword.
func LookupKeyword(word string) Kind {
	if k, ok := keywords[strings.ToUpper(word)]; ok {
		return k
	}
	return Word
}
