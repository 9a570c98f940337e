package ast

import (
	"strings"

	"iql/internal/source"
)

// Statement is a leaf of the query tree: a template invocation or a raw
// free-text clause. Exactly one of Template and FreeText is set.
type Statement struct {
	// Template is the registry name, e.g. "confidentiality clause".
	// Empty for free-text statements.
	Template string
	// Param is the quoted parameter of a template invocation.
	Param    string
	HasParam bool
	// FreeText is the raw clause text for statements not using a template.
	FreeText string

	Span source.Span
}

// IsTemplate reports whether the statement invokes a named template.
func (s Statement) IsTemplate() bool {
	return s.Template != ""
}

// ScoringText returns the text handed to the scoring capability: the
// canonical brace form for template invocations, the raw clause otherwise.
func (s Statement) ScoringText() string {
	if !s.IsTemplate() {
		return s.FreeText
	}
	var b strings.Builder
	b.WriteString("{IS ")
	b.WriteString(s.Template)
	if s.HasParam {
		b.WriteString(" \"")
		b.WriteString(escapeParam(s.Param))
		b.WriteString("\"")
	}
	b.WriteString("}")
	return b.String()
}

func escapeParam(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	return strings.ReplaceAll(p, `"`, `\"`)
}
