package validate

import (
	"fmt"

	"iql/internal/ast"
	"iql/internal/diag"
	"iql/internal/parser"
	"iql/internal/source"
	"iql/internal/template"
)

// Validate checks query text at the requested tier. Validation is pure:
// the same input always yields the same Result.
func Validate(text string, tier Tier, reg *template.Registry) Result {
	if tier == TierFast {
		return Fast(text)
	}
	return Full(text, reg)
}

// Full runs the tokenizer and parser, resolves every template leaf against
// the registry, and checks required parameters. On success it collects
// advisory warnings: free-text leaves, templates missing a recommended
// parameter, and multi-hop chained comparisons.
func Full(text string, reg *template.Registry) Result {
	_, res := ParseQuery(text, reg)
	return res
}

// ParseQuery is Full with the parsed tree exposed, for callers that go on
// to evaluate. The query is nil exactly when the result is invalid.
func ParseQuery(text string, reg *template.Registry) (*ast.Query, Result) {
	bag := diag.NewBag(16)
	q, okParse := parser.Parse(source.NewText("query", []byte(text)), parser.Options{
		Registry: reg,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if !okParse {
		if d, found := bag.FirstError(); found {
			return nil, failDiag(d)
		}
		return nil, fail(diag.UnknownCode, source.Span{}, "query failed to parse")
	}

	res := ok()
	walkWarnings(q.Root, reg, true, &res)
	if !res.Valid {
		return nil, res
	}
	return q, res
}

func walkWarnings(n ast.Node, reg *template.Registry, isRoot bool, res *Result) {
	if !res.Valid {
		return
	}
	switch v := n.(type) {
	case *ast.Leaf:
		leafWarnings(v, reg, isRoot, res)
	case *ast.Not:
		walkWarnings(v.Child, reg, false, res)
	case *ast.And:
		if isDesugaredChain(v) {
			res.Warnings = append(res.Warnings,
				"chained comparison evaluates as the AND of each adjacent pair")
		}
		for _, c := range v.Children {
			walkWarnings(c, reg, false, res)
		}
	case *ast.Or:
		for _, c := range v.Children {
			walkWarnings(c, reg, false, res)
		}
	case *ast.Compare:
		walkWarnings(v.Left, reg, false, res)
		walkWarnings(v.Right, reg, false, res)
	case *ast.Average:
		for _, c := range v.Children {
			walkWarnings(c, reg, false, res)
		}
	case *ast.Group:
		walkWarnings(v.Child, reg, false, res)
	}
}

func leafWarnings(l *ast.Leaf, reg *template.Registry, isRoot bool, res *Result) {
	if !l.Stmt.IsTemplate() {
		if isRoot {
			res.Warnings = append(res.Warnings,
				"free-text query; a template form like {IS ...} matches more accurately")
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("free-text statement %q; templates match more accurately", l.Stmt.FreeText))
		}
		return
	}

	desc, found := reg.Lookup(l.Stmt.Template)
	if !found {
		// The parser resolves template names already; this covers callers
		// that parsed without a registry.
		*res = failDiag(diag.NewError(diag.SemaUnknownTemplate, l.Stmt.Span,
			"unknown template \""+l.Stmt.Template+"\"").
			WithSuggestions(reg.Suggest(l.Stmt.Template)...))
		return
	}
	if desc.RequiresParameter && !l.Stmt.HasParam {
		*res = failDiag(diag.NewError(diag.SemaMissingParameter, l.Stmt.Span,
			"template \""+desc.Name+"\" requires a quoted parameter"))
		return
	}
	if desc.RecommendsParameter && !l.Stmt.HasParam {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("template %q matches more precisely with a parameter", desc.Name))
	}
}

// isDesugaredChain detects the And produced by a multi-hop chained
// comparison: every child is a Compare and adjacent pairs share their
// middle operand.
func isDesugaredChain(n *ast.And) bool {
	if len(n.Children) < 2 {
		return false
	}
	var prev *ast.Compare
	for _, c := range n.Children {
		cmp, okCmp := c.(*ast.Compare)
		if !okCmp {
			return false
		}
		if prev != nil && prev.Right != cmp.Left {
			return false
		}
		prev = cmp
	}
	return true
}
