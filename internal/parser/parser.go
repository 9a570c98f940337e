// Package parser turns a token stream into the query tree described by the
// IQL grammar:
//
//	query      := or_expr EOF
//	or_expr    := and_expr ( OR and_expr )*
//	and_expr   := not_expr ( AND not_expr )*
//	not_expr   := NOT primary | compare_expr
//	compare    := avg_expr ( (GT|LT) avg_expr )*
//	avg_expr   := primary ( PLUS primary )*
//	primary    := statement | '(' or_expr ')'
//
// A chained comparison A > B > C desugars into And(A > B, B > C): every
// adjacent pair forms one Compare node and the pairs are conjoined. The
// middle operand is shared between the pair nodes, which is safe because
// nodes are immutable.
//
// Parsing is not recovering: the first error aborts and no partial tree is
// exposed.
package parser

import (
	"strings"

	"iql/internal/ast"
	"iql/internal/diag"
	"iql/internal/lexer"
	"iql/internal/source"
	"iql/internal/template"
	"iql/internal/token"
)

// Options configures a parse.
type Options struct {
	// Registry resolves template names. When nil, template leaves are
	// accepted without resolution (the validator owns that check then).
	Registry *template.Registry
	// Reporter receives diagnostics. May be nil.
	Reporter diag.Reporter
}

// Parser holds the state for parsing a single query.
type Parser struct {
	text   *source.Text
	toks   []token.Token
	pos    int
	opts   Options
	failed bool
}

// Parse lexes and parses one query. On failure it returns (nil, false) and
// every diagnostic has been sent to the reporter.
func Parse(t *source.Text, opts Options) (*ast.Query, bool) {
	lexBag := diag.NewBag(16)
	lx := lexer.New(t, lexer.Options{Reporter: diag.BagReporter{Bag: lexBag}})

	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if lexBag.HasErrors() {
		forward(opts.Reporter, lexBag)
		return nil, false
	}

	p := &Parser{text: t, toks: toks, opts: opts}
	root, ok := p.parseQuery()
	if !ok {
		return nil, false
	}
	return &ast.Query{Source: string(t.Content), Root: root}, true
}

func forward(r diag.Reporter, bag *diag.Bag) {
	if r == nil {
		return
	}
	for _, d := range bag.Items() {
		r.Report(d)
	}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	p.failed = true
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}

// hasStructure reports whether the token stream contains any operator,
// brace, or parenthesis. A query without structure is a standalone
// free-text statement.
func (p *Parser) hasStructure() bool {
	for _, t := range p.toks {
		if t.IsOperator() || t.IsDelimiter() {
			return true
		}
	}
	return false
}

func (p *Parser) parseQuery() (ast.Node, bool) {
	if p.toks[0].Kind == token.EOF {
		p.err(diag.SynExpectStatement, p.toks[0].Span, "empty query")
		return nil, false
	}

	if !p.hasStructure() {
		return p.standaloneStatement(), true
	}

	if !p.checkEdges() {
		return nil, false
	}

	root, ok := p.parseOr()
	if !ok {
		return nil, false
	}
	if !p.at(token.EOF) {
		tok := p.peek()
		p.err(diag.SynTrailingInput, tok.Span, "unexpected input after query: \""+tok.Text+"\"")
		return nil, false
	}
	return root, true
}

// standaloneStatement wraps an operator-free, bracket-free query as a single
// implicit free-text statement.
func (p *Parser) standaloneStatement() ast.Node {
	text := strings.TrimSpace(string(p.text.Content))
	first := p.toks[0].Span
	last := p.toks[len(p.toks)-2].Span // token before EOF
	return &ast.Leaf{Stmt: ast.Statement{
		FreeText: text,
		Span:     first.Cover(last),
	}}
}

// checkEdges rejects queries that start or end with a binary operator, and
// NOT immediately followed by another operator. NOT is the only operator
// permitted at the very start.
func (p *Parser) checkEdges() bool {
	first := p.toks[0]
	if first.IsBinaryOp() {
		p.err(diag.SynLeadingOperator, first.Span,
			"query cannot start with a binary operator \""+first.Text+"\"")
		return false
	}
	last := p.toks[len(p.toks)-2] // token before EOF
	if last.IsOperator() {
		p.err(diag.SynTrailingOperator, last.Span,
			"query cannot end with an operator \""+last.Text+"\"")
		return false
	}
	// Keyword spellings inside statement braces are content, not operators.
	depth := 0
	for i := 0; i+1 < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth > 0 {
				depth--
			}
		}
		if depth > 0 {
			continue
		}
		if p.toks[i].Kind == token.KwNot && p.toks[i+1].IsOperator() {
			p.err(diag.SynNotBeforeOperator, p.toks[i+1].Span,
				"NOT cannot be followed by another operator")
			return false
		}
	}
	return true
}

func (p *Parser) parseOr() (ast.Node, bool) {
	first, ok := p.parseAnd()
	if !ok {
		return nil, false
	}
	if !p.at(token.KwOr) {
		return first, true
	}
	children := []ast.Node{first}
	for p.at(token.KwOr) {
		p.advance()
		next, ok := p.parseAnd()
		if !ok {
			return nil, false
		}
		children = append(children, next)
	}
	return &ast.Or{Children: children, Loc: coverAll(children)}, true
}

func (p *Parser) parseAnd() (ast.Node, bool) {
	first, ok := p.parseNot()
	if !ok {
		return nil, false
	}
	if !p.at(token.KwAnd) {
		return first, true
	}
	children := []ast.Node{first}
	for p.at(token.KwAnd) {
		p.advance()
		next, ok := p.parseNot()
		if !ok {
			return nil, false
		}
		children = append(children, next)
	}
	return &ast.And{Children: children, Loc: coverAll(children)}, true
}

func (p *Parser) parseNot() (ast.Node, bool) {
	if !p.at(token.KwNot) {
		return p.parseCompare()
	}
	notTok := p.advance()
	child, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	return &ast.Not{Child: child, Loc: notTok.Span.Cover(child.Span())}, true
}

// parseCompare handles chained comparisons: each adjacent operand pair
// forms one Compare node and all pairs are conjoined with And. The shared
// middle operands reuse the same node.
func (p *Parser) parseCompare() (ast.Node, bool) {
	left, ok := p.parseAvg()
	if !ok {
		return nil, false
	}
	var pairs []ast.Node
	prev := left
	for p.at(token.Gt) || p.at(token.Lt) {
		opTok := p.advance()
		op := ast.CmpGt
		if opTok.Kind == token.Lt {
			op = ast.CmpLt
		}
		right, ok := p.parseAvg()
		if !ok {
			return nil, false
		}
		pairs = append(pairs, &ast.Compare{
			Op:    op,
			Left:  prev,
			Right: right,
			Loc:   prev.Span().Cover(right.Span()),
		})
		prev = right
	}
	switch len(pairs) {
	case 0:
		return left, true
	case 1:
		return pairs[0], true
	default:
		return &ast.And{Children: pairs, Loc: coverAll(pairs)}, true
	}
}

func (p *Parser) parseAvg() (ast.Node, bool) {
	first, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	if !p.at(token.Plus) {
		return first, true
	}
	children := []ast.Node{first}
	for p.at(token.Plus) {
		p.advance()
		next, ok := p.parsePrimary()
		if !ok {
			return nil, false
		}
		children = append(children, next)
	}
	return &ast.Average{Children: children, Loc: coverAll(children)}, true
}

func (p *Parser) parsePrimary() (ast.Node, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseStatement()
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseOr()
		if !ok {
			return nil, false
		}
		if !p.at(token.RParen) {
			p.err(diag.SynUnbalancedParen, open.Span, "unclosed parenthesis")
			return nil, false
		}
		closeTok := p.advance()
		return &ast.Group{Child: inner, Loc: open.Span.Cover(closeTok.Span)}, true
	case token.Word, token.StringLit:
		p.err(diag.SynMissingBraces, tok.Span,
			"statements must be enclosed in {} when the query contains operators")
		return nil, false
	case token.KwNot:
		p.err(diag.SynUnexpectedToken, tok.Span,
			"NOT is only permitted at the start of an operand")
		return nil, false
	case token.RParen:
		p.err(diag.SynUnbalancedParen, tok.Span, "unmatched closing parenthesis")
		return nil, false
	case token.RBrace:
		p.err(diag.SynUnbalancedBrace, tok.Span, "unmatched closing brace")
		return nil, false
	case token.EOF:
		p.err(diag.SynExpectStatement, tok.Span, "expected a statement")
		return nil, false
	default:
		p.err(diag.SynExpectStatement, tok.Span,
			"expected a statement, got \""+tok.Text+"\"")
		return nil, false
	}
}

func coverAll(nodes []ast.Node) source.Span {
	sp := nodes[0].Span()
	for _, n := range nodes[1:] {
		sp = sp.Cover(n.Span())
	}
	return sp
}
