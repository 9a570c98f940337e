package parser

import (
	"strings"

	"iql/internal/ast"
	"iql/internal/diag"
	"iql/internal/token"
)

// parseStatement parses a braced leaf: either the template form
// {IS name ["param"]} or a free-text clause {any text}. Statements are
// flat; a '{' inside a statement is an error, parentheses group operators
// only.
func (p *Parser) parseStatement() (ast.Node, bool) {
	open := p.advance() // '{'

	if p.at(token.RBrace) {
		closeTok := p.advance()
		p.err(diag.SynEmptyStatement, open.Span.Cover(closeTok.Span), "empty statement")
		return nil, false
	}

	if p.at(token.KwIs) {
		return p.parseTemplateStatement(open)
	}
	return p.parseFreeTextStatement(open)
}

func (p *Parser) parseTemplateStatement(open token.Token) (ast.Node, bool) {
	p.advance() // IS

	var parts []string
	nameSpan := p.peek().Span
	for p.at(token.Word) {
		tok := p.advance()
		parts = append(parts, tok.Text)
		nameSpan = nameSpan.Cover(tok.Span)
	}
	if len(parts) == 0 {
		p.err(diag.SynExpectTemplateName, p.peek().Span, "expected a template name after IS")
		return nil, false
	}
	name := strings.ToLower(strings.Join(parts, " "))

	stmt := ast.Statement{Template: name}
	if p.at(token.StringLit) {
		paramTok := p.advance()
		stmt.Param = paramTok.Text
		stmt.HasParam = true
	}

	if !p.closeStatement(open) {
		return nil, false
	}
	closeTok := p.toks[p.pos-1]
	stmt.Span = open.Span.Cover(closeTok.Span)

	if p.opts.Registry != nil {
		if _, ok := p.opts.Registry.Lookup(name); !ok {
			d := diag.NewError(diag.SemaUnknownTemplate, nameSpan,
				"unknown template \""+name+"\"").
				WithSuggestions(p.opts.Registry.Suggest(name)...)
			p.failed = true
			if p.opts.Reporter != nil {
				p.opts.Reporter.Report(d)
			}
			return nil, false
		}
	}

	return &ast.Leaf{Stmt: stmt}, true
}

func (p *Parser) parseFreeTextStatement(open token.Token) (ast.Node, bool) {
	start := p.peek().Span
	last := start
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.LBrace) {
			p.err(diag.SynNestedStatement, p.peek().Span,
				"statements cannot be nested; use parentheses to group operators")
			return nil, false
		}
		last = p.advance().Span
	}
	if !p.closeStatement(open) {
		return nil, false
	}
	closeTok := p.toks[p.pos-1]

	// Reconstruct the clause from the source to preserve original spacing.
	textSpan := start.Cover(last)
	stmt := ast.Statement{
		FreeText: strings.TrimSpace(p.text.Slice(textSpan)),
		Span:     open.Span.Cover(closeTok.Span),
	}
	return &ast.Leaf{Stmt: stmt}, true
}

// closeStatement consumes the closing brace or reports it missing.
func (p *Parser) closeStatement(open token.Token) bool {
	if p.at(token.RBrace) {
		p.advance()
		return true
	}
	if p.at(token.EOF) {
		p.err(diag.SynUnbalancedBrace, open.Span, "unclosed statement brace")
		return false
	}
	tok := p.peek()
	p.err(diag.SynUnexpectedToken, tok.Span,
		"unexpected \""+tok.Text+"\" in statement; expected \"}\"")
	return false
}
