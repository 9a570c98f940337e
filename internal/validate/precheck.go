package validate

import (
	"strings"

	"iql/internal/diag"
	"iql/internal/lexer"
	"iql/internal/source"
)

// mark is a lightweight item found by the pre-check scan. The fast tier
// deliberately avoids the real tokenizer: a single linear pass over the
// string is enough for the checks it makes, and it keeps the tier cheap
// enough to run on every keystroke.
type mark struct {
	kind markKind
	span source.Span
}

type markKind uint8

const (
	markWord markKind = iota
	markAnd
	markOr
	markNot
	markBinOp // > < +
	markLBrace
	markRBrace
	markLParen
	markRParen
	markStatement // a balanced {...} group, after reduction
)

func (m mark) isBinary() bool {
	return m.kind == markAnd || m.kind == markOr || m.kind == markBinOp
}

func (m mark) isOperator() bool {
	return m.isBinary() || m.kind == markNot
}

// Fast runs the string-level pre-check: balance of {} and (), operator edge
// placement, NOT followed by an operator, and the two-statement minimum when
// a binary operator is present.
func Fast(text string) Result {
	marks, unterminated := scanMarks(text)
	if unterminated != nil {
		return fail(diag.LexUnterminatedString, *unterminated, "unterminated quoted parameter")
	}

	if r, bad := checkBalance(marks, markLBrace, markRBrace, diag.SynUnbalancedBrace, "{}"); bad {
		return r
	}
	if r, bad := checkBalance(marks, markLParen, markRParen, diag.SynUnbalancedParen, "()"); bad {
		return r
	}

	if len(marks) == 0 {
		return fail(diag.SynExpectStatement, source.Span{}, "empty query")
	}

	// Collapse each balanced {...} group into one statement mark so that
	// operator words inside a statement count as content, not operators.
	top := reduceStatements(marks)

	hasBinary := false
	statements := 0
	structural := false
	for _, m := range top {
		if m.isBinary() {
			hasBinary = true
		}
		if m.kind == markStatement {
			statements++
		}
		if m.kind != markWord {
			structural = true
		}
	}

	if !structural {
		// Standalone free-text query.
		return ok()
	}

	if top[0].isBinary() {
		return fail(diag.SynLeadingOperator, top[0].span, "query cannot start with a binary operator")
	}
	last := top[len(top)-1]
	if last.isOperator() {
		return fail(diag.SynTrailingOperator, last.span, "query cannot end with an operator")
	}

	for i := 0; i+1 < len(top); i++ {
		if top[i].kind == markNot && top[i+1].isOperator() {
			return fail(diag.SynNotBeforeOperator, top[i+1].span, "NOT cannot be followed by another operator")
		}
	}

	if hasBinary && statements < 2 {
		return fail(diag.SynTooFewStatements, top[0].span,
			"operators require at least two statements in {}")
	}

	return ok()
}

// reduceStatements replaces every balanced {...} run with a single
// statement mark. Balance has been verified already.
func reduceStatements(marks []mark) []mark {
	var top []mark
	depth := 0
	var groupStart source.Span
	for _, m := range marks {
		switch m.kind {
		case markLBrace:
			if depth == 0 {
				groupStart = m.span
			}
			depth++
		case markRBrace:
			depth--
			if depth == 0 {
				top = append(top, mark{kind: markStatement, span: groupStart.Cover(m.span)})
			}
		default:
			if depth == 0 {
				top = append(top, m)
			}
		}
	}
	return top
}

func checkBalance(marks []mark, open, closeKind markKind, code diag.Code, pair string) (Result, bool) {
	opens, closes := 0, 0
	var firstSpan source.Span
	seen := false
	for _, m := range marks {
		if m.kind == open || m.kind == closeKind {
			if !seen {
				firstSpan = m.span
				seen = true
			}
			if m.kind == open {
				opens++
			} else {
				closes++
			}
		}
	}
	if opens != closes {
		return fail(code, firstSpan, "unbalanced "+pair+" brackets"), true
	}
	return Result{}, false
}

// scanMarks walks the string once, skipping quoted regions (honoring \"),
// and produces the mark list. It returns a non-nil span when a quote never
// closes.
func scanMarks(text string) ([]mark, *source.Span) {
	var marks []mark
	i := 0
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '"':
			start := i
			i++
			closed := false
			for i < len(text) {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
					continue
				}
				if text[i] == '"' {
					i++
					closed = true
					break
				}
				i++
			}
			if !closed {
				sp := spanOf(start, len(text))
				return nil, &sp
			}
			marks = append(marks, mark{kind: markWord, span: spanOf(start, i)})
		case ch == '{':
			marks = append(marks, mark{kind: markLBrace, span: spanOf(i, i+1)})
			i++
		case ch == '}':
			marks = append(marks, mark{kind: markRBrace, span: spanOf(i, i+1)})
			i++
		case ch == '(':
			marks = append(marks, mark{kind: markLParen, span: spanOf(i, i+1)})
			i++
		case ch == ')':
			marks = append(marks, mark{kind: markRParen, span: spanOf(i, i+1)})
			i++
		case ch == '>' || ch == '<' || ch == '+':
			marks = append(marks, mark{kind: markBinOp, span: spanOf(i, i+1)})
			i++
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		default:
			start := i
			for i < len(text) && !isBreak(text[i]) {
				i++
			}
			marks = append(marks, wordMark(text[start:i], start, i))
		}
	}
	return marks, nil
}

func wordMark(word string, start, end int) mark {
	kind := markWord
	switch strings.ToUpper(word) {
	case "AND":
		kind = markAnd
	case "OR":
		kind = markOr
	case "NOT":
		kind = markNot
	}
	return mark{kind: kind, span: spanOf(start, end)}
}

func isBreak(b byte) bool {
	switch b {
	case '{', '}', '(', ')', '>', '<', '+', '"', ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func spanOf(start, end int) source.Span {
	return source.Span{Start: uint32(lexer.MarkOf(start)), End: uint32(lexer.MarkOf(end))}
}
