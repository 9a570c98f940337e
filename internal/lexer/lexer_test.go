package lexer_test

import (
	"strings"
	"testing"

	"iql/internal/diag"
	"iql/internal/lexer"
	"iql/internal/source"
	"iql/internal/token"
)

// makeTestLexer creates a lexer over a test query with a capturing bag.
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	text := source.NewText("test", []byte(input))
	bag := diag.NewBag(64)
	lx := lexer.New(text, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

// collectAllTokens drains the lexer up to and including EOF.
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens checks the token kind sequence, EOF excluded.
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\ndiags: %v",
			len(expected), len(tokens), input, tokens, bag.Items())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text %q)",
				i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestPunctuation(t *testing.T) {
	expectTokens(t, "{ } ( ) > < +", []token.Kind{
		token.LBrace, token.RBrace, token.LParen, token.RParen,
		token.Gt, token.Lt, token.Plus,
	})
}

func TestPunctuationWithoutSpaces(t *testing.T) {
	expectTokens(t, "({a}>{b})", []token.Kind{
		token.LParen, token.LBrace, token.Word, token.RBrace,
		token.Gt,
		token.LBrace, token.Word, token.RBrace, token.RParen,
	})
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	for _, input := range []string{"AND", "and", "And", "aNd"} {
		lx, _ := makeTestLexer(input)
		tok := lx.Next()
		if tok.Kind != token.KwAnd {
			t.Errorf("%q: expected KwAnd, got %v", input, tok.Kind)
		}
	}
	expectTokens(t, "or NOT is", []token.Kind{token.KwOr, token.KwNot, token.KwIs})
}

func TestKeywordNeedsWordBoundary(t *testing.T) {
	// Maximal word runs: a keyword spelling inside a longer word stays a word.
	for _, input := range []string{"ANDY", "band", "orbit", "NOTARY", "island"} {
		lx, _ := makeTestLexer(input)
		tok := lx.Next()
		if tok.Kind != token.Word {
			t.Errorf("%q: expected Word, got %v", input, tok.Kind)
		}
		if tok.Text != input {
			t.Errorf("%q: expected full text, got %q", input, tok.Text)
		}
	}
}

func TestWordRunStopsAtDelimiters(t *testing.T) {
	expectTokens(t, "termination clause}", []token.Kind{
		token.Word, token.Word, token.RBrace,
	})
}

func TestStringLiteral(t *testing.T) {
	lx, bag := makeTestLexer(`"Acme Corp"`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Fatalf("expected StringLit, got %v", tok.Kind)
	}
	if tok.Text != "Acme Corp" {
		t.Errorf("expected decoded text %q, got %q", "Acme Corp", tok.Text)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestStringEscapes(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`"a \"quoted\" name"`, `a "quoted" name`},
		{`"back\\slash"`, `back\slash`},
		{`"keep \n verbatim"`, `keep \n verbatim`},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.input)
		tok := lx.Next()
		if tok.Kind != token.StringLit {
			t.Fatalf("%q: expected StringLit, got %v", tc.input, tok.Kind)
		}
		if tok.Text != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.input, tc.want, tok.Text)
		}
		if bag.HasErrors() {
			t.Errorf("%q: unexpected diagnostics: %v", tc.input, bag.Items())
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer(`"never closed`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid token, got %v", tok.Kind)
	}
	d, found := bag.FirstError()
	if !found {
		t.Fatal("expected a diagnostic")
	}
	if d.Code != diag.LexUnterminatedString {
		t.Errorf("expected LexUnterminatedString, got %v", d.Code)
	}
}

func TestControlCharacter(t *testing.T) {
	lx, bag := makeTestLexer("abc \x01 def")
	tokens := collectAllTokens(lx)

	sawInvalid := false
	for _, tok := range tokens {
		if tok.Kind == token.Invalid {
			sawInvalid = true
		}
	}
	if !sawInvalid {
		t.Error("expected an Invalid token for the control character")
	}
	d, found := bag.FirstError()
	if !found {
		t.Fatal("expected a diagnostic")
	}
	if d.Code != diag.LexUnknownChar {
		t.Errorf("expected LexUnknownChar, got %v", d.Code)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("")
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("AND OR")
	if tok := lx.Peek(); tok.Kind != token.KwAnd {
		t.Fatalf("peek: expected KwAnd, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.KwAnd {
		t.Fatalf("next: expected KwAnd, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.KwOr {
		t.Fatalf("next: expected KwOr, got %v", tok.Kind)
	}
}

func TestSpansCoverSource(t *testing.T) {
	input := "{IS termination clause}"
	lx, _ := makeTestLexer(input)
	text := source.NewText("test", []byte(input))

	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.EOF {
			continue
		}
		got := text.Slice(tok.Span)
		if tok.Kind == token.StringLit {
			continue
		}
		if got != tok.Text {
			t.Errorf("span %s: slice %q != token text %q", tok.Span, got, tok.Text)
		}
	}
}

func TestWhitespaceOnlyInput(t *testing.T) {
	lx, bag := makeTestLexer(" \t\r\n ")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLongQuery(t *testing.T) {
	var b strings.Builder
	b.WriteString("{IS confidentiality clause}")
	for i := 0; i < 50; i++ {
		b.WriteString(" AND {IS termination clause}")
	}
	lx, bag := makeTestLexer(b.String())
	tokens := collectAllTokens(lx)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	// 5 tokens per statement, AND between, final EOF
	want := 5 + 50*6 + 1
	if len(tokens) != want {
		t.Errorf("expected %d tokens, got %d", want, len(tokens))
	}
}
