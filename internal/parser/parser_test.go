package parser_test

import (
	"strings"
	"testing"

	"iql/internal/ast"
	"iql/internal/diag"
	"iql/internal/parser"
	"iql/internal/source"
	"iql/internal/template"
)

// parseWith parses input against the built-in registry.
func parseWith(input string) (*ast.Query, *diag.Bag) {
	bag := diag.NewBag(64)
	q, _ := parser.Parse(source.NewText("test", []byte(input)), parser.Options{
		Registry: template.Builtin(),
		Reporter: diag.BagReporter{Bag: bag},
	})
	return q, bag
}

// mustParse fails the test when input does not parse.
func mustParse(t *testing.T, input string) *ast.Query {
	t.Helper()
	q, bag := parseWith(input)
	if q == nil {
		t.Fatalf("parse failed for %q: %s", input, diagnosticsSummary(bag))
	}
	return q
}

// expectError asserts the parse fails with the given code.
func expectError(t *testing.T, input string, code diag.Code) diag.Diagnostic {
	t.Helper()
	q, bag := parseWith(input)
	if q != nil {
		t.Fatalf("expected parse of %q to fail", input)
	}
	d, found := bag.FirstError()
	if !found {
		t.Fatalf("no diagnostic reported for %q", input)
	}
	if d.Code != code {
		t.Fatalf("%q: expected code %s, got %s (%s)", input, code.ID(), d.Code.ID(), d.Message)
	}
	return d
}

func diagnosticsSummary(bag *diag.Bag) string {
	items := bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = "[" + d.Code.ID() + "] " + d.Message
	}
	return strings.Join(lines, "; ")
}

func TestTemplateStatement(t *testing.T) {
	q := mustParse(t, "{IS confidentiality clause}")
	leaf, ok := q.Root.(*ast.Leaf)
	if !ok {
		t.Fatalf("expected Leaf root, got %T", q.Root)
	}
	if leaf.Stmt.Template != "confidentiality clause" {
		t.Errorf("template = %q", leaf.Stmt.Template)
	}
	if leaf.Stmt.HasParam {
		t.Error("unexpected parameter")
	}
}

func TestTemplateStatementWithParameter(t *testing.T) {
	q := mustParse(t, `{IS clause obligating "Acme Corp"}`)
	leaf := q.Root.(*ast.Leaf)
	if leaf.Stmt.Template != "clause obligating" {
		t.Errorf("template = %q", leaf.Stmt.Template)
	}
	if !leaf.Stmt.HasParam || leaf.Stmt.Param != "Acme Corp" {
		t.Errorf("param = %q (has=%v)", leaf.Stmt.Param, leaf.Stmt.HasParam)
	}
}

func TestTemplateNameCaseInsensitive(t *testing.T) {
	q := mustParse(t, "{is Confidentiality CLAUSE}")
	leaf := q.Root.(*ast.Leaf)
	if leaf.Stmt.Template != "confidentiality clause" {
		t.Errorf("template = %q", leaf.Stmt.Template)
	}
}

func TestFreeTextStatement(t *testing.T) {
	q := mustParse(t, "{the supplier must deliver within 30 days} AND {IS warranty clause}")
	and := q.Root.(*ast.And)
	leaf := and.Children[0].(*ast.Leaf)
	if leaf.Stmt.IsTemplate() {
		t.Fatal("expected free-text statement")
	}
	if leaf.Stmt.FreeText != "the supplier must deliver within 30 days" {
		t.Errorf("free text = %q", leaf.Stmt.FreeText)
	}
}

func TestStandaloneFreeText(t *testing.T) {
	q := mustParse(t, "payment terms net thirty")
	leaf, ok := q.Root.(*ast.Leaf)
	if !ok {
		t.Fatalf("expected Leaf root, got %T", q.Root)
	}
	if leaf.Stmt.IsTemplate() {
		t.Fatal("expected free-text statement")
	}
	if leaf.Stmt.FreeText != "payment terms net thirty" {
		t.Errorf("free text = %q", leaf.Stmt.FreeText)
	}
}

func TestOperatorWordsInsideStatementAreContent(t *testing.T) {
	q := mustParse(t, "{terms and conditions} OR {IS termination clause}")
	or := q.Root.(*ast.Or)
	leaf := or.Children[0].(*ast.Leaf)
	if leaf.Stmt.FreeText != "terms and conditions" {
		t.Errorf("free text = %q", leaf.Stmt.FreeText)
	}
}

func TestBooleanPrecedence(t *testing.T) {
	// AND binds tighter than OR.
	q := mustParse(t, "{a} OR {b} AND {c}")
	or, ok := q.Root.(*ast.Or)
	if !ok {
		t.Fatalf("expected Or root, got %T", q.Root)
	}
	if len(or.Children) != 2 {
		t.Fatalf("expected 2 Or children, got %d", len(or.Children))
	}
	if _, ok := or.Children[0].(*ast.Leaf); !ok {
		t.Errorf("left child: expected Leaf, got %T", or.Children[0])
	}
	if _, ok := or.Children[1].(*ast.And); !ok {
		t.Errorf("right child: expected And, got %T", or.Children[1])
	}
}

func TestNAryCollapse(t *testing.T) {
	q := mustParse(t, "{a} AND {b} AND {c} AND {d}")
	and := q.Root.(*ast.And)
	if len(and.Children) != 4 {
		t.Errorf("expected 4 children, got %d", len(and.Children))
	}
}

func TestNotBinding(t *testing.T) {
	q := mustParse(t, "NOT {a} AND {b}")
	and, ok := q.Root.(*ast.And)
	if !ok {
		t.Fatalf("expected And root, got %T", q.Root)
	}
	if _, ok := and.Children[0].(*ast.Not); !ok {
		t.Errorf("expected Not as first child, got %T", and.Children[0])
	}
}

func TestParenGrouping(t *testing.T) {
	q := mustParse(t, "({a} OR {b}) AND {c}")
	and := q.Root.(*ast.And)
	group, ok := and.Children[0].(*ast.Group)
	if !ok {
		t.Fatalf("expected Group, got %T", and.Children[0])
	}
	if _, ok := group.Child.(*ast.Or); !ok {
		t.Errorf("expected Or inside group, got %T", group.Child)
	}
}

func TestNotOverParens(t *testing.T) {
	q := mustParse(t, "NOT ({a} OR {b})")
	not, ok := q.Root.(*ast.Not)
	if !ok {
		t.Fatalf("expected Not root, got %T", q.Root)
	}
	if _, ok := not.Child.(*ast.Group); !ok {
		t.Errorf("expected Group child, got %T", not.Child)
	}
}

func TestAverage(t *testing.T) {
	q := mustParse(t, "{a} + {b} + {c}")
	avg, ok := q.Root.(*ast.Average)
	if !ok {
		t.Fatalf("expected Average root, got %T", q.Root)
	}
	if len(avg.Children) != 3 {
		t.Errorf("expected 3 children, got %d", len(avg.Children))
	}
}

func TestCompare(t *testing.T) {
	q := mustParse(t, "{a} > {b}")
	cmp, ok := q.Root.(*ast.Compare)
	if !ok {
		t.Fatalf("expected Compare root, got %T", q.Root)
	}
	if cmp.Op != ast.CmpGt {
		t.Errorf("expected >, got %v", cmp.Op)
	}
}

func TestCompareBindsLooserThanPlus(t *testing.T) {
	q := mustParse(t, "{a} + {b} > {c}")
	cmp := q.Root.(*ast.Compare)
	if _, ok := cmp.Left.(*ast.Average); !ok {
		t.Errorf("expected Average on the left, got %T", cmp.Left)
	}
}

func TestChainedComparisonDesugars(t *testing.T) {
	q := mustParse(t, "{a} > {b} > {c}")
	and, ok := q.Root.(*ast.And)
	if !ok {
		t.Fatalf("expected And root, got %T", q.Root)
	}
	if len(and.Children) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(and.Children))
	}
	first := and.Children[0].(*ast.Compare)
	second := and.Children[1].(*ast.Compare)
	if first.Right != second.Left {
		t.Error("middle operand must be the same node in both pairs")
	}
}

func TestChainedComparisonMixedOps(t *testing.T) {
	q := mustParse(t, "{a} > {b} < {c}")
	and := q.Root.(*ast.And)
	if and.Children[0].(*ast.Compare).Op != ast.CmpGt {
		t.Error("first pair should be >")
	}
	if and.Children[1].(*ast.Compare).Op != ast.CmpLt {
		t.Error("second pair should be <")
	}
}

func TestUniqueLeavesSharesChainMiddle(t *testing.T) {
	q := mustParse(t, "{a} > {b} > {c}")
	leaves := q.UniqueLeaves()
	if len(leaves) != 3 {
		t.Errorf("expected 3 unique leaves, got %d", len(leaves))
	}
}

func TestEmptyQuery(t *testing.T) {
	expectError(t, "", diag.SynExpectStatement)
	expectError(t, "   ", diag.SynExpectStatement)
}

func TestLeadingBinaryOperator(t *testing.T) {
	expectError(t, "AND {a}", diag.SynLeadingOperator)
	expectError(t, "> {a}", diag.SynLeadingOperator)
	expectError(t, "+ {a}", diag.SynLeadingOperator)
}

func TestTrailingOperator(t *testing.T) {
	expectError(t, "{a} AND", diag.SynTrailingOperator)
	expectError(t, "{a} NOT", diag.SynTrailingOperator)
	expectError(t, "{a} >", diag.SynTrailingOperator)
}

func TestNotBeforeOperator(t *testing.T) {
	expectError(t, "{a} NOT AND {b}", diag.SynNotBeforeOperator)
	expectError(t, "NOT > {a}", diag.SynNotBeforeOperator)
}

func TestMissingBraces(t *testing.T) {
	expectError(t, "confidentiality AND termination", diag.SynMissingBraces)
}

func TestEmptyStatement(t *testing.T) {
	expectError(t, "{} AND {a}", diag.SynEmptyStatement)
}

func TestUnbalancedBrace(t *testing.T) {
	expectError(t, "{a} AND {unclosed", diag.SynUnbalancedBrace)
	expectError(t, "{a} AND unopened}", diag.SynMissingBraces)
}

func TestUnbalancedParen(t *testing.T) {
	expectError(t, "({a} OR {b}", diag.SynUnbalancedParen)
	expectError(t, "{a}) OR {b}", diag.SynTrailingInput)
}

func TestNestedStatement(t *testing.T) {
	expectError(t, "{outer {inner}}", diag.SynNestedStatement)
}

func TestUnknownTemplate(t *testing.T) {
	d := expectError(t, "{IS confidentality clause}", diag.SemaUnknownTemplate)
	found := false
	for _, s := range d.Suggestions {
		if s == "confidentiality clause" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a suggestion, got %v", d.Suggestions)
	}
}

func TestMissingTemplateName(t *testing.T) {
	expectError(t, "{IS}", diag.SynExpectTemplateName)
	expectError(t, `{IS "param only"}`, diag.SynExpectTemplateName)
}

func TestParseWithoutRegistrySkipsResolution(t *testing.T) {
	bag := diag.NewBag(16)
	q, ok := parser.Parse(source.NewText("test", []byte("{IS not a real template}")), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if !ok || q == nil {
		t.Fatalf("expected parse to succeed without a registry: %s", diagnosticsSummary(bag))
	}
}

// Round-trip: format then reparse must yield a structurally equal tree.
func TestRoundTrip(t *testing.T) {
	seeds := []string{
		"{IS confidentiality clause}",
		`{IS clause obligating "Acme Corp"}`,
		"{IS confidentiality clause} AND NOT {IS termination clause}",
		"({IS warranty clause} OR {IS indemnification clause}) AND {IS assignment clause}",
		"{IS force majeure clause} + {IS arbitration clause} > {IS exclusivity clause}",
		"{a} > {b} > {c}",
		"NOT ({a} OR {b} OR {c})",
		"standalone free text query",
		"{free text} AND {IS governing law clause}",
	}
	for _, seed := range seeds {
		first := mustParse(t, seed)
		printed := ast.Format(first.Root)
		second, bag := parseWith(printed)
		if second == nil {
			t.Fatalf("reparse of %q (from %q) failed: %s", printed, seed, diagnosticsSummary(bag))
		}
		if !ast.Equal(first.Root, second.Root) {
			t.Errorf("round-trip mismatch for %q:\nprinted: %q", seed, printed)
		}
	}
}
