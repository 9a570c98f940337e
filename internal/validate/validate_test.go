package validate_test

import (
	"strings"
	"testing"

	"iql/internal/diag"
	"iql/internal/template"
	"iql/internal/validate"
)

func fastValid(t *testing.T, input string) {
	t.Helper()
	res := validate.Fast(input)
	if !res.Valid {
		t.Errorf("Fast(%q) invalid: %s", input, res.Error.Message)
	}
}

func fastInvalid(t *testing.T, input string, code diag.Code) {
	t.Helper()
	res := validate.Fast(input)
	if res.Valid {
		t.Fatalf("Fast(%q): expected invalid", input)
	}
	if res.Error.Code != code {
		t.Errorf("Fast(%q): expected %s, got %s (%s)",
			input, code.ID(), res.Error.Code.ID(), res.Error.Message)
	}
}

func TestFastValid(t *testing.T) {
	for _, input := range []string{
		"{a} AND {b}",
		"{a} OR {b} AND {c}",
		"NOT {a}",
		"({a} OR {b}) AND {c}",
		"{a} > {b}",
		"{a} + {b} > {c}",
		"{a} > {b} > {c}",
		"standalone free text",
		"{terms and conditions} OR {x}",
		"{shall not assign} AND {x}",
		`{IS clause obligating "Acme, Inc."} AND {b}`,
	} {
		fastValid(t, input)
	}
}

func TestFastEmpty(t *testing.T) {
	fastInvalid(t, "", diag.SynExpectStatement)
	fastInvalid(t, "   ", diag.SynExpectStatement)
}

func TestFastLeadingOperator(t *testing.T) {
	fastInvalid(t, "AND {a}", diag.SynLeadingOperator)
	fastInvalid(t, "or {a}", diag.SynLeadingOperator)
	fastInvalid(t, "> {a}", diag.SynLeadingOperator)
	fastInvalid(t, "+ {a}", diag.SynLeadingOperator)
}

func TestFastTrailingOperator(t *testing.T) {
	fastInvalid(t, "{a} AND", diag.SynTrailingOperator)
	fastInvalid(t, "{a} NOT", diag.SynTrailingOperator)
	fastInvalid(t, "{a} <", diag.SynTrailingOperator)
}

func TestFastNotBeforeOperator(t *testing.T) {
	fastInvalid(t, "{a} NOT AND {b}", diag.SynNotBeforeOperator)
	fastInvalid(t, "NOT > {a}", diag.SynNotBeforeOperator)
}

func TestFastUnbalanced(t *testing.T) {
	fastInvalid(t, "{a} AND {b", diag.SynUnbalancedBrace)
	fastInvalid(t, "a} AND {b}", diag.SynUnbalancedBrace)
	fastInvalid(t, "({a} OR {b}", diag.SynUnbalancedParen)
}

func TestFastUnterminatedQuote(t *testing.T) {
	fastInvalid(t, `{IS clause obligating "Acme}`, diag.LexUnterminatedString)
}

func TestFastOperatorsNeedBracedStatements(t *testing.T) {
	fastInvalid(t, "alpha AND beta", diag.SynTooFewStatements)
	fastInvalid(t, "{a} AND beta", diag.SynTooFewStatements)
}

func TestFastBracedOperatorWordsAreContent(t *testing.T) {
	// A lone statement whose text contains operator spellings stays valid.
	fastValid(t, "{termination AND renewal}")
	fastValid(t, "{not transferable}")
}

func TestFastQuotedDelimitersAreContent(t *testing.T) {
	fastValid(t, `{IS definition of "A > B"} AND {b}`)
}

func fullValid(t *testing.T, input string) validate.Result {
	t.Helper()
	res := validate.Full(input, template.Builtin())
	if !res.Valid {
		t.Fatalf("Full(%q) invalid: %s", input, res.Error.Message)
	}
	return res
}

func TestFullValidQuery(t *testing.T) {
	res := fullValid(t, "{IS confidentiality clause} AND NOT {IS termination clause}")
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestFullUnknownTemplate(t *testing.T) {
	res := validate.Full("{IS confidentality clause}", template.Builtin())
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if res.Error.Code != diag.SemaUnknownTemplate {
		t.Fatalf("expected SemaUnknownTemplate, got %s", res.Error.Code.ID())
	}
	found := false
	for _, s := range res.Suggestions {
		if s == "confidentiality clause" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a suggestion, got %v", res.Suggestions)
	}
}

func TestFullRequiredParameter(t *testing.T) {
	res := validate.Full("{IS definition of}", template.Builtin())
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if res.Error.Code != diag.SemaMissingParameter {
		t.Errorf("expected SemaMissingParameter, got %s", res.Error.Code.ID())
	}

	fullValid(t, `{IS definition of "Confidential Information"}`)
}

func TestFullRecommendedParameterWarns(t *testing.T) {
	res := fullValid(t, "{IS governing law clause}")
	if !hasWarningContaining(res, "parameter") {
		t.Errorf("expected a parameter warning, got %v", res.Warnings)
	}
}

func TestFullStandaloneFreeTextWarns(t *testing.T) {
	res := fullValid(t, "supplier indemnifies the customer")
	if !hasWarningContaining(res, "free-text") {
		t.Errorf("expected a free-text warning, got %v", res.Warnings)
	}
}

func TestFullFreeTextStatementWarns(t *testing.T) {
	res := fullValid(t, "{supplier indemnifies the customer} AND {IS warranty clause}")
	if !hasWarningContaining(res, "free-text") {
		t.Errorf("expected a free-text warning, got %v", res.Warnings)
	}
}

func TestFullChainedComparisonWarns(t *testing.T) {
	res := fullValid(t, "{a} > {b} > {c}")
	if !hasWarningContaining(res, "chained") {
		t.Errorf("expected a chained-comparison warning, got %v", res.Warnings)
	}

	// A single comparison is not a chain.
	res = fullValid(t, "{a} > {b}")
	if hasWarningContaining(res, "chained") {
		t.Errorf("unexpected chain warning: %v", res.Warnings)
	}
}

func TestParseQueryReturnsTree(t *testing.T) {
	q, res := validate.ParseQuery("{IS warranty clause} OR {IS arbitration clause}", template.Builtin())
	if q == nil {
		t.Fatalf("expected a query: %+v", res.Error)
	}
	if len(q.UniqueLeaves()) != 2 {
		t.Errorf("expected 2 leaves, got %d", len(q.UniqueLeaves()))
	}

	q, res = validate.ParseQuery("{IS no such thing}", template.Builtin())
	if q != nil || res.Valid {
		t.Error("expected nil query and invalid result")
	}
}

// Fast-tier rejection must imply full-tier rejection.
func TestTiersAgreeOnInvalid(t *testing.T) {
	inputs := []string{
		"",
		"AND {a}",
		"{a} AND",
		"{a} NOT AND {b}",
		"{a} AND {b",
		"({a} OR {b}",
		`{IS clause obligating "Acme}`,
		"alpha AND beta",
	}
	reg := template.Builtin()
	for _, input := range inputs {
		if validate.Fast(input).Valid {
			t.Errorf("Fast(%q): expected invalid", input)
		}
		if validate.Full(input, reg).Valid {
			t.Errorf("Full(%q): expected invalid", input)
		}
	}
}

// Validate dispatches on the tier.
func TestValidateDispatch(t *testing.T) {
	reg := template.Builtin()

	// The fast tier does not resolve template names.
	input := "{IS no such template} AND {IS warranty clause}"
	if !validate.Validate(input, validate.TierFast, reg).Valid {
		t.Error("fast tier should not resolve templates")
	}
	if validate.Validate(input, validate.TierFull, reg).Valid {
		t.Error("full tier should reject the unknown template")
	}
}

func hasWarningContaining(res validate.Result, substr string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
