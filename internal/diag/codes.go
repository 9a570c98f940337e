package diag

import "fmt"

// Code identifies a diagnostic category. Lexical codes live in the 1xxx
// range, syntactic in 2xxx, semantic in 3xxx, evaluation in 4xxx.
type Code uint16

const (
	// UnknownCode is the zero value for unclassified diagnostics.
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Syntactic
	SynUnexpectedToken     Code = 2001
	SynUnbalancedBrace     Code = 2002
	SynUnbalancedParen     Code = 2003
	SynLeadingOperator     Code = 2004
	SynTrailingOperator    Code = 2005
	SynNotBeforeOperator   Code = 2006
	SynExpectStatement     Code = 2007
	SynEmptyStatement      Code = 2008
	SynMissingBraces       Code = 2009
	SynExpectTemplateName  Code = 2010
	SynTooFewStatements    Code = 2011
	SynTrailingInput       Code = 2012
	SynNestedStatement     Code = 2013

	// Semantic
	SemaUnknownTemplate  Code = 3001
	SemaMissingParameter Code = 3002

	// Warnings surfaced by full validation
	WarnFreeTextLeaf        Code = 3101
	WarnNoParameter         Code = 3102
	WarnChainedComparison   Code = 3103
	WarnStandaloneFreeText  Code = 3104

	// Evaluation
	EvalBackendFailure Code = 4001
	EvalTimeout        Code = 4002
	EvalCancelled      Code = 4003
)

var codeNames = map[Code]string{
	UnknownCode:            "unknown",
	LexUnknownChar:         "lex-unknown-char",
	LexUnterminatedString:  "lex-unterminated-string",
	SynUnexpectedToken:     "syn-unexpected-token",
	SynUnbalancedBrace:     "syn-unbalanced-brace",
	SynUnbalancedParen:     "syn-unbalanced-paren",
	SynLeadingOperator:     "syn-leading-operator",
	SynTrailingOperator:    "syn-trailing-operator",
	SynNotBeforeOperator:   "syn-not-before-operator",
	SynExpectStatement:     "syn-expect-statement",
	SynEmptyStatement:      "syn-empty-statement",
	SynMissingBraces:       "syn-missing-braces",
	SynExpectTemplateName:  "syn-expect-template-name",
	SynTooFewStatements:    "syn-too-few-statements",
	SynTrailingInput:       "syn-trailing-input",
	SynNestedStatement:     "syn-nested-statement",
	SemaUnknownTemplate:    "sema-unknown-template",
	SemaMissingParameter:   "sema-missing-parameter",
	WarnFreeTextLeaf:       "warn-free-text-leaf",
	WarnNoParameter:        "warn-no-parameter",
	WarnChainedComparison:  "warn-chained-comparison",
	WarnStandaloneFreeText: "warn-standalone-free-text",
	EvalBackendFailure:     "eval-backend-failure",
	EvalTimeout:            "eval-timeout",
	EvalCancelled:          "eval-cancelled",
}

// ID returns the stable machine-readable identifier, e.g. "IQL2004".
func (c Code) ID() string {
	return fmt.Sprintf("IQL%04d", uint16(c))
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code-%d", uint16(c))
}
