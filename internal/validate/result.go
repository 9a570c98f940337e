// Package validate checks query text in two tiers: a string-level fast
// pre-check for interactive feedback, and a full lex+parse+resolve pass.
// Both tiers return the same Result shape so callers can trade latency for
// completeness.
package validate

import (
	"iql/internal/diag"
	"iql/internal/source"
)

// Tier selects the validation depth.
type Tier uint8

const (
	// TierFast runs the string-level pre-check only.
	TierFast Tier = iota
	// TierFull runs the tokenizer, parser, and registry resolution.
	TierFull
)

// ErrorDetail describes the first validation failure.
type ErrorDetail struct {
	Code    diag.Code
	Message string
	Span    source.Span
}

// Result is the outcome of either validation tier.
type Result struct {
	Valid       bool
	Error       *ErrorDetail
	Suggestions []string
	Warnings    []string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(code diag.Code, sp source.Span, msg string) Result {
	return Result{
		Valid: false,
		Error: &ErrorDetail{Code: code, Message: msg, Span: sp},
	}
}

func failDiag(d diag.Diagnostic) Result {
	return Result{
		Valid:       false,
		Error:       &ErrorDetail{Code: d.Code, Message: d.Message, Span: d.Primary},
		Suggestions: d.Suggestions,
	}
}
