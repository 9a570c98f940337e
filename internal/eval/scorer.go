// Package eval walks a parsed query tree and combines per-statement scores
// from an external scoring capability into a single match result.
package eval

import (
	"context"
	"fmt"

	"iql/internal/source"
)

// LeafScore is what the scoring capability returns for one statement:
// a confidence in [0,1] and the corpus spans that justified it.
type LeafScore struct {
	Score float64
	Spans []source.Span
}

// Scorer is the single external capability the evaluator consumes. The
// statement text is the canonical form of a leaf (see ast.Statement);
// corpus is the document content being evaluated. Implementations own
// their network details and retry policy; the evaluator never retries.
type Scorer interface {
	Score(ctx context.Context, statement, corpus string) (LeafScore, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, statement, corpus string) (LeafScore, error)

func (f ScorerFunc) Score(ctx context.Context, statement, corpus string) (LeafScore, error) {
	return f(ctx, statement, corpus)
}

// BackendErrorKind classifies scoring-capability failures.
type BackendErrorKind uint8

const (
	// BackendRateLimited means the backend rejected the call for quota.
	BackendRateLimited BackendErrorKind = iota
	// BackendTimeout means a single scoring call exceeded its deadline.
	BackendTimeout
	// BackendInvalidInput means the backend rejected the statement or corpus.
	BackendInvalidInput
	// BackendUnavailable covers transport and server failures.
	BackendUnavailable
)

func (k BackendErrorKind) String() string {
	switch k {
	case BackendRateLimited:
		return "rate limited"
	case BackendTimeout:
		return "timeout"
	case BackendInvalidInput:
		return "invalid input"
	case BackendUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// BackendError wraps a scoring-capability failure.
type BackendError struct {
	Kind BackendErrorKind
	Err  error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring backend %s: %v", e.Kind, e.Err)
	}
	return "scoring backend " + e.Kind.String()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
