package eval

import (
	"context"
	"errors"
	"fmt"
)

// EvalErrorKind classifies why an evaluation did not complete.
type EvalErrorKind uint8

const (
	// KindBackendFailure means a leaf scoring call failed and the abort
	// policy was in effect.
	KindBackendFailure EvalErrorKind = iota
	// KindTimeout means the caller's deadline expired.
	KindTimeout
	// KindCancelled means the caller cancelled the evaluation.
	KindCancelled
)

func (k EvalErrorKind) String() string {
	switch k {
	case KindBackendFailure:
		return "backend failure"
	case KindTimeout:
		return "timeout"
	case KindCancelled:
		return "cancelled"
	}
	return "unknown"
}

// EvalError is the terminal error for one evaluation of a query against a
// document. The engine holds no state, so the caller may retry the whole
// evaluation.
type EvalError struct {
	Kind      EvalErrorKind
	Statement string // scoring text of the failing leaf, when applicable
	Err       error
}

func (e *EvalError) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("evaluation %s at %q: %v", e.Kind, e.Statement, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("evaluation %s: %v", e.Kind, e.Err)
	}
	return "evaluation " + e.Kind.String()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// wrapLeafErr classifies a leaf failure into an EvalError.
func wrapLeafErr(statement string, err error) *EvalError {
	kind := KindBackendFailure
	var be *BackendError
	switch {
	case errors.Is(err, context.Canceled):
		kind = KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &be) && be.Kind == BackendTimeout:
		kind = KindTimeout
	}
	return &EvalError{Kind: kind, Statement: statement, Err: err}
}
