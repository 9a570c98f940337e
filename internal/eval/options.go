package eval

import "time"

// DefaultConcurrency bounds outbound scoring calls when the caller does not
// choose a limit. Kept small to respect backend rate limits.
const DefaultConcurrency = 4

// Options tunes an Evaluator.
type Options struct {
	// Concurrency is the maximum number of in-flight scoring calls across
	// the whole evaluator, shared by every document in a batch.
	// Zero means DefaultConcurrency.
	Concurrency int

	// Timeout applies to each individual scoring call. Zero disables the
	// per-call deadline; the caller's context still governs the whole run.
	Timeout time.Duration

	// LenientLeaves switches the failure policy: instead of aborting the
	// evaluation on the first leaf failure, the failing leaf scores 0 and
	// a warning is attached to the result.
	LenientLeaves bool
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}
