package eval

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"iql/internal/ast"
	"iql/internal/source"
)

// MatchResult is the outcome of evaluating a query against one corpus.
// Spans identify the corpus text that determined the score; Warnings are
// only populated in lenient mode.
type MatchResult struct {
	Score    float64
	Spans    []source.Span
	Warnings []string
}

// Evaluator scores queries against documents through a Scorer. It is safe
// for concurrent use; the semaphore bounds outbound scoring calls across
// all concurrent evaluations.
type Evaluator struct {
	scorer Scorer
	opts   Options
	sem    *semaphore.Weighted
}

// New creates an evaluator around the given scorer.
func New(scorer Scorer, opts Options) *Evaluator {
	return &Evaluator{
		scorer: scorer,
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.concurrency())),
	}
}

// Evaluate scores the query against one corpus. Sibling leaves are scored
// concurrently (fan-out), then the tree is folded bottom-up with the
// operator combination rules (fan-in). Any leaf failure aborts with an
// EvalError unless lenient mode is on.
func (e *Evaluator) Evaluate(ctx context.Context, q *ast.Query, corpus string) (MatchResult, error) {
	leaves := q.UniqueLeaves()
	outcomes := make([]leafOutcome, len(leaves))

	g, gctx := errgroup.WithContext(ctx)
	for i, leaf := range leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			out, err := e.scoreLeaf(gctx, leaf, corpus)
			if err != nil {
				if e.opts.LenientLeaves && isBackendErr(err) {
					outcomes[i] = leafOutcome{warning: fmt.Sprintf(
						"statement %q scored 0: %v", leaf.Stmt.ScoringText(), err)}
					return nil
				}
				return wrapLeafErr(leaf.Stmt.ScoringText(), err)
			}
			outcomes[i] = leafOutcome{score: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var ee *EvalError
		if errors.As(err, &ee) {
			return MatchResult{}, ee
		}
		return MatchResult{}, wrapLeafErr("", err)
	}

	scores := make(map[*ast.Leaf]LeafScore, len(leaves))
	var warnings []string
	for i, leaf := range leaves {
		scores[leaf] = outcomes[i].score
		if outcomes[i].warning != "" {
			warnings = append(warnings, outcomes[i].warning)
		}
	}

	res := combine(q.Root, scores)
	res.Warnings = warnings
	return res, nil
}

type leafOutcome struct {
	score   LeafScore
	warning string
}

// scoreLeaf performs one scoring call under the shared permit pool and the
// per-call timeout.
func (e *Evaluator) scoreLeaf(ctx context.Context, leaf *ast.Leaf, corpus string) (LeafScore, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return LeafScore{}, err
	}
	defer e.sem.Release(1)

	callCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	out, err := e.scorer.Score(callCtx, leaf.Stmt.ScoringText(), corpus)
	if err != nil {
		// A deadline on the call context alone is a backend timeout, not a
		// caller cancellation.
		if callCtx.Err() != nil && ctx.Err() == nil {
			return LeafScore{}, &BackendError{Kind: BackendTimeout, Err: err}
		}
		return LeafScore{}, err
	}
	return out, nil
}

// combine folds the tree bottom-up. It is pure: nodes are never mutated
// and every leaf score is already known.
func combine(n ast.Node, scores map[*ast.Leaf]LeafScore) MatchResult {
	switch v := n.(type) {
	case *ast.Leaf:
		s := scores[v]
		return MatchResult{Score: s.Score, Spans: s.Spans}
	case *ast.Not:
		child := combine(v.Child, scores)
		return MatchResult{Score: 1 - child.Score, Spans: child.Spans}
	case *ast.And:
		// min: one strongly failing clause vetoes the conjunction.
		best := combine(v.Children[0], scores)
		for _, c := range v.Children[1:] {
			r := combine(c, scores)
			if r.Score < best.Score {
				best = r
			}
		}
		return best
	case *ast.Or:
		// max: one strongly matching clause satisfies the disjunction.
		best := combine(v.Children[0], scores)
		for _, c := range v.Children[1:] {
			r := combine(c, scores)
			if r.Score > best.Score {
				best = r
			}
		}
		return best
	case *ast.Average:
		var sum float64
		var spans []source.Span
		for _, c := range v.Children {
			r := combine(c, scores)
			sum += r.Score
			spans = append(spans, r.Spans...)
		}
		return MatchResult{
			Score: sum / float64(len(v.Children)),
			Spans: unionSpans(spans),
		}
	case *ast.Compare:
		left := combine(v.Left, scores)
		right := combine(v.Right, scores)
		holds := left.Score > right.Score
		if v.Op == ast.CmpLt {
			holds = left.Score < right.Score
		}
		score := 0.0
		if holds {
			score = 1.0
		}
		return MatchResult{Score: score, Spans: left.Spans}
	case *ast.Group:
		return combine(v.Child, scores)
	}
	return MatchResult{}
}

// unionSpans sorts spans and drops exact duplicates.
func unionSpans(spans []source.Span) []source.Span {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	out := spans[:1]
	for _, s := range spans[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func isBackendErr(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
