package eval

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"iql/internal/ast"
)

// Document is one corpus in a batch evaluation.
type Document struct {
	ID      string
	Name    string
	Content string
}

// DocumentResult pairs a document with its match outcome. Err is set when
// that document's evaluation failed; other documents still complete.
type DocumentResult struct {
	Document Document
	Match    MatchResult
	Err      error
}

// Summary aggregates a batch the way the reviewing UI presents it.
type Summary struct {
	// TotalMatches counts spans across all successfully evaluated documents.
	TotalMatches int
	// AverageScore is the mean score over successfully evaluated documents,
	// 0 when none succeeded.
	AverageScore float64
	// Failed counts documents whose evaluation errored.
	Failed int
}

// EvaluateAll runs the query against every document. Documents are
// processed concurrently under the evaluator's limit; the shared semaphore
// additionally bounds total in-flight scoring calls, so a wide batch cannot
// stampede the backend. Cancelling ctx stops the batch between and inside
// document evaluations.
//
// Per-document failures are recorded in the result slice; the returned
// error is non-nil only when the context ended the batch early.
func (e *Evaluator) EvaluateAll(ctx context.Context, q *ast.Query, docs []Document) ([]DocumentResult, Summary, error) {
	results := make([]DocumentResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.concurrency())

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			match, err := e.Evaluate(gctx, q, doc.Content)
			results[i] = DocumentResult{Document: doc, Match: match, Err: err}

			// A cancelled evaluation means the whole batch is going down.
			var ee *EvalError
			if errors.As(err, &ee) && ee.Kind == KindCancelled {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, summarize(results), err
	}
	return results, summarize(results), nil
}

func summarize(results []DocumentResult) Summary {
	var s Summary
	var sum float64
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		succeeded++
		sum += r.Match.Score
		s.TotalMatches += len(r.Match.Spans)
	}
	if succeeded > 0 {
		s.AverageScore = sum / float64(succeeded)
	}
	return s
}
