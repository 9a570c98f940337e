// Package iql implements a small query language for asking yes/no style
// questions about legal documents. A query combines statement templates
// and free-text statements with boolean and arithmetic operators:
//
//	{IS confidentiality clause} AND NOT {IS termination clause}
//	({IS payment obligation} + {IS warranty clause}) > {IS exclusivity clause}
//
// The package is a facade over the engine: two-tier validation, parsing
// to an immutable tree, and evaluation against document text through an
// external scoring backend.
package iql

import (
	"context"
	"fmt"
	"time"

	"iql/internal/ast"
	"iql/internal/eval"
	"iql/internal/kanon"
	"iql/internal/template"
	"iql/internal/validate"
)

// Validation tiers.
const (
	TierFast = validate.TierFast
	TierFull = validate.TierFull
)

// Aliases so callers never import internal packages directly.
type (
	Tier             = validate.Tier
	ValidationResult = validate.Result
	Query            = ast.Query
	Template         = template.Descriptor
	MatchResult      = eval.MatchResult
	Document         = eval.Document
	DocumentResult   = eval.DocumentResult
	Summary          = eval.Summary
	Scorer           = eval.Scorer
	LeafScore        = eval.LeafScore
)

// Backend model identifiers.
const (
	ModelUniversal     = template.ModelUniversal
	ModelUniversalMini = template.ModelUniversalMini
)

// Templates returns the built-in template catalog sorted by name.
func Templates() []Template {
	return template.Builtin().All()
}

// LookupTemplate resolves a template name case-insensitively.
func LookupTemplate(name string) (Template, bool) {
	return template.Builtin().Lookup(name)
}

// Validate checks a query at the requested tier against the built-in
// template catalog.
func Validate(query string, tier Tier) ValidationResult {
	return validate.Validate(query, tier, template.Builtin())
}

// Parse parses a query against the built-in catalog. The query is nil
// exactly when the result is invalid.
func Parse(query string) (*Query, ValidationResult) {
	return validate.ParseQuery(query, template.Builtin())
}

// Format renders a parsed query back to canonical text.
func Format(q *Query) string {
	return ast.Format(q.Root)
}

// EstimateCost sums the catalog scoring cost of every distinct template
// statement in the query for the given model. Free-text statements have no
// catalog entry and contribute nothing.
func EstimateCost(q *Query, model string) int {
	if model == "" {
		model = ModelUniversal
	}
	total := 0
	for _, leaf := range q.UniqueLeaves() {
		if leaf.Stmt.Template == "" {
			continue
		}
		if d, ok := template.Builtin().Lookup(leaf.Stmt.Template); ok {
			total += d.CostByModel[model]
		}
	}
	return total
}

// Evaluator scores parsed queries against documents.
type Evaluator struct {
	inner *eval.Evaluator
}

// NewEvaluator builds an evaluator over the given scorer. Use NewScorer
// for the hosted backend or provide any Scorer implementation.
func NewEvaluator(scorer Scorer, opts EvalOptions) *Evaluator {
	return &Evaluator{inner: eval.New(scorer, eval.Options{
		Concurrency:   opts.Concurrency,
		Timeout:       opts.Timeout,
		LenientLeaves: opts.Lenient,
	})}
}

// Evaluate scores the query against one document's text.
func (e *Evaluator) Evaluate(ctx context.Context, q *Query, corpus string) (MatchResult, error) {
	return e.inner.Evaluate(ctx, q, corpus)
}

// EvaluateAll scores the query against a batch of documents.
func (e *Evaluator) EvaluateAll(ctx context.Context, q *Query, docs []Document) ([]DocumentResult, Summary, error) {
	return e.inner.EvaluateAll(ctx, q, docs)
}

// Evaluate parses query text and scores it against one document in a single
// call. An invalid query surfaces as an error carrying the first diagnostic.
func Evaluate(ctx context.Context, query, corpus string, scorer Scorer, opts EvalOptions) (MatchResult, error) {
	q, res := Parse(query)
	if q == nil {
		return MatchResult{}, fmt.Errorf("invalid query: %s: %s",
			res.Error.Code.ID(), res.Error.Message)
	}
	return NewEvaluator(scorer, opts).Evaluate(ctx, q, corpus)
}

// EvalOptions tunes an Evaluator.
type EvalOptions struct {
	// Concurrency bounds in-flight scoring calls; zero picks a default.
	Concurrency int
	// Timeout applies per scoring call; zero disables it.
	Timeout time.Duration
	// Lenient scores failing leaves as 0 with a warning instead of
	// aborting the evaluation.
	Lenient bool
}

// ScorerConfig configures the hosted scoring backend client.
type ScorerConfig struct {
	BaseURL string // empty for the public endpoint
	APIKey  string // empty falls back to the ISAACUS_API_KEY env var
	Model   string // empty for ModelUniversal
	// CacheDir enables the on-disk score cache when non-empty.
	CacheDir string
}

// NewScorer builds a scorer backed by the classification API, optionally
// wrapped in the disk cache.
func NewScorer(cfg ScorerConfig) (Scorer, error) {
	client := kanon.NewClient(kanon.Options{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if cfg.CacheDir == "" {
		return client, nil
	}
	cache, err := kanon.OpenDiskCacheAt(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return kanon.NewCachedScorer(client, cache, client.Model()), nil
}
