package kanon

import (
	"context"

	"iql/internal/eval"
)

// CachedScorer wraps a scorer with the disk cache. Hits skip the backend
// entirely; misses are scored and written back best-effort, so a failing
// cache never fails an evaluation.
type CachedScorer struct {
	scorer eval.Scorer
	cache  *DiskCache
	model  string
}

// NewCachedScorer layers cache over scorer. The model string is part of
// the cache key so switching classifiers never serves stale scores.
func NewCachedScorer(scorer eval.Scorer, cache *DiskCache, model string) *CachedScorer {
	return &CachedScorer{scorer: scorer, cache: cache, model: model}
}

func (s *CachedScorer) Score(ctx context.Context, statement, corpus string) (eval.LeafScore, error) {
	key := CacheKey(s.model, statement, corpus)
	if score, spans, ok := s.cache.Get(key); ok {
		return eval.LeafScore{Score: score, Spans: spans}, nil
	}

	out, err := s.scorer.Score(ctx, statement, corpus)
	if err != nil {
		return eval.LeafScore{}, err
	}
	_ = s.cache.Put(key, out.Score, out.Spans)
	return out, nil
}
