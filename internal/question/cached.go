package question

import (
	"context"

	"interviewd/internal/model"
)

// Pool is the cache surface consumed by CachedSource. A miss is (nil, nil).
type Pool interface {
	Get(ctx context.Context, topic string) ([]model.Question, error)
	Set(ctx context.Context, topic string, questions []model.Question) error
}

// CachedSource fronts another source with a question pool cache. Cache
// failures fall through to the underlying source; the cache is an
// optimization, never a dependency.
type CachedSource struct {
	src  Source
	pool Pool
}

// NewCachedSource wraps src with pool.
func NewCachedSource(src Source, pool Pool) *CachedSource {
	return &CachedSource{src: src, pool: pool}
}

func (s *CachedSource) Questions(ctx context.Context, topic string) ([]model.Question, error) {
	if cached, err := s.pool.Get(ctx, topic); err == nil && len(cached) > 0 {
		return cached, nil
	}

	questions, err := s.src.Questions(ctx, topic)
	if err != nil {
		return nil, err
	}
	_ = s.pool.Set(ctx, topic, questions) // best-effort
	return questions, nil
}

func (s *CachedSource) Topics(ctx context.Context) ([]string, error) {
	return s.src.Topics(ctx)
}
