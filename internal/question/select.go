package question

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"interviewd/internal/model"
)

// Selector applies a selection mode over the pools fetched from a Source.
type Selector struct {
	src Source
	rng *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded default.
func NewSelector(src Source, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{src: src, rng: rng}
}

// Select fetches the pools for the given topics, in the order given, and
// picks count questions per the mode. The result may be shorter than count
// when the pooled set is smaller.
//
// Mixed mode draws floor(count/len(topics)) random questions per topic, then
// fills any shortfall with random draws from the full pool. The fill draws
// do not exclude questions already selected, so mixed sessions can repeat a
// question. Deliberately kept; de-duplicating here would change session
// composition for existing users.
func (s *Selector) Select(ctx context.Context, topics []string, mode model.SelectionMode, count int) ([]model.Question, error) {
	pools := make([][]model.Question, 0, len(topics))
	var pooled []model.Question
	for _, topic := range topics {
		pool, err := s.src.Questions(ctx, topic)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
		pooled = append(pooled, pool...)
	}

	switch mode {
	case model.SelectionSequential:
		return sequential(pooled, count), nil
	case model.SelectionRandom:
		return s.random(pooled, count), nil
	case model.SelectionMixed:
		perTopic := count / len(topics)
		var selected []model.Question
		for _, pool := range pools {
			selected = append(selected, s.random(pool, perTopic)...)
		}
		if len(selected) < count {
			selected = append(selected, s.random(pooled, count-len(selected))...)
		}
		return selected, nil
	default:
		return nil, fmt.Errorf("question: unknown selection mode %q", mode)
	}
}

// sequential takes the first count questions in pool order.
func sequential(pool []model.Question, count int) []model.Question {
	if count > len(pool) {
		count = len(pool)
	}
	out := make([]model.Question, count)
	copy(out, pool[:count])
	return out
}

// random draws count questions uniformly without replacement.
func (s *Selector) random(pool []model.Question, count int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
