package question

import (
	"context"
	"errors"
	"fmt"

	"interviewd/internal/model"
	"interviewd/internal/repository"
)

// BankSource reads question pools from the seeded question bank store.
type BankSource struct {
	banks repository.QuestionRepo
}

// NewBankSource creates a bank-backed source.
func NewBankSource(banks repository.QuestionRepo) *BankSource {
	return &BankSource{banks: banks}
}

func (s *BankSource) Questions(ctx context.Context, topic string) ([]model.Question, error) {
	bank, err := s.banks.Get(ctx, topic)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, topic)
	}
	if err != nil {
		return nil, err
	}
	questions := make([]model.Question, len(bank.Questions))
	copy(questions, bank.Questions)
	for i := range questions {
		questions[i].Topic = topic
	}
	return questions, nil
}

func (s *BankSource) Topics(ctx context.Context) ([]string, error) {
	return s.banks.Topics(ctx)
}
