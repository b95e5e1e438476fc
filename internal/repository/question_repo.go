package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewd/internal/model"
)

// QuestionRepo stores per-topic question banks. Banks are seeded offline
// (cmd/seed) and read-only at runtime.
type QuestionRepo interface {
	Upsert(ctx context.Context, bank *model.QuestionBank) error
	Get(ctx context.Context, topic string) (*model.QuestionBank, error)
	Topics(ctx context.Context) ([]string, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a Mongo-backed question bank store.
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{collection: db.Collection("question_banks")}
}

func (r *questionRepo) Upsert(ctx context.Context, bank *model.QuestionBank) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": bank.Topic},
		bank,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert question bank %s: %w", bank.Topic, err)
	}
	return nil
}

func (r *questionRepo) Get(ctx context.Context, topic string) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := r.collection.FindOne(ctx, bson.M{"_id": topic}).Decode(&bank)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question bank %s: %w", topic, err)
	}
	return &bank, nil
}

func (r *questionRepo) Topics(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list question topics: %w", err)
	}
	topics := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			topics = append(topics, s)
		}
	}
	return topics, nil
}
