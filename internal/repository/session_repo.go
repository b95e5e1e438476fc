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

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("repository: not found")

// SessionRepo persists finished-session records keyed by (userId, sessionId).
// Records are written once at completion and never mutated; Write is
// idempotent on sessionId.
type SessionRepo interface {
	Write(ctx context.Context, userID string, rec *model.SessionRecord) error
	Read(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error)
	List(ctx context.Context, userID string, limit int64) ([]*model.SessionRecord, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a Mongo-backed session record store.
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{collection: db.Collection("sessions")}
}

func (r *sessionRepo) Write(ctx context.Context, userID string, rec *model.SessionRecord) error {
	rec.UserID = userID
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": rec.SessionID, "userId": userID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write session %s: %w", rec.SessionID, err)
	}
	return nil
}

func (r *sessionRepo) Read(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error) {
	var rec model.SessionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID, "userId": userID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}
	return &rec, nil
}

func (r *sessionRepo) List(ctx context.Context, userID string, limit int64) ([]*model.SessionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var records []*model.SessionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode sessions for %s: %w", userID, err)
	}
	return records, nil
}
