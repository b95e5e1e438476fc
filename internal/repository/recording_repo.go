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

// RecordingRepo stores finished recording artifacts per user. Recordings are
// best-effort companions to sessions; losing one never affects a session
// record.
type RecordingRepo interface {
	Save(ctx context.Context, artifact *model.RecordingArtifact) error
	Get(ctx context.Context, userID, id string) (*model.RecordingArtifact, error)
	List(ctx context.Context, userID string, limit int64) ([]*model.RecordingArtifact, error)
	Delete(ctx context.Context, userID, id string) error
}

type recordingRepo struct {
	collection *mongo.Collection
}

// NewRecordingRepo creates a Mongo-backed recording store.
func NewRecordingRepo(db *mongo.Database) RecordingRepo {
	return &recordingRepo{collection: db.Collection("recordings")}
}

func (r *recordingRepo) Save(ctx context.Context, artifact *model.RecordingArtifact) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": artifact.ID, "userId": artifact.UserID},
		artifact,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save recording %s: %w", artifact.ID, err)
	}
	return nil
}

func (r *recordingRepo) Get(ctx context.Context, userID, id string) (*model.RecordingArtifact, error) {
	var artifact model.RecordingArtifact
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&artifact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recording %s: %w", id, err)
	}
	return &artifact, nil
}

func (r *recordingRepo) List(ctx context.Context, userID string, limit int64) ([]*model.RecordingArtifact, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetProjection(bson.M{"data": 0}) // listings skip payloads
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recordings for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var artifacts []*model.RecordingArtifact
	if err := cursor.All(ctx, &artifacts); err != nil {
		return nil, fmt.Errorf("decode recordings for %s: %w", userID, err)
	}
	return artifacts, nil
}

func (r *recordingRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("delete recording %s: %w", id, err)
	}
	return nil
}
