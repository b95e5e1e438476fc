package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"interviewd/internal/model"
	"interviewd/internal/repository"
)

// RecordingService manages the user's recording library. Everything here is
// best-effort relative to interviews: a recording failure is the user's loss
// of a replay, never a session failure.
type RecordingService struct {
	repo   repository.RecordingRepo
	logger *slog.Logger
}

// NewRecordingService creates the recording service.
func NewRecordingService(repo repository.RecordingRepo, logger *slog.Logger) *RecordingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordingService{repo: repo, logger: logger}
}

// Save stores a finished artifact for the user, assigning an id when absent.
func (s *RecordingService) Save(ctx context.Context, userID string, artifact *model.RecordingArtifact) (*model.RecordingArtifact, error) {
	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	if artifact.StartedAt.IsZero() {
		artifact.StartedAt = time.Now()
	}
	artifact.UserID = userID
	artifact.Size = int64(len(artifact.Data))

	if err := s.repo.Save(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// Get fetches one artifact with payload.
func (s *RecordingService) Get(ctx context.Context, userID, id string) (*model.RecordingArtifact, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns artifact metadata, newest first, without payloads.
func (s *RecordingService) List(ctx context.Context, userID string, limit int64) ([]*model.RecordingArtifact, error) {
	return s.repo.List(ctx, userID, limit)
}

// Delete removes one artifact.
func (s *RecordingService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
