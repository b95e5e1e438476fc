package repository

import (
	"context"
	"sort"
	"sync"

	"interviewd/internal/model"
)

// MemorySessionRepo is an in-memory SessionRepo for tests and for running
// without a document store.
type MemorySessionRepo struct {
	mu      sync.RWMutex
	records map[string]map[string]model.SessionRecord // userID -> sessionID -> record
}

// NewMemorySessionRepo creates an empty in-memory store.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{records: make(map[string]map[string]model.SessionRecord)}
}

func (r *MemorySessionRepo) Write(_ context.Context, userID string, rec *model.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records[userID] == nil {
		r.records[userID] = make(map[string]model.SessionRecord)
	}
	stored := *rec
	stored.UserID = userID
	r.records[userID][rec.SessionID] = stored
	return nil
}

func (r *MemorySessionRepo) Read(_ context.Context, userID, sessionID string) (*model.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID][sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r *MemorySessionRepo) List(_ context.Context, userID string, limit int64) ([]*model.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []*model.SessionRecord
	for _, rec := range r.records[userID] {
		out := rec
		records = append(records, &out)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	if limit > 0 && int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}
