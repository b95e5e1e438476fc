package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewd/internal/model"
)

const sessionTTL = 10 * time.Minute

// SessionCache fronts the session record store for recently finished
// sessions, so the results view right after an interview skips a Mongo read.
type SessionCache interface {
	Set(ctx context.Context, rec *model.SessionRecord) error
	Get(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a Redis-backed session record cache.
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{client: client}
}

func sessionKey(userID, sessionID string) string {
	return "session:" + userID + ":" + sessionID
}

func (c *sessionCache) Set(ctx context.Context, rec *model.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(rec.UserID, rec.SessionID), data, sessionTTL).Err()
}

func (c *sessionCache) Get(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error) {
	data, err := c.client.Get(ctx, sessionKey(userID, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec model.SessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *sessionCache) Delete(ctx context.Context, userID, sessionID string) error {
	return c.client.Del(ctx, sessionKey(userID, sessionID)).Err()
}
