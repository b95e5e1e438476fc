package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"interviewd/internal/config"
)

// CredentialStore keeps per-user grading API keys. A user supplies a key for
// a provider once; sessions pick it up at start time. A key is never
// required before a session is configured, only before its grading calls
// run. Keys never expire here; removal is explicit.
type CredentialStore interface {
	Set(ctx context.Context, userID string, provider config.Provider, apiKey string) error
	Get(ctx context.Context, userID string, provider config.Provider) (string, error)
	Delete(ctx context.Context, userID string, provider config.Provider) error
}

type credentialStore struct {
	client *redis.Client
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(client *redis.Client) CredentialStore {
	return &credentialStore{client: client}
}

func credentialKey(userID string, provider config.Provider) string {
	return "credential:" + userID + ":" + string(provider)
}

func (c *credentialStore) Set(ctx context.Context, userID string, provider config.Provider, apiKey string) error {
	return c.client.Set(ctx, credentialKey(userID, provider), apiKey, 0).Err()
}

// Get returns the stored key, or "" when the user has none for the provider.
func (c *credentialStore) Get(ctx context.Context, userID string, provider config.Provider) (string, error) {
	key, err := c.client.Get(ctx, credentialKey(userID, provider)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func (c *credentialStore) Delete(ctx context.Context, userID string, provider config.Provider) error {
	return c.client.Del(ctx, credentialKey(userID, provider)).Err()
}
