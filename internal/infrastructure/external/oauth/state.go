package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// StateStore is the backing store for OAuth state tokens
type StateStore interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// StateManager manages OAuth state tokens for CSRF protection. States live in
// Redis so any API instance can validate a callback.
type StateManager struct {
	store      StateStore
	expiration time.Duration
}

// NewStateManager creates a new state manager
func NewStateManager(store StateStore) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 15 * time.Minute,
	}
}

// GenerateState generates and stores a random state token
func (sm *StateManager) GenerateState(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	state := base64.URLEncoding.EncodeToString(b)
	key := fmt.Sprintf("oauth:state:%s", state)
	if err := sm.store.Set(ctx, key, "valid", sm.expiration); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	return state, nil
}

// ValidateState checks a state token and consumes it (one-time use)
func (sm *StateManager) ValidateState(ctx context.Context, state string) bool {
	key := fmt.Sprintf("oauth:state:%s", state)

	value, exists, err := sm.store.Get(ctx, key)
	if err != nil || !exists || value != "valid" {
		return false
	}

	_ = sm.store.Delete(ctx, key)
	return true
}
