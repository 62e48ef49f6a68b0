package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/promayouf/storefront-backend/pkg/logger"
	pkgredis "github.com/promayouf/storefront-backend/pkg/redis"
)

// Storage persists cart snapshots per session.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state *State) error
	Delete(ctx context.Context, sessionID string) error
}

type blobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStorage keeps the whole cart state as one JSON blob per session.
type RedisStorage struct {
	client               blobStore
	ttl                  time.Duration
	defaultPaymentMethod string
	logg                 *logger.Logger
}

// NewRedisStorage builds the session-blob storage.
func NewRedisStorage(client blobStore, ttl time.Duration, defaultPaymentMethod string, logg *logger.Logger) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{
		client:               client,
		ttl:                  ttl,
		defaultPaymentMethod: defaultPaymentMethod,
		logg:                 logg,
	}, nil
}

// Load hydrates the session's cart. A missing key yields a fresh cart and a
// corrupt blob is replaced by a fresh cart rather than surfaced; both cases
// fall back to documented per-field defaults.
func (s *RedisStorage) Load(ctx context.Context, sessionID string) (*State, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return NewState(s.defaultPaymentMethod), nil
		}
		return nil, fmt.Errorf("loading cart blob: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.blob_corrupt")
		}
		return NewState(s.defaultPaymentMethod), nil
	}

	state.normalize(s.defaultPaymentMethod)
	return &state, nil
}

// Save serializes the full state. The caller decides whether a failure is
// fatal; mutators treat it as best-effort.
func (s *RedisStorage) Save(ctx context.Context, sessionID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart blob: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("writing cart blob: %w", err)
	}
	return nil
}

// Delete drops the stored blob for the session.
func (s *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.CartKey(sessionID))
}
