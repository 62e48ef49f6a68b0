package recentlyviewed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/promayouf/storefront-backend/pkg/logger"
	pkgredis "github.com/promayouf/storefront-backend/pkg/redis"
)

// Entry is one product the shopper recently looked at, newest first.
type Entry struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Price     float64   `json:"price"`
	ViewedAt  time.Time `json:"viewedAt"`
}

type listStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RecentlyViewedKey(sessionID string) string
}

// Service keeps a short, deduplicated history of viewed products per session.
type Service struct {
	store listStore
	limit int
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the recently-viewed tracker.
func NewService(store listStore, limit int, ttl time.Duration, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if limit < 1 {
		limit = 5
	}
	return &Service{
		store: store,
		limit: limit,
		ttl:   ttl,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// Record prepends the entry, removing any older occurrence of the same
// product and trimming the list to the configured limit.
func (s *Service) Record(ctx context.Context, sessionID string, entry Entry) ([]Entry, error) {
	if entry.ProductID == uuid.Nil {
		return nil, fmt.Errorf("product id is required")
	}
	entry.ViewedAt = s.now()

	entries, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	deduped := make([]Entry, 0, len(entries)+1)
	deduped = append(deduped, entry)
	for _, existing := range entries {
		if existing.ProductID == entry.ProductID {
			continue
		}
		deduped = append(deduped, existing)
	}
	if len(deduped) > s.limit {
		deduped = deduped[:s.limit]
	}

	if err := s.save(ctx, sessionID, deduped); err != nil {
		return nil, err
	}
	return deduped, nil
}

// List returns the history, newest first. Missing or corrupt data yields an
// empty list.
func (s *Service) List(ctx context.Context, sessionID string) ([]Entry, error) {
	return s.load(ctx, sessionID)
}

// Clear drops the session's history.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, s.store.RecentlyViewedKey(sessionID))
}

func (s *Service) load(ctx context.Context, sessionID string) ([]Entry, error) {
	raw, err := s.store.Get(ctx, s.store.RecentlyViewedKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("loading recently viewed: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recently_viewed.blob_corrupt")
		}
		return []Entry{}, nil
	}
	return entries, nil
}

func (s *Service) save(ctx context.Context, sessionID string, entries []Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding recently viewed: %w", err)
	}
	if err := s.store.Set(ctx, s.store.RecentlyViewedKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("writing recently viewed: %w", err)
	}
	return nil
}
