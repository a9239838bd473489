package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// RedisStore persists session carts as JSON blobs in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store with the default TTL.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: DefaultTTL}
}

var _ Store = (*RedisStore)(nil)

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Get loads the session's cart. A missing key or undecodable blob yields an
// empty cart; only Redis transport failures surface as errors.
func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]types.CartEntry, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return []types.CartEntry{}, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError(fmt.Errorf("loading cart %s: %w", sessionID, err))
	}

	var entries []types.CartEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Corrupt state resets the cart instead of blocking the session.
		logger.GetLogger().Warnw("Discarding unreadable cart state", "sessionID", sessionID, "error", err)
		if delErr := s.client.Del(ctx, cartKey(sessionID)).Err(); delErr != nil {
			logger.GetLogger().Warnw("Failed to delete corrupt cart", "sessionID", sessionID, "error", delErr)
		}
		return []types.CartEntry{}, nil
	}
	if entries == nil {
		entries = []types.CartEntry{}
	}
	return entries, nil
}

// Set replaces the session's cart and refreshes its TTL.
func (s *RedisStore) Set(ctx context.Context, sessionID string, entries []types.CartEntry) error {
	if entries == nil {
		entries = []types.CartEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return errors.InternalServerError(fmt.Sprintf("encoding cart %s", sessionID))
	}
	if err := s.client.Set(ctx, cartKey(sessionID), raw, s.ttl).Err(); err != nil {
		return errors.NewDatabaseError(fmt.Errorf("storing cart %s: %w", sessionID, err))
	}
	return nil
}

// Add merges the entry into the stored cart and writes it back.
func (s *RedisStore) Add(ctx context.Context, sessionID string, entry types.CartEntry) ([]types.CartEntry, error) {
	entries, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries = merge(entries, entry)
	if err := s.Set(ctx, sessionID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes the session's cart.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return errors.NewDatabaseError(fmt.Errorf("clearing cart %s: %w", sessionID, err))
	}
	return nil
}
