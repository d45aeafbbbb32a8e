package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "analytics:event:"

// IdempotencyStore records which event ids have already been written so a
// redelivered queue message is not inserted twice.
type IdempotencyStore struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewIdempotencyStore creates a store whose claims expire after ttl
func NewIdempotencyStore(rdb goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Claim marks eventID as seen. It returns false if the id was already claimed.
func (s *IdempotencyStore) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, idempotencyPrefix+eventID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", eventID, err)
	}
	return ok, nil
}

// Release removes claims so the events can be retried
func (s *IdempotencyStore) Release(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = idempotencyPrefix + id
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to release %d event claims: %w", len(keys), err)
	}
	return nil
}
