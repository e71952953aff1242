package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyTTL is how long a create request can be replayed with the same key.
const IdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which listing a create request produced.
// Key format: idem:listing:<owner_id>:<idempotency_key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: IdempotencyTTL}
}

// Lookup returns the listing id recorded for the owner's key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records listingID under the owner's key. The first writer wins.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, listingID string) error {
	if err := s.client.SetNX(ctx, s.key(ownerID, key), listingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:listing:%s:%s", ownerID, key)
}
