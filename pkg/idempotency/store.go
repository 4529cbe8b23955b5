package idempotency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store marks units of work as seen using redis SETNX with a TTL. It is a
// best-effort dedupe layer for at-least-once delivery; callers must still be
// idempotent at the persistence level.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// MessageKey identifies a kafka message by its coordinates.
func (s *Store) MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("idem:%s:%d:%d", topic, partition, offset)
}

// Key builds a dedupe key from arbitrary parts.
func (s *Store) Key(parts ...string) string {
	return "idem:" + strings.Join(parts, ":")
}

// Seen reports whether key was already claimed, claiming it if not.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
