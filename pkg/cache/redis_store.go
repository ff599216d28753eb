package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/404-t/lotobot-backend/internal/pkg/logger"
)

// Store wraps Redis with JSON serialization. Expiry is handled server-side
// by Redis TTLs; an entry present within its TTL is authoritative.
type Store struct {
	rdb    *redis.Client
	logger logger.ILogger
}

func NewStore(rdb *redis.Client, log logger.ILogger) *Store {
	return &Store{
		rdb:    rdb,
		logger: log,
	}
}

// GetJSON reads the value at key into dest. Returns false when the key is
// absent or expired. A transport error is returned as-is; callers are
// expected to degrade it to a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	s.logger.Debug("Cache", "Saved value", map[string]interface{}{"key": key, "ttl": ttl.String()})
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
