// Package cache keeps the last good response body of each read so a failed
// read can serve real, if stale, data before falling back to sample records.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "forumctl:snapshot:"

	// DefaultSnapshotTTL is how long a snapshot is kept when none is configured
	DefaultSnapshotTTL = 24 * time.Hour
)

// ErrMiss is returned by Load when no snapshot exists for the key
var ErrMiss = errors.New("snapshot not found")

// SnapshotStore saves and loads raw response bodies by dedup key
type SnapshotStore interface {
	Save(ctx context.Context, key string, raw []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Connect opens a Redis client from a redis:// URL and verifies it with a ping
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Debug("Snapshot cache connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}

// RedisSnapshots stores snapshots in Redis with a TTL
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshots wraps client. A zero ttl uses DefaultSnapshotTTL.
func NewRedisSnapshots(client *redis.Client, ttl time.Duration) *RedisSnapshots {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshots{client: client, ttl: ttl}
}

func (s *RedisSnapshots) Save(ctx context.Context, key string, raw []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *RedisSnapshots) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return val, nil
}

// Clear removes every snapshot
func (s *RedisSnapshots) Clear(ctx context.Context) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan snapshots: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("delete snapshots: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Close releases the Redis connection pool
func (s *RedisSnapshots) Close() error {
	return s.client.Close()
}

// MemorySnapshots keeps snapshots for the life of the process
type MemorySnapshots struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{data: make(map[string][]byte)}
}

func (m *MemorySnapshots) Save(_ context.Context, key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), raw...)
	return nil
}

func (m *MemorySnapshots) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return raw, nil
}
