// Package dedupe provides a Redis-backed replay cache for webhook
// deliveries. It is layered above signature verification: the signature
// check alone bounds the age of a delivery, while this store rejects exact
// re-deliveries inside that window by remembering delivery fingerprints.
package dedupe

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/loculabs/api-client/internal/errors"
)

// Config holds the Redis connection settings for the store.
type Config struct {
	Address  string
	Password string
	DB       int
	// TTL is how long a fingerprint is remembered. It should be at least
	// as long as the verification MaxAge; older deliveries are already
	// rejected by the timestamp check.
	TTL time.Duration
	// Prefix namespaces the store's keys. Defaults to "webhook:seen:".
	Prefix string
}

// Store remembers webhook delivery fingerprints in Redis.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis and returns a ready store.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.ConfigError("dedupe config is required")
	}
	if cfg.Address == "" {
		return nil, errors.ConfigError("dedupe redis address is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "webhook:seen:"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.ConnectionError("failed to connect to Redis", err)
	}

	return &Store{
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

// Seen records the fingerprint and reports whether it was already present.
// The first call for a fingerprint returns false; every later call within
// the TTL returns true.
func (s *Store) Seen(ctx context.Context, fingerprint string) (bool, error) {
	created, err := s.rdb.SetNX(ctx, s.prefix+fingerprint, 1, s.ttl).Result()
	if err != nil {
		return false, errors.ConnectionError("failed to record delivery fingerprint", err)
	}
	return !created, nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
