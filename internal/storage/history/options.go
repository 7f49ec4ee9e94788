package history

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreOption configures a store built by NewStore.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// WithRedisClient sets the client used by the redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL expires keys after ttl. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithKeyPrefix namespaces every key in the backend.
func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) {
		c.keyPrefix = prefix
	}
}
