package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/closetly/wardrobe-backend/config"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a JSON value cache whose keys live in one namespace that can be
// invalidated as a whole.
type Cache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// Connect opens and pings a Redis connection.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", logger.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

func NewCache(client *redis.Client, namespace string, ttl time.Duration) *Cache {
	return &Cache{client: client, namespace: namespace, ttl: ttl}
}

func (c *Cache) versionKey() string {
	return c.namespace + ":version"
}

// Key resolves key against the current namespace version. Resolve it before
// reading the source of truth so that an entry filled from a snapshot taken
// before an Invalidate can never be served afterwards.
func (c *Cache) Key(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache version error: %w", err)
	}
	return fmt.Sprintf("%s:v%d:%s", c.namespace, version, key), nil
}

// Get loads the value stored under a key returned by Key.
func (c *Cache) Get(ctx context.Context, fullKey string, dest interface{}) error {
	val, err := c.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set stores value under a key returned by Key.
func (c *Cache) Set(ctx context.Context, fullKey string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Invalidate drops every entry of the namespace. Old entries expire by TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("cache invalidate error: %w", err)
	}
	logger.Debug("Cache namespace invalidated", logger.Fields{
		"namespace": c.namespace,
	})
	return nil
}
