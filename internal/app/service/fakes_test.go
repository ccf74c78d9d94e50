package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/closetly/wardrobe-backend/pkg/redis"
)

type fakeImageStore struct {
	mu        sync.Mutex
	prefix    string
	deleteErr error
	deleted   []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{prefix: "https://cdn.example.com/items/"}
}

func (f *fakeImageStore) Store(_ context.Context, _ []byte, _ string, filename string) (string, error) {
	return f.prefix + filename, nil
}

func (f *fakeImageStore) DeleteByURL(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImageStore) Owns(url string) bool {
	return strings.HasPrefix(url, f.prefix)
}

type memoryCache struct {
	mu          sync.Mutex
	version     int
	entries     map[string][]byte
	invalidated int
	hits        int
	failKey     bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Key(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failKey {
		return "", errors.New("connection refused")
	}
	return fmt.Sprintf("v%d:%s", c.version, key), nil
}

func (c *memoryCache) Get(_ context.Context, fullKey string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[fullKey]
	if !ok {
		return redis.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, fullKey string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[fullKey] = data
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidated++
	return nil
}
