package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented store whose entries can be grouped under tags and
// evicted a tag at a time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key and registers key under every tag.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	Delete(ctx context.Context, key string) error
	// EvictTag removes every entry registered under tag.
	EvictTag(ctx context.Context, tag string) error
	Close() error
}
