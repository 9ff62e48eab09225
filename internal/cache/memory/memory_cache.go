package memory

import (
	"context"
	"time"

	cache "libraryapi/internal/cache/iface"
	"libraryapi/internal/logger"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// memoryCache keeps entries in a sharded sturdyc client. sturdyc has no notion
// of tags, so a concurrent tag -> keys index sits next to it.
type memoryCache struct {
	client   *sturdyc.Client[[]byte]
	capacity int
	tags     *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
	logger   logger.Logger
}

// NewMemoryCache creates an in-process cache. Entries share the client TTL;
// the per-call ttl passed to Set is ignored.
func NewMemoryCache(cfg Config, log logger.Logger) cache.Cache {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = 16
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	if cfg.EvictionPercentage <= 0 {
		cfg.EvictionPercentage = 10
	}

	return &memoryCache{
		client:   sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		capacity: cfg.Capacity,
		tags:     xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
		logger:   log.With(logger.String("component", "memory_cache")),
	}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.client.Get(key)
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.client.Set(key, value)
	for _, tag := range tags {
		// Registration happens under the tag's bucket lock so a concurrent
		// EvictTag never detaches a set that is still being written to.
		keys, _ := m.tags.Compute(tag, func(keys *xsync.MapOf[string, struct{}], loaded bool) (*xsync.MapOf[string, struct{}], bool) {
			if !loaded {
				keys = xsync.NewMapOf[string, struct{}]()
			}
			keys.Store(key, struct{}{})
			return keys, false
		})
		if keys.Size() > 2*m.capacity {
			m.prune(tag, keys)
		}
	}
	return nil
}

// prune drops index entries whose key the client already expired or evicted.
// The client holds at most capacity entries, so a pruned set stays within it.
func (m *memoryCache) prune(tag string, keys *xsync.MapOf[string, struct{}]) {
	before := keys.Size()
	keys.Range(func(key string, _ struct{}) bool {
		keys.Compute(key, func(v struct{}, loaded bool) (struct{}, bool) {
			_, alive := m.client.Get(key)
			return v, !loaded || !alive
		})
		return true
	})

	m.logger.Debug("pruned tag index",
		logger.String("tag", tag),
		logger.Int("before", before),
		logger.Int("after", keys.Size()))
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.client.Delete(key)
	return nil
}

func (m *memoryCache) EvictTag(ctx context.Context, tag string) error {
	keys, ok := m.tags.LoadAndDelete(tag)
	if !ok {
		return nil
	}

	evicted := 0
	keys.Range(func(key string, _ struct{}) bool {
		m.client.Delete(key)
		evicted++
		return true
	})

	m.logger.Debug("evicted tag",
		logger.String("tag", tag),
		logger.Int("keys", evicted))

	return nil
}

func (m *memoryCache) Close() error {
	return nil
}
