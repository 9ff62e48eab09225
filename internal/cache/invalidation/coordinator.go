package invalidation

import (
	"context"

	cache "libraryapi/internal/cache/iface"
	coordinator "libraryapi/internal/coordinator/iface"
	"libraryapi/internal/logger"
)

// Cache tags grouping the cached read responses of each resource.
const (
	TagAuthors  = "authors-get"
	TagBooks    = "books-get"
	TagComments = "comments-get"
)

// AllTags lists every tag the service caches under.
var AllTags = []string{TagAuthors, TagBooks, TagComments}

// Coordinator evicts cached reads after a successful write.
type Coordinator interface {
	// Invalidate is best-effort: failures are logged, never returned.
	Invalidate(ctx context.Context, tags ...string)
}

type CacheCoordinator struct {
	cache       cache.Cache
	broadcaster coordinator.Broadcaster
	logger      logger.Logger
}

// NewCoordinator evicts from c and, when broadcaster is non-nil, notifies peers.
func NewCoordinator(c cache.Cache, broadcaster coordinator.Broadcaster, log logger.Logger) *CacheCoordinator {
	return &CacheCoordinator{
		cache:       c,
		broadcaster: broadcaster,
		logger:      log.With(logger.String("component", "invalidation_coordinator")),
	}
}

func (c *CacheCoordinator) Invalidate(ctx context.Context, tags ...string) {
	if len(tags) == 0 {
		return
	}

	log := c.logger.WithContext(ctx)

	for _, tag := range tags {
		if err := c.cache.EvictTag(ctx, tag); err != nil {
			log.Warn("cache eviction failed, entries will expire by ttl",
				logger.String("tag", tag),
				logger.Error(err))
			continue
		}
		log.Debug("cache tag evicted", logger.String("tag", tag))
	}

	if c.broadcaster == nil {
		return
	}

	if err := c.broadcaster.Publish(ctx, tags); err != nil {
		log.Warn("failed to broadcast eviction",
			logger.Strings("tags", tags),
			logger.Error(err))
	}
}

// EvictRemote handles a peer's eviction notice without re-broadcasting it.
func (c *CacheCoordinator) EvictRemote(tag string) {
	if err := c.cache.EvictTag(context.Background(), tag); err != nil {
		c.logger.Warn("failed to apply remote eviction",
			logger.String("tag", tag),
			logger.Error(err))
	}
}

// Listen subscribes to peer evictions of tags. It is a no-op without a broadcaster.
func (c *CacheCoordinator) Listen(tags []string) error {
	if c.broadcaster == nil {
		return nil
	}
	return c.broadcaster.Subscribe(tags, c.EvictRemote)
}
