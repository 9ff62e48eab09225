package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "libraryapi/internal/cache/iface"
	"libraryapi/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "outputcache:"
	tagPrefix = "outputcache:tag:"
)

// evictBatch bounds the members handled per eviction round trip.
const evictBatch = 500

// redisCache issues single-key commands only, so it also runs against a cluster.
type redisCache struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr string, password string, db int, log logger.Logger) (cache.Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("connected to Redis successfully", logger.String("addr", addr))

	return NewRedisCacheFromClient(client, log), nil
}

func NewRedisCacheFromClient(client redis.UniversalClient, log logger.Logger) cache.Cache {
	return &redisCache{
		client: client,
		logger: log.With(logger.String("component", "redis_cache")),
	}
}

// Set stores a value with TTL and indexes it under each tag
func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	fullKey := keyPrefix + key

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fullKey, value, ttl)
		for _, tag := range tags {
			tagKey := tagPrefix + tag
			pipe.SAdd(ctx, tagKey, fullKey)
			if ttl > 0 {
				// The set outlives its newest member.
				pipe.Expire(ctx, tagKey, ttl+time.Minute)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to set key",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Get retrieves a value by key
func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("failed to get key",
			logger.String("key", key),
			logger.Error(err))
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

// Delete removes a key
func (r *redisCache) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, keyPrefix+key).Err()
	if err != nil {
		r.logger.Error("failed to delete key",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

// EvictTag removes all keys registered under tag. Members are unindexed
// before their values are deleted, so a key re-added by a concurrent Set
// stays indexed.
func (r *redisCache) EvictTag(ctx context.Context, tag string) error {
	tagKey := tagPrefix + tag

	members, err := r.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		r.logger.Error("failed to read tag members",
			logger.String("tag", tag),
			logger.Error(err))
		return fmt.Errorf("redis evict tag failed: %w", err)
	}

	for start := 0; start < len(members); start += evictBatch {
		batch := members[start:min(start+evictBatch, len(members))]

		unindex := make([]any, len(batch))
		for i, m := range batch {
			unindex[i] = m
		}

		_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SRem(ctx, tagKey, unindex...)
			for _, key := range batch {
				pipe.Del(ctx, key)
			}
			return nil
		})
		if err != nil {
			r.logger.Error("failed to evict tag",
				logger.String("tag", tag),
				logger.Int("evicted", start),
				logger.Error(err))
			return fmt.Errorf("redis evict tag failed: %w", err)
		}
	}

	r.logger.Debug("evicted tag",
		logger.String("tag", tag),
		logger.Int("keys", len(members)))

	return nil
}

// Close closes the Redis connection
func (r *redisCache) Close() error {
	return r.client.Close()
}
