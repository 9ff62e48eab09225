package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	cache "libraryapi/internal/cache/iface"
	"libraryapi/internal/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCache connects to a local Redis; the tests are skipped when none is running.
func setupCache(t *testing.T) cache.Cache {
	c, err := NewRedisCache("localhost:6379", "", 0, logger.NewNop())
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return c
}

func TestBasicOperations(t *testing.T) {
	c := setupCache(t)
	defer c.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test:basic:key1"

		require.NoError(t, c.Set(ctx, key, []byte("test-value"), time.Minute))

		result, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(result))

		_ = c.Delete(ctx, key)
	})

	t.Run("Set with TTL", func(t *testing.T) {
		key := "test:basic:key2"

		require.NoError(t, c.Set(ctx, key, []byte("short-lived"), time.Second))

		time.Sleep(2 * time.Second)

		_, err := c.Get(ctx, key)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		key := "test:basic:key3"

		require.NoError(t, c.Set(ctx, key, []byte("gone"), time.Minute))
		require.NoError(t, c.Delete(ctx, key))

		_, err := c.Get(ctx, key)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})
}

func TestTagEviction(t *testing.T) {
	c := setupCache(t)
	defer c.Close()

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "test:tag:a", []byte("a"), time.Minute, "test-authors"))
	require.NoError(t, c.Set(ctx, "test:tag:b", []byte("b"), time.Minute, "test-authors", "test-books"))
	require.NoError(t, c.Set(ctx, "test:tag:c", []byte("c"), time.Minute, "test-books"))

	require.NoError(t, c.EvictTag(ctx, "test-authors"))

	_, err := c.Get(ctx, "test:tag:a")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Get(ctx, "test:tag:b")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	v, err := c.Get(ctx, "test:tag:c")
	require.NoError(t, err)
	assert.Equal(t, "c", string(v))

	t.Run("Evicting an unknown tag is not an error", func(t *testing.T) {
		assert.NoError(t, c.EvictTag(ctx, "test-never-used"))
	})

	_ = c.EvictTag(ctx, "test-books")
}

// commandLog answers commands in-process and records them.
type commandLog struct {
	mu      sync.Mutex
	members []string
	args    [][]any
}

func (l *commandLog) DialHook(next redis.DialHook) redis.DialHook { return next }

func (l *commandLog) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		l.record(cmd)
		return nil
	}
}

func (l *commandLog) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			l.record(cmd)
		}
		return nil
	}
}

func (l *commandLog) record(cmd redis.Cmder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sm, ok := cmd.(*redis.StringSliceCmd); ok && cmd.Name() == "smembers" {
		sm.SetVal(l.members)
	}
	l.args = append(l.args, cmd.Args())
}

func (l *commandLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.args))
	for i, a := range l.args {
		out[i] = fmt.Sprint(a[0])
	}
	return out
}

func newLoggedCache(members ...string) (cache.Cache, *commandLog) {
	log := &commandLog{members: members}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(log)
	return NewRedisCacheFromClient(client, logger.NewNop()), log
}

func TestCommandsTouchOneKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Set", func(t *testing.T) {
		c, log := newLoggedCache()
		require.NoError(t, c.Set(ctx, "/authors", []byte("v"), time.Minute, "authors-get", "books-get"))

		assert.NotContains(t, log.names(), "multi")
		assert.Equal(t, []string{"set", "sadd", "expire", "sadd", "expire"}, log.names())
	})

	t.Run("EvictTag unindexes then deletes in batches", func(t *testing.T) {
		members := make([]string, evictBatch+3)
		for i := range members {
			members[i] = fmt.Sprintf("%s/authors?page=%d", keyPrefix, i)
		}
		c, log := newLoggedCache(members...)

		require.NoError(t, c.EvictTag(ctx, "authors-get"))

		var dels, srems int
		for _, args := range log.args {
			switch args[0] {
			case "del":
				dels++
				assert.Len(t, args, 2, "DEL must name one key")
			case "srem":
				srems++
				assert.Equal(t, tagPrefix+"authors-get", args[1])
			case "smembers":
			default:
				t.Fatalf("unexpected command %v", args[0])
			}
		}
		assert.Equal(t, len(members), dels)
		assert.Equal(t, 2, srems)
		assert.Equal(t, "srem", log.names()[1])
	})

	t.Run("EvictTag of an empty tag only reads it", func(t *testing.T) {
		c, log := newLoggedCache()
		require.NoError(t, c.EvictTag(ctx, "comments-get"))
		assert.Equal(t, []string{"smembers"}, log.names())
	})
}
