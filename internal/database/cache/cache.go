package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

const minSleep = 50 * time.Millisecond

// ErrTimeout is returned when a waiter gives up on another reader's
// in-flight read-through.
var ErrTimeout = errors.New("timeout")

// PassThroughFunc is the actual call to the underlying data source.
type PassThroughFunc = func() (interface{}, error)

// Cache is a read-through cache over redis. A per-key lock throttles
// concurrent read-throughs so one caller populates while the rest wait.
type Cache interface {
	// Get returns the cached value for queryKey, calling f and
	// populating the cache on a miss. target must be a pointer.
	Get(ctx context.Context, queryKey string, target interface{}, expire time.Duration, f PassThroughFunc) error

	// Invalidate explicitly drops cache keys.
	Invalidate(ctx context.Context, keys ...string) error
}

// Client captures the redis connection.
type Client struct {
	primaryConn            redis.UniversalClient
	readThroughPerKeyLimit time.Duration
	maxWaitingTime         time.Duration
}

// NewCache creates a new redis-backed read-through cache.
func NewCache(primaryClient redis.UniversalClient, readThroughPerKeyLimit, maxWaitingTime time.Duration) (Cache, error) {
	return &Client{
		primaryConn:            primaryClient,
		readThroughPerKeyLimit: readThroughPerKeyLimit,
		maxWaitingTime:         maxWaitingTime,
	}, nil
}

func store(key string) string {
	return fmt.Sprintf("#%s#", key)
}

func lock(key string) string {
	return fmt.Sprintf("#%s#_lock", key)
}

// getNoCache reads through using f and populates the cache on success.
func (c *Client) getNoCache(ctx context.Context, queryKey string, expire time.Duration, f PassThroughFunc, target interface{}) error {
	res, err := f()
	if err != nil {
		// Clear the lock key so another goroutine can take over.
		if e := c.primaryConn.Del(ctx, lock(queryKey)).Err(); e != nil {
			log.Err(e).Str("key", queryKey).Msg("failed to clear cache lock")
		}
		return err
	}
	bs, err := msgpack.Marshal(res)
	if err != nil {
		return err
	}
	if err := c.primaryConn.Set(ctx, store(queryKey), bs, expire).Err(); err != nil {
		log.Err(err).Str("key", queryKey).Msg("failed to set cache")
	}
	return msgpack.Unmarshal(bs, target)
}

// Get implements Cache.
func (c *Client) Get(ctx context.Context, queryKey string, target interface{}, expire time.Duration, f PassThroughFunc) error {
	var waitCtx context.Context
	var waitCancel context.CancelFunc
retry:
	res, err := c.primaryConn.Get(ctx, store(queryKey)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Err(err).Str("key", queryKey).Msg("failed to get from cache")
			return c.getNoCache(ctx, queryKey, expire, f, target)
		}

		// Empty cache: obtain the lock before hitting the source.
		acquired, err := c.primaryConn.SetNX(ctx, lock(queryKey), "", c.readThroughPerKeyLimit).Result()
		if err != nil {
			log.Err(err).Str("key", queryKey).Msg("failed to set cache lock")
			return c.getNoCache(ctx, queryKey, expire, f, target)
		}
		if acquired {
			return c.getNoCache(ctx, queryKey, expire, f, target)
		}
		// Another caller holds the lock; wait for it to publish.
		if waitCtx == nil {
			waitCtx, waitCancel = context.WithTimeout(ctx, c.maxWaitingTime)
			defer waitCancel()
		}
		select {
		case <-ctx.Done():
			return ErrTimeout
		case <-time.After(minSleep):
			goto retry
		case <-waitCtx.Done():
			return ErrTimeout
		}
	}
	return msgpack.Unmarshal([]byte(res), target)
}

// Invalidate implements Cache.
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.primaryConn.Del(ctx, lock(key), store(key)).Err(); err != nil {
			return err
		}
	}
	return nil
}
