package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitCache creates the redis connection and the read-through cache
// used for account lookups.
func InitCache() (redis.UniversalClient, Cache, error) {
	redisConn, err := NewRedisClient("redis")
	if err != nil {
		return nil, nil, err
	}
	c, err := NewCache(redisConn, 500*time.Millisecond, 3*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return redisConn, c, nil
}
