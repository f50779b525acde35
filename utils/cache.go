// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"teleka/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// CacheClient backs the recent-places store. It is nil when REDIS_ADDR is
// empty and callers fall back to process memory.
var CacheClient *redis.Client

// RedisEnabled reports whether a Redis address is configured.
func RedisEnabled() bool {
	return config.AppConfig.RedisAddr != ""
}

// InitCache connects the cache client when Redis is configured.
func InitCache() error {
	if !RedisEnabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis (cache): %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the cache client, nil when Redis is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// QueueRedisOpt is the asynq connection for the push queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
