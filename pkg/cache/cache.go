// Package cache is a thin Redis wrapper. Redis is optional: when the
// connection fails every operation degrades to a no-op / miss so the app
// keeps working against the database alone.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/shoplist/config"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// Connect initialises the Redis client and verifies it with a ping.
// On failure the client is left nil and Get/Set/Del no-op safely.
func Connect() error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Disconnect closes the Redis connection if one is open.
func Disconnect() {
	if rdb != nil {
		_ = rdb.Close()
		rdb = nil
	}
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss, error, or no Redis.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
