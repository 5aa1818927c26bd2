package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client
var RedisCtx = context.Background()
var RedisURI string

// InitRedis connects the shared Redis client. Redis backs refresh tokens,
// the toast notification channel and the Asynq queue.
func InitRedis() {
	RedisURI = os.Getenv("REDIS_URI") // e.g. localhost:6379
	if RedisURI == "" {
		log.Println("Warning: REDIS_URI not set. Redis features disabled.")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     RedisURI,
		Password: "",
		DB:       0,
	})
	if _, err := RedisClient.Ping(RedisCtx).Result(); err != nil {
		log.Println("Warning: failed to connect Redis:", err)
		RedisClient = nil
	}
}
