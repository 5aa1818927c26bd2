package utils

import (
	"context"
	"fmt"
	"time"

	DB "Backend-Rhea/src/database"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// ensureClient returns the shared Redis client managed by the database
// package. Nil means Redis is not configured; callers skip gracefully.
func ensureClient() *redis.Client {
	return DB.RedisClient
}

// StoreRefreshToken keeps a refresh token in Redis with an expiration.
// Returns nil if Redis is not available (development mode).
func StoreRefreshToken(userID, refreshToken string, expiresIn time.Duration) error {
	client := ensureClient()
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := client.Set(Ctx, key, refreshToken, expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %v", err)
	}
	return nil
}

// ValidateRefreshToken checks the presented token against the stored one.
// Returns true if Redis is not available (development mode - skip validation).
func ValidateRefreshToken(userID, refreshToken string) (bool, error) {
	client := ensureClient()
	if client == nil {
		return true, nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	storedToken, err := client.Get(Ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get refresh token: %v", err)
	}

	return storedToken == refreshToken, nil
}

// DeleteRefreshToken removes a refresh token (used on logout).
func DeleteRefreshToken(userID string) error {
	client := ensureClient()
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := client.Del(Ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %v", err)
	}
	return nil
}
