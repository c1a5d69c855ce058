package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// TokenStore records revoked access tokens until they would have expired.
type TokenStore struct {
	client redis.Cmdable
}

func NewTokenStore(client redis.Cmdable) *TokenStore {
	return &TokenStore{client: client}
}

// tokenKey hashes token; raw tokens are never written to Redis.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// Revoke marks token revoked for ttl. A non-positive ttl is a no-op since the
// token is already expired.
func (s *TokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		logger.Debug("Skipping revocation of expired token", nil)
		return nil
	}

	logger.Debug("Revoking token", map[string]interface{}{
		"expiry": ttl.String(),
	})

	if err := s.client.Set(ctx, tokenKey(token), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err, nil)
		return err
	}

	logger.Debug("Token successfully revoked", nil)
	return nil
}

// IsRevoked checks if a token was revoked
func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	val, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err, nil)
		return false, err
	}

	return val == "revoked", nil
}
