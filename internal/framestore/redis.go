package framestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/koios/mockup-renderer/internal/config"
	"github.com/koios/mockup-renderer/pkg/models"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces frame keys in Redis
const KeyPrefix = "mockup-frames:"

// RedisStore keeps frames as Redis hashes with data and updated_at fields
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(cfg *config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: rdb,
	}
}

// NewRedisStoreFromClient creates a store from an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) buildKey(key string) (string, error) {
	if _, _, err := splitKey(key); err != nil {
		return "", err
	}
	return KeyPrefix + key, nil
}

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	k, err := r.buildKey(key)
	if err != nil {
		return false, err
	}
	n, err := r.client.Exists(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key %s in Redis: %w", k, err)
	}
	return n > 0, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (*models.FrameAsset, bool, error) {
	k, err := r.buildKey(key)
	if err != nil {
		return nil, false, err
	}

	fields, err := r.client.HGetAll(ctx, k).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s from Redis: %w", k, err)
	}
	data, ok := fields["data"]
	if !ok {
		// HGETALL on a missing key is an empty map, not redis.Nil
		return nil, false, nil
	}

	asset := &models.FrameAsset{Key: key, Data: []byte(data)}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		asset.UpdatedAt = ts
	}
	return asset, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	k, err := r.buildKey(key)
	if err != nil {
		return err
	}

	err = r.client.HSet(ctx, k,
		"data", data,
		"updated_at", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set key %s in Redis: %w", k, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	k, err := r.buildKey(key)
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", k, err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context, deviceID string) ([]string, error) {
	if err := validateDeviceID(deviceID); err != nil {
		return nil, err
	}

	prefix := KeyPrefix + deviceID + "/"
	pattern := prefix + "*"

	// SCAN may return a key more than once
	seen := make(map[string]bool)
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var slugs []string
	for iter.Next(ctx) {
		slug := strings.TrimPrefix(iter.Val(), prefix)
		if !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan for keys with pattern %s: %w", pattern, err)
	}

	sort.Strings(slugs)
	return slugs, nil
}
