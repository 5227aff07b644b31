// Package cache holds the Redis-backed read cache for cart views. The cache
// is best-effort: every miss or Redis failure falls through to storage, and
// writes that mutate a cart invalidate its entry.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss no entry for the key.
var ErrCacheMiss = errors.New("cache miss")

// CartView is the cached representation of a resolved cart.
type CartView struct {
	CartID   string         `json:"cart_id"`
	UserID   string         `json:"user_id"`
	Items    []CartViewItem `json:"items"`
	Total    int64          `json:"total"`
	Currency string         `json:"currency"`
}

// CartViewItem is one resolved cart line.
type CartViewItem struct {
	MovieID string    `json:"movie_id"`
	Title   string    `json:"title"`
	Price   int64     `json:"price"`
	AddedAt time.Time `json:"added_at"`
}

// CartCache caches resolved cart views keyed by user.
type CartCache interface {
	Get(ctx context.Context, userID string) (*CartView, error)
	Set(ctx context.Context, userID string, view *CartView) error
	Delete(ctx context.Context, userID string) error
}

// RedisCartCache CartCache backed by Redis. TTLs carry a small jitter so a
// burst of carts cached together does not expire together.
type RedisCartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCartCache(client *redis.Client, baseTTL time.Duration) *RedisCartCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCartCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisCartCache) Get(ctx context.Context, userID string) (*CartView, error) {
	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var view CartView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("unmarshal cart view failed: %w", err)
	}
	return &view, nil
}

func (r *RedisCartCache) Set(ctx context.Context, userID string, view *CartView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal cart view failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, cacheKey(userID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// Compile-time interface implementation check
var _ CartCache = (*RedisCartCache)(nil)
