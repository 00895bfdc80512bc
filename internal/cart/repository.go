// File: internal/cart/repository.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"castlecare_backend/internal/platform/database"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// Repository defines the interface for cart persistence.
type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}

type redisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository creates a new Redis-backed cart repository.
func NewRedisRepository(client *database.RedisClient) Repository {
	return &redisRepository{rdb: client.Client}
}

func cartKey(userID string) string { return cartKeyPrefix + userID }

// Get returns the stored cart, or an empty cart when none exists or the
// payload cannot be decoded.
func (r *redisRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	raw, err := r.rdb.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return NewCart(), nil
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (r *redisRepository) Save(ctx context.Context, userID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, cartKey(userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
