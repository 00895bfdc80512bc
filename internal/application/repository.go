// File: internal/application/repository.go
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/platform/database"

	"github.com/redis/go-redis/v9"
)

const applicationKeyPrefix = "application:"

// Repository defines the interface for application persistence. The backing
// store is a key-value set keyed by external user id: writes are
// overwrite-idempotent by key, not an append log.
type Repository interface {
	Save(ctx context.Context, app *SubmittedApplication) error
	FindByUserID(ctx context.Context, externalUserID string) (*SubmittedApplication, error)
	Exists(ctx context.Context, externalUserID string) (bool, error)
	Delete(ctx context.Context, externalUserID string) error
}

type redisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository creates a new Redis-backed application repository.
func NewRedisRepository(client *database.RedisClient) Repository {
	return &redisRepository{rdb: client.Client}
}

func applicationKey(externalUserID string) string {
	return applicationKeyPrefix + externalUserID
}

func (r *redisRepository) Save(ctx context.Context, app *SubmittedApplication) error {
	payload, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}
	// Applications are durable records; no expiration.
	if err := r.rdb.Set(ctx, applicationKey(app.ExternalUserID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist application: %w", err)
	}
	return nil
}

func (r *redisRepository) FindByUserID(ctx context.Context, externalUserID string) (*SubmittedApplication, error) {
	raw, err := r.rdb.Get(ctx, applicationKey(externalUserID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound.WithDetails("Application not found for this user.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read application: %w", err)
	}
	var app SubmittedApplication
	if err := json.Unmarshal([]byte(raw), &app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}

func (r *redisRepository) Exists(ctx context.Context, externalUserID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, applicationKey(externalUserID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return n > 0, nil
}

func (r *redisRepository) Delete(ctx context.Context, externalUserID string) error {
	if err := r.rdb.Del(ctx, applicationKey(externalUserID)).Err(); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
