// File: internal/hiring/store.go
package hiring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"castlecare_backend/internal/config"
	"castlecare_backend/internal/platform/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Well-known key prefixes. The draft payload and the step index live under
// separate keys so the step can be bumped without rewriting the payload.
const (
	draftKeyPrefix   = "hiring:draft:"
	stepKeyPrefix    = "hiring:step:"
	pendingKeyPrefix = "hiring:pending:"
)

// PendingHandoff marks a draft whose sign-up handoff has been issued but not
// yet completed. Its presence is what makes the terminal transition idempotent.
type PendingHandoff struct {
	ExternalUserID string    `json:"externalUserId"`
	RedirectURL    string    `json:"redirectUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store owns the in-progress application draft and wizard step for the
// duration of the unauthenticated flow.
//
// All read operations are total: a missing or unreadable draft yields the
// zero-value default, never an error the caller must branch on.
type Store interface {
	Get(ctx context.Context, draftID string) (*ApplicationDraft, error)
	Save(ctx context.Context, draftID string, draft *ApplicationDraft) error
	UpdateAccount(ctx context.Context, draftID string, u AccountUpdate) (*ApplicationDraft, error)
	UpdateContact(ctx context.Context, draftID string, u ContactUpdate) (*ApplicationDraft, error)
	UpdateRoles(ctx context.Context, draftID string, u RolesUpdate) (*ApplicationDraft, error)
	GetStep(ctx context.Context, draftID string) (Step, error)
	SetStep(ctx context.Context, draftID string, step Step) error
	Reset(ctx context.Context, draftID string) error

	SetPendingHandoff(ctx context.Context, draftID string, marker *PendingHandoff) error
	GetPendingHandoff(ctx context.Context, draftID string) (*PendingHandoff, error)
	ClearPendingHandoff(ctx context.Context, draftID string) error

	// ScanAbandonedHandoffs returns draft IDs whose pending-handoff marker is
	// older than the given age. Used by the cleanup job.
	ScanAbandonedHandoffs(ctx context.Context, olderThan time.Duration) ([]string, error)
}

type redisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed draft store.
func NewRedisStore(client *database.RedisClient, cfg *config.Config, logger *zap.Logger) Store {
	return &redisStore{
		rdb:    client.Client,
		ttl:    cfg.DraftTTL,
		logger: logger.Named("DraftStore"),
	}
}

func draftKey(id string) string   { return draftKeyPrefix + id }
func stepKey(id string) string    { return stepKeyPrefix + id }
func pendingKey(id string) string { return pendingKeyPrefix + id }

// Get returns the stored draft, or the zero-value default when the key is
// absent or its payload cannot be decoded. Corrupt data fails open: the
// worst outcome of a bad payload is restarting the wizard, never an error page.
func (s *redisStore) Get(ctx context.Context, draftID string) (*ApplicationDraft, error) {
	raw, err := s.rdb.Get(ctx, draftKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultDraft(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	draft := DefaultDraft()
	if err := json.Unmarshal([]byte(raw), draft); err != nil {
		s.logger.Warn("Discarding unreadable draft payload",
			zap.String("draftID", draftID), zap.Error(err))
		return DefaultDraft(), nil
	}
	if draft.Roles.OnDemand == nil {
		draft.Roles.OnDemand = []OnDemandRole{}
	}
	if draft.Roles.Warehouse == nil {
		draft.Roles.Warehouse = []WarehouseRole{}
	}
	return draft, nil
}

// Save writes the draft immediately so a redirect to the identity provider
// cannot lose data. The credential never reaches the wire (json:"-").
func (s *redisStore) Save(ctx context.Context, draftID string, draft *ApplicationDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(draftID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

func (s *redisStore) UpdateAccount(ctx context.Context, draftID string, u AccountUpdate) (*ApplicationDraft, error) {
	return s.update(ctx, draftID, func(d *ApplicationDraft) { d.ApplyAccount(u) })
}

func (s *redisStore) UpdateContact(ctx context.Context, draftID string, u ContactUpdate) (*ApplicationDraft, error) {
	return s.update(ctx, draftID, func(d *ApplicationDraft) { d.ApplyContact(u) })
}

func (s *redisStore) UpdateRoles(ctx context.Context, draftID string, u RolesUpdate) (*ApplicationDraft, error) {
	return s.update(ctx, draftID, func(d *ApplicationDraft) { d.ApplyRoles(u) })
}

func (s *redisStore) update(ctx context.Context, draftID string, apply func(*ApplicationDraft)) (*ApplicationDraft, error) {
	draft, err := s.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	apply(draft)
	if err := s.Save(ctx, draftID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetStep returns the persisted step index, clamped into the valid range.
// Missing or unreadable values fail open to step zero.
func (s *redisStore) GetStep(ctx context.Context, draftID string) (Step, error) {
	raw, err := s.rdb.Get(ctx, stepKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return StepPlan, nil
	}
	if err != nil {
		return StepPlan, fmt.Errorf("failed to read step: %w", err)
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil || n < int(StepPlan) || n > int(StepSubmitted) {
		s.logger.Warn("Discarding unreadable step value",
			zap.String("draftID", draftID), zap.String("value", raw))
		return StepPlan, nil
	}
	return Step(n), nil
}

func (s *redisStore) SetStep(ctx context.Context, draftID string, step Step) error {
	if err := s.rdb.Set(ctx, stepKey(draftID), int(step), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist step: %w", err)
	}
	return nil
}

// Reset clears draft and step back to defaults by removing the persisted copies.
func (s *redisStore) Reset(ctx context.Context, draftID string) error {
	if err := s.rdb.Del(ctx, draftKey(draftID), stepKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to reset draft: %w", err)
	}
	return nil
}

func (s *redisStore) SetPendingHandoff(ctx context.Context, draftID string, marker *PendingHandoff) error {
	payload, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("failed to encode handoff marker: %w", err)
	}
	if err := s.rdb.Set(ctx, pendingKey(draftID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist handoff marker: %w", err)
	}
	return nil
}

func (s *redisStore) GetPendingHandoff(ctx context.Context, draftID string) (*PendingHandoff, error) {
	raw, err := s.rdb.Get(ctx, pendingKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff marker: %w", err)
	}
	var marker PendingHandoff
	if err := json.Unmarshal([]byte(raw), &marker); err != nil {
		s.logger.Warn("Discarding unreadable handoff marker",
			zap.String("draftID", draftID), zap.Error(err))
		return nil, nil
	}
	return &marker, nil
}

func (s *redisStore) ClearPendingHandoff(ctx context.Context, draftID string) error {
	if err := s.rdb.Del(ctx, pendingKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to clear handoff marker: %w", err)
	}
	return nil
}

func (s *redisStore) ScanAbandonedHandoffs(ctx context.Context, olderThan time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-olderThan)
	var abandoned []string
	var cursor uint64

	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pendingKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan handoff markers: %w", err)
		}
		for _, key := range keys {
			draftID := key[len(pendingKeyPrefix):]
			marker, err := s.GetPendingHandoff(ctx, draftID)
			if err != nil || marker == nil {
				continue
			}
			if marker.CreatedAt.Before(cutoff) {
				abandoned = append(abandoned, draftID)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return abandoned, nil
}
