// File: internal/application/service.go
package application

import (
	"context"
	"fmt"
	"time"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/config"
	"castlecare_backend/internal/hiring"

	"go.uber.org/zap"
)

// Service implements the submission gateway over the application repository.
type Service struct {
	repo              Repository
	allowResubmission bool
	logger            *zap.Logger
	now               func() time.Time
}

var _ hiring.SubmissionGateway = (*Service)(nil)

// NewService creates a new application service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:              repo,
		allowResubmission: cfg.AllowResubmission,
		logger:            logger.Named("ApplicationService"),
		now:               time.Now,
	}
}

// Submit persists the finished draft for a verified external identity.
// At-most-one logical submission per identity: the backing store is
// last-write-wins by key, so the existence check here is what enforces it.
func (s *Service) Submit(ctx context.Context, externalUserID string, draft *hiring.ApplicationDraft) (string, error) {
	if externalUserID == "" {
		return "", common.ErrBadRequest.WithDetails("A verified user id is required to submit.")
	}

	exists, err := s.repo.Exists(ctx, externalUserID)
	if err != nil {
		return "", err
	}
	if exists && !s.allowResubmission {
		s.logger.Info("Duplicate submission rejected", zap.String("externalUserID", externalUserID))
		return "", common.ErrConflict.WithDetails("An application has already been submitted for this account.")
	}

	submittedAt := s.now().UTC()
	app := &SubmittedApplication{
		ApplicationID:  newApplicationID(externalUserID, submittedAt),
		ExternalUserID: externalUserID,
		Account:        draft.Account,
		Contact:        draft.Contact,
		Roles:          draft.Roles,
		Status:         StatusPending,
		SubmittedAt:    submittedAt,
	}

	if err := s.repo.Save(ctx, app); err != nil {
		s.logger.Error("Failed to persist application",
			zap.String("externalUserID", externalUserID), zap.Error(err))
		return "", err
	}

	s.logger.Info("Application persisted",
		zap.String("externalUserID", externalUserID),
		zap.String("applicationID", app.ApplicationID))
	return app.ApplicationID, nil
}

// GetByUserID returns the submitted application for an external identity.
// Absence is reported as common.ErrNotFound, an ordinary empty state.
func (s *Service) GetByUserID(ctx context.Context, externalUserID string) (*SubmittedApplication, error) {
	return s.repo.FindByUserID(ctx, externalUserID)
}

func newApplicationID(externalUserID string, at time.Time) string {
	short := externalUserID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("app-%d-%s", at.UnixMilli(), short)
}
