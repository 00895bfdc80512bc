// File: internal/hiring/wizard.go
package hiring

import (
	"context"
	"errors"
	"time"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/config"
	"castlecare_backend/internal/identity"

	"go.uber.org/zap"
)

// SubmissionGateway persists a finished draft once the authenticated user id
// is known. Implemented by the application package.
type SubmissionGateway interface {
	Submit(ctx context.Context, externalUserID string, draft *ApplicationDraft) (applicationID string, err error)
}

// SignUpInput carries the final-step fields that are never persisted.
type SignUpInput struct {
	Credential    string `json:"password"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// Progress reports the outcome of a wizard transition.
type Progress struct {
	Step     Step                    `json:"step"`
	StepName string                  `json:"step_name"`
	Handoff  *identity.HandoffResult `json:"-"`
}

// CompletionResult reports a finished application submission.
type CompletionResult struct {
	ApplicationID  string `json:"application_id"`
	ExternalUserID string `json:"external_user_id"`
}

// Controller orchestrates step transitions over the draft store and, on the
// final step, hands off credential creation to the identity provider.
type Controller struct {
	store    Store
	provider identity.Provider
	gateway  SubmissionGateway
	policy   Policy
	logger   *zap.Logger
}

// NewController creates the wizard controller.
func NewController(
	store Store,
	provider identity.Provider,
	gateway SubmissionGateway,
	cfg *config.Config,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		store:    store,
		provider: provider,
		gateway:  gateway,
		policy:   PolicyFromConfig(cfg),
		logger:   logger.Named("HiringWizard"),
	}
}

// Draft returns the current draft and step for a session.
func (w *Controller) Draft(ctx context.Context, draftID string) (*ApplicationDraft, Step, error) {
	draft, err := w.store.Get(ctx, draftID)
	if err != nil {
		return nil, StepPlan, err
	}
	step, err := w.store.GetStep(ctx, draftID)
	if err != nil {
		return nil, StepPlan, err
	}
	return draft, step, nil
}

// Next advances the wizard by one step after the current step validates.
// Validation failure leaves the step untouched and surfaces field errors;
// there is no partial advance.
//
// From the final step, Next performs the identity handoff instead. The draft
// is persisted before the handoff result is released so the redirect can
// never outrun the write, and a pending-handoff marker guarantees repeated
// calls do not create a second provider account for one logical submit.
func (w *Controller) Next(ctx context.Context, draftID string, signup *SignUpInput) (*Progress, error) {
	step, err := w.store.GetStep(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if step >= LastStep {
		return w.beginHandoff(ctx, draftID, signup)
	}

	draft, err := w.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if result := CanAdvance(step, draft, w.policy); !result.OK {
		return nil, common.NewValidationAPIError(fieldErrorMap(result.Errors))
	}

	next := step + 1
	if err := w.store.SetStep(ctx, draftID, next); err != nil {
		return nil, err
	}

	w.logger.Debug("Wizard advanced",
		zap.String("draftID", draftID), zap.Int("step", int(next)))
	return &Progress{Step: next, StepName: next.String()}, nil
}

// Back rewinds the wizard one step without re-validating or clearing data.
// At step zero it clamps and reports step zero.
func (w *Controller) Back(ctx context.Context, draftID string) (*Progress, error) {
	step, err := w.store.GetStep(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if step > StepPlan {
		step--
		if err := w.store.SetStep(ctx, draftID, step); err != nil {
			return nil, err
		}
	}
	return &Progress{Step: step, StepName: step.String()}, nil
}

// Reset abandons the draft: payload, step and any pending-handoff marker are removed.
func (w *Controller) Reset(ctx context.Context, draftID string) error {
	if err := w.store.ClearPendingHandoff(ctx, draftID); err != nil {
		return err
	}
	return w.store.Reset(ctx, draftID)
}

func (w *Controller) beginHandoff(ctx context.Context, draftID string, signup *SignUpInput) (*Progress, error) {
	// An existing marker means the provider was already invoked for this
	// submit; replay the stored result instead of signing up twice.
	pending, err := w.store.GetPendingHandoff(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		w.logger.Info("Handoff already in flight, replaying",
			zap.String("draftID", draftID), zap.String("externalUserID", pending.ExternalUserID))
		return &Progress{
			Step:     LastStep,
			StepName: LastStep.String(),
			Handoff: &identity.HandoffResult{
				ExternalUserID: pending.ExternalUserID,
				RedirectURL:    pending.RedirectURL,
			},
		}, nil
	}

	draft, err := w.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if signup != nil {
		draft.Credential = signup.Credential
		draft.TermsAccepted = signup.TermsAccepted
	}

	if result := CanAdvance(StepSignUp, draft, w.policy); !result.OK {
		return nil, common.NewValidationAPIError(fieldErrorMap(result.Errors))
	}

	// The write must land before any redirect is issued, otherwise the draft
	// is lost across the provider round trip.
	if err := w.store.Save(ctx, draftID, draft); err != nil {
		return nil, err
	}

	handoff, err := w.provider.BeginSignUp(ctx, prefillFromDraft(draft), draft.Credential)
	if err != nil {
		// Provider failures do not advance the step or clear the draft;
		// the user corrects and retries.
		return nil, mapIdentityError(err)
	}

	marker := &PendingHandoff{
		ExternalUserID: handoff.ExternalUserID,
		RedirectURL:    handoff.RedirectURL,
		CreatedAt:      time.Now().UTC(),
	}
	if err := w.store.SetPendingHandoff(ctx, draftID, marker); err != nil {
		return nil, err
	}

	w.logger.Info("Identity handoff issued",
		zap.String("draftID", draftID), zap.String("externalUserID", handoff.ExternalUserID))
	return &Progress{Step: LastStep, StepName: LastStep.String(), Handoff: handoff}, nil
}

// Complete consumes the provider's post-redirect callback: it verifies the
// returned token, reconciles the draft with the provider identity, submits
// the finished application and only then clears the local draft.
func (w *Controller) Complete(ctx context.Context, draftID, idToken string) (*CompletionResult, error) {
	ident, err := w.provider.CompleteSignUp(ctx, idToken)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	pending, err := w.store.GetPendingHandoff(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if pending != nil && pending.ExternalUserID != ident.ExternalUserID {
		w.logger.Warn("Callback identity does not match pending handoff",
			zap.String("draftID", draftID),
			zap.String("pendingUID", pending.ExternalUserID),
			zap.String("tokenUID", ident.ExternalUserID))
		return nil, common.ErrForbidden.WithDetails("This draft belongs to a different sign-up.")
	}

	draft, err := w.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	reconcile(draft, ident)

	applicationID, err := w.gateway.Submit(ctx, ident.ExternalUserID, draft)
	if err != nil {
		// Submission failed: keep draft and marker so the user can retry.
		return nil, err
	}

	// Local remnants are no longer needed; the durable record now lives
	// with the application store.
	if err := w.store.ClearPendingHandoff(ctx, draftID); err != nil {
		w.logger.Warn("Failed to clear handoff marker after submission",
			zap.String("draftID", draftID), zap.Error(err))
	}
	if err := w.store.Reset(ctx, draftID); err != nil {
		w.logger.Warn("Failed to reset draft after submission",
			zap.String("draftID", draftID), zap.Error(err))
	}

	w.logger.Info("Application submitted",
		zap.String("draftID", draftID),
		zap.String("externalUserID", ident.ExternalUserID),
		zap.String("applicationID", applicationID))
	return &CompletionResult{ApplicationID: applicationID, ExternalUserID: ident.ExternalUserID}, nil
}

// PurgeAbandoned removes drafts whose identity handoff was issued but never
// completed within the given age. Returns the number of drafts purged.
func (w *Controller) PurgeAbandoned(ctx context.Context, olderThan time.Duration) (int, error) {
	draftIDs, err := w.store.ScanAbandonedHandoffs(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, draftID := range draftIDs {
		if err := w.Reset(ctx, draftID); err != nil {
			w.logger.Warn("Failed to purge abandoned draft",
				zap.String("draftID", draftID), zap.Error(err))
			continue
		}
		purged++
	}
	return purged, nil
}

// reconcile fills draft gaps from provider attributes. Locally drafted
// fields always win.
func reconcile(draft *ApplicationDraft, ident *identity.Identity) {
	if draft.Contact.Email == "" {
		draft.Contact.Email = ident.Email
	}
	if draft.Contact.FirstName == "" {
		draft.Contact.FirstName = ident.FirstName
	}
	if draft.Contact.LastName == "" {
		draft.Contact.LastName = ident.LastName
	}
	if draft.Contact.Phone == "" {
		draft.Contact.Phone = ident.Phone
	}
}

func prefillFromDraft(draft *ApplicationDraft) identity.Prefill {
	onDemand := make([]string, 0, len(draft.Roles.OnDemand))
	for _, r := range draft.Roles.OnDemand {
		onDemand = append(onDemand, string(r))
	}
	warehouse := make([]string, 0, len(draft.Roles.Warehouse))
	for _, r := range draft.Roles.Warehouse {
		warehouse = append(warehouse, string(r))
	}
	return identity.Prefill{
		Username:       draft.Contact.Username,
		FirstName:      draft.Contact.FirstName,
		LastName:       draft.Contact.LastName,
		Email:          draft.Contact.Email,
		Phone:          draft.Contact.Phone,
		DateOfBirth:    draft.Contact.DateOfBirth,
		AccountTier:    string(draft.Account.Plan),
		OnDemandRoles:  onDemand,
		WarehouseRoles: warehouse,
	}
}

// mapIdentityError translates provider error categories onto API errors.
func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrAccountExists):
		return common.ErrConflict.WithDetails("An account already exists for this email. Please sign in instead.")
	case errors.Is(err, identity.ErrWeakCredential):
		return common.NewValidationAPIError(map[string]string{
			"password": "The identity provider rejected this password. Choose a stronger one.",
		})
	case errors.Is(err, identity.ErrInvalidToken):
		return common.ErrUnauthorized.WithDetails("Sign-up could not be verified. Please try again.")
	case errors.Is(err, identity.ErrProviderUnavailable):
		return common.ErrServiceUnavailable.WithDetails("The sign-up service is temporarily unavailable. Please try again.")
	default:
		return err
	}
}
