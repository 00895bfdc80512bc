// File: internal/hiring/wizard_test.go
package hiring

import (
	"context"
	"testing"
	"time"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider implements identity.Provider against in-memory state.
type fakeProvider struct {
	signUpCalls int
	signUpErr   error
	uid         string
	verifyErr   error
}

func (f *fakeProvider) BeginSignUp(ctx context.Context, prefill identity.Prefill, credential string) (*identity.HandoffResult, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &identity.HandoffResult{ExternalUserID: f.uid, RedirectURL: "/drive/complete-application"}, nil
}

func (f *fakeProvider) CompleteSignUp(ctx context.Context, idToken string) (*identity.Identity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &identity.Identity{ExternalUserID: f.uid, Email: "jordan@example.com"}, nil
}

func (f *fakeProvider) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	return f.CompleteSignUp(ctx, idToken)
}

// fakeGateway records submissions.
type fakeGateway struct {
	submitted map[string]*ApplicationDraft
	err       error
}

func (f *fakeGateway) Submit(ctx context.Context, externalUserID string, draft *ApplicationDraft) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.submitted == nil {
		f.submitted = make(map[string]*ApplicationDraft)
	}
	f.submitted[externalUserID] = draft
	return "app-1700000000000-" + externalUserID, nil
}

func newTestWizard(t *testing.T, policy Policy) (*Controller, Store, *fakeProvider, *fakeGateway) {
	t.Helper()
	store, _ := newTestStore(t)
	provider := &fakeProvider{uid: "uid-123"}
	gateway := &fakeGateway{}
	controller := &Controller{
		store:    store,
		provider: provider,
		gateway:  gateway,
		policy:   policy,
		logger:   zap.NewNop(),
	}
	return controller, store, provider, gateway
}

func seedCompletedDraft(t *testing.T, store Store, draftID string) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), draftID, validDraft()))
}

func TestWizardNextBlockedOnEmptyDraft(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()

	_, err := wizard.Next(ctx, "d1", nil)
	require.Error(t, err, "new draft has no plan, step zero must not advance")

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	step, err := store.GetStep(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, StepPlan, step, "failed validation must not move the step")
}

func TestWizardAdvancesThroughSteps(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")

	progress, err := wizard.Next(ctx, "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, StepContactInfo, progress.Step)

	progress, err = wizard.Next(ctx, "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, StepRoles, progress.Step)

	progress, err = wizard.Next(ctx, "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, StepSignUp, progress.Step)
	assert.Nil(t, progress.Handoff)
}

func TestWizardBackClampsAtFirstStep(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()

	progress, err := wizard.Back(ctx, "d1")
	require.NoError(t, err, "back on a new draft is a no-op, not an error")
	assert.Equal(t, StepPlan, progress.Step)

	require.NoError(t, store.SetStep(ctx, "d1", StepRoles))
	progress, err = wizard.Back(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, StepContactInfo, progress.Step)
}

func TestWizardBackDoesNotClearData(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepRoles))

	_, err := wizard.Back(ctx, "d1")
	require.NoError(t, err)

	draft, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan", draft.Contact.FirstName)
}

func TestWizardHandoffFromFinalStep(t *testing.T) {
	wizard, store, provider, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	signup := &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true}
	progress, err := wizard.Next(ctx, "d1", signup)
	require.NoError(t, err)
	require.NotNil(t, progress.Handoff)
	assert.Equal(t, "uid-123", progress.Handoff.ExternalUserID)
	assert.Equal(t, 1, provider.signUpCalls)

	// A repeated submit replays the stored handoff instead of creating a
	// second provider account.
	progress, err = wizard.Next(ctx, "d1", signup)
	require.NoError(t, err)
	require.NotNil(t, progress.Handoff)
	assert.Equal(t, "uid-123", progress.Handoff.ExternalUserID)
	assert.Equal(t, 1, provider.signUpCalls, "provider must be invoked exactly once per logical submit")
}

func TestWizardHandoffValidatesFinalStep(t *testing.T) {
	wizard, store, provider, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "short", TermsAccepted: true})
	require.Error(t, err)
	assert.Equal(t, 0, provider.signUpCalls, "weak credential must never reach the provider")

	_, err = wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: false})
	require.Error(t, err)
	assert.Equal(t, 0, provider.signUpCalls)
}

func TestWizardHandoffProviderErrors(t *testing.T) {
	tests := []struct {
		name        string
		providerErr error
		wantCode    string
	}{
		{"account exists maps to conflict", identity.ErrAccountExists, "CONFLICT"},
		{"weak credential maps to validation", identity.ErrWeakCredential, "VALIDATION_ERROR"},
		{"provider outage maps to service unavailable", identity.ErrProviderUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wizard, store, provider, _ := newTestWizard(t, Policy{MinAge: 18})
			provider.signUpErr = tt.providerErr
			ctx := context.Background()
			seedCompletedDraft(t, store, "d1")
			require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

			_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true})
			require.Error(t, err)
			apiErr, ok := common.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, apiErr.Code)

			// The draft survives so the user can correct and retry.
			draft, getErr := store.Get(ctx, "d1")
			require.NoError(t, getErr)
			assert.Equal(t, "Jordan", draft.Contact.FirstName)

			marker, markerErr := store.GetPendingHandoff(ctx, "d1")
			require.NoError(t, markerErr)
			assert.Nil(t, marker, "failed handoff must not leave a marker behind")
		})
	}
}

func TestWizardCompleteSubmitsAndClears(t *testing.T) {
	wizard, store, _, gateway := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true})
	require.NoError(t, err)

	result, err := wizard.Complete(ctx, "d1", "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", result.ExternalUserID)
	assert.NotEmpty(t, result.ApplicationID)

	submitted := gateway.submitted["uid-123"]
	require.NotNil(t, submitted)
	assert.Equal(t, "Jordan", submitted.Contact.FirstName)

	// Local remnants are gone after a durable submission.
	draft, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, DefaultDraft(), draft)

	marker, err := store.GetPendingHandoff(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, marker)
}

func TestWizardCompleteRejectsMismatchedIdentity(t *testing.T) {
	wizard, store, provider, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true})
	require.NoError(t, err)

	// The callback token belongs to someone else.
	provider.uid = "uid-other"
	_, err = wizard.Complete(ctx, "d1", "token-for-other-user")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
}

func TestWizardCompleteKeepsDraftOnGatewayFailure(t *testing.T) {
	wizard, store, _, gateway := newTestWizard(t, Policy{MinAge: 18})
	gateway.err = common.ErrServiceUnavailable
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true})
	require.NoError(t, err)

	_, err = wizard.Complete(ctx, "d1", "valid-token")
	require.Error(t, err)

	// Draft and marker survive for a retry.
	draft, getErr := store.Get(ctx, "d1")
	require.NoError(t, getErr)
	assert.Equal(t, "Jordan", draft.Contact.FirstName)

	marker, markerErr := store.GetPendingHandoff(ctx, "d1")
	require.NoError(t, markerErr)
	require.NotNil(t, marker)
}

func TestWizardResetClearsEverything(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "d1")
	require.NoError(t, store.SetStep(ctx, "d1", StepSignUp))

	_, err := wizard.Next(ctx, "d1", &SignUpInput{Credential: "s3cret-passphrase", TermsAccepted: true})
	require.NoError(t, err)

	require.NoError(t, wizard.Reset(ctx, "d1"))

	draft, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, DefaultDraft(), draft)

	marker, err := store.GetPendingHandoff(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, marker)
}

func TestWizardPurgeAbandoned(t *testing.T) {
	wizard, store, _, _ := newTestWizard(t, Policy{MinAge: 18})
	ctx := context.Background()
	seedCompletedDraft(t, store, "old-draft")
	require.NoError(t, store.SetPendingHandoff(ctx, "old-draft", &PendingHandoff{
		ExternalUserID: "uid-old",
		CreatedAt:      time.Now().UTC().Add(-72 * time.Hour),
	}))

	purged, err := wizard.PurgeAbandoned(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	draft, err := store.Get(ctx, "old-draft")
	require.NoError(t, err)
	assert.Equal(t, DefaultDraft(), draft)
}
