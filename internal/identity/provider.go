// File: internal/identity/provider.go
package identity

import (
	"context"
	"errors"
)

// Category errors surfaced by identity providers. Services map these onto
// API errors; "provider unavailable" is the only one a user can retry as-is.
var (
	// ErrAccountExists indicates the email is already registered with the provider.
	// Callers should guide the user to sign in instead of signing up again.
	ErrAccountExists = errors.New("identity: an account already exists for this email")
	// ErrWeakCredential indicates the provider rejected the supplied credential.
	ErrWeakCredential = errors.New("identity: credential rejected by provider")
	// ErrInvalidToken indicates the callback token could not be verified.
	ErrInvalidToken = errors.New("identity: ID token could not be verified")
	// ErrProviderUnavailable indicates a transient provider or network failure.
	ErrProviderUnavailable = errors.New("identity: provider is unavailable")
)

// Prefill carries drafted contact fields handed to the provider at sign-up
// so the hosted flow does not ask for them again.
type Prefill struct {
	Username    string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string
	AccountTier string
	// Role selections travel to the provider as custom claims so the
	// post-signup destination can render without a second lookup.
	OnDemandRoles  []string
	WarehouseRoles []string
}

// HandoffResult is returned by BeginSignUp. The account is created in a
// pending state with the provider; the browser must still be sent to
// RedirectURL to finish verification with the hosted flow.
type HandoffResult struct {
	ExternalUserID string
	RedirectURL    string
}

// Identity describes a verified account owned by the external provider.
type Identity struct {
	ExternalUserID string
	Email          string
	EmailVerified  bool
	FirstName      string
	LastName       string
	Phone          string
	Role           string
	Claims         map[string]interface{}
}

// TokenVerifier is the narrow surface the auth middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// Provider wraps an external identity provider's sign-up flow.
type Provider interface {
	TokenVerifier

	// BeginSignUp creates the account with the provider using the drafted
	// contact fields as pre-fill. The credential is forwarded and never stored.
	BeginSignUp(ctx context.Context, prefill Prefill, credential string) (*HandoffResult, error)

	// CompleteSignUp verifies the token carried back by the provider's
	// redirect and returns the now-authenticated identity.
	CompleteSignUp(ctx context.Context, idToken string) (*Identity, error)
}
