// File: internal/identity/firebase.go
package identity

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"castlecare_backend/internal/config"
)

// FirebaseProvider implements Provider on top of the Firebase Admin SDK.
type FirebaseProvider struct {
	authClient  *auth.Client
	redirectURL string
	logger      *zap.Logger
}

var _ Provider = (*FirebaseProvider)(nil)

// NewFirebaseProvider initializes the Firebase Admin SDK and creates a new provider.
func NewFirebaseProvider(cfg *config.Config, logger *zap.Logger) (*FirebaseProvider, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// If ProjectID is not specified in config, let SDK infer from credentials
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}

	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &FirebaseProvider{
		authClient:  authClient,
		redirectURL: cfg.SignUpRedirectURL,
		logger:      logger,
	}, nil
}

// BeginSignUp creates a pending Firebase account pre-filled from the draft.
// Account tier and role selections are attached as custom claims.
func (p *FirebaseProvider) BeginSignUp(ctx context.Context, prefill Prefill, credential string) (*HandoffResult, error) {
	params := (&auth.UserToCreate{}).
		Email(prefill.Email).
		EmailVerified(false).
		Password(credential).
		DisplayName(strings.TrimSpace(prefill.FirstName + " " + prefill.LastName))

	// Firebase only accepts E.164 phone numbers; drafted numbers are free-form.
	if strings.HasPrefix(prefill.Phone, "+") {
		params = params.PhoneNumber(prefill.Phone)
	}

	record, err := p.authClient.CreateUser(ctx, params)
	if err != nil {
		return nil, p.mapSignUpError(err, prefill.Email)
	}

	claims := map[string]interface{}{
		"role":           "worker",
		"accountTier":    prefill.AccountTier,
		"onDemandRoles":  prefill.OnDemandRoles,
		"warehouseRoles": prefill.WarehouseRoles,
	}
	if prefill.Username != "" {
		claims["username"] = prefill.Username
	}
	if prefill.DateOfBirth != "" {
		claims["dateOfBirth"] = prefill.DateOfBirth
	}
	if err := p.authClient.SetCustomUserClaims(ctx, record.UID, claims); err != nil {
		// The account exists at this point; the claims are a convenience for
		// the post-signup destination, not a correctness requirement.
		p.logger.Warn("Failed to set custom claims on new user",
			zap.String("uid", record.UID), zap.Error(err))
	}

	p.logger.Info("Sign-up handoff created with Firebase",
		zap.String("uid", record.UID), zap.String("email", prefill.Email))

	return &HandoffResult{
		ExternalUserID: record.UID,
		RedirectURL:    p.redirectURL,
	}, nil
}

// CompleteSignUp verifies the ID token issued after the hosted flow finishes.
func (p *FirebaseProvider) CompleteSignUp(ctx context.Context, idToken string) (*Identity, error) {
	return p.VerifyIDToken(ctx, idToken)
}

// VerifyIDToken verifies a Firebase ID token and returns the identity it describes.
func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("%w: ID token must not be empty", ErrInvalidToken)
	}

	token, err := p.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	ident := identityFromToken(token)
	p.logger.Debug("Firebase ID token verified successfully", zap.String("uid", ident.ExternalUserID))
	return ident, nil
}

// RevokeRefreshTokens revokes all refresh tokens for a given user.
func (p *FirebaseProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := p.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		p.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	p.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}

func (p *FirebaseProvider) mapSignUpError(err error, email string) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		p.logger.Info("Sign-up rejected: email already registered", zap.String("email", email))
		return fmt.Errorf("%w", ErrAccountExists)
	case strings.Contains(strings.ToLower(err.Error()), "password"):
		return fmt.Errorf("%w: %v", ErrWeakCredential, err)
	default:
		p.logger.Error("Firebase sign-up failed", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
}

// identityFromToken maps verified token claims onto an Identity. Claims set
// at sign-up time (name parts, role selections) are carried through as-is.
func identityFromToken(token *auth.Token) *Identity {
	ident := &Identity{
		ExternalUserID: token.UID,
		Claims:         token.Claims,
	}

	if email, ok := token.Claims["email"].(string); ok {
		ident.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		ident.EmailVerified = verified
	}
	if role, ok := token.Claims["role"].(string); ok {
		ident.Role = role
	}
	if phone, ok := token.Claims["phone_number"].(string); ok {
		ident.Phone = phone
	}
	if name, ok := token.Claims["name"].(string); ok {
		parts := strings.SplitN(name, " ", 2)
		ident.FirstName = parts[0]
		if len(parts) > 1 {
			ident.LastName = parts[1]
		}
	}
	return ident
}
