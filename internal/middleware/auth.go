// File: internal/middleware/auth.go
package middleware

import (
	"castlecare_backend/internal/common"
	"castlecare_backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware that verifies the bearer ID token
// against the identity provider and stores the resolved identity in the
// request context.
func AuthMiddleware(verifier identity.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			// c.Abort() is handled by RespondWithError's AbortWithStatusJSON
			return
		}

		ident, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("The provided token is invalid or expired."))
			return
		}

		// Set user information in context for downstream handlers
		c.Set(common.ExternalUserIDKey, ident.ExternalUserID)
		c.Set(common.UserEmailKey, ident.Email)
		c.Set(common.UserRoleKey, ident.Role)

		logger.Debug("User authenticated successfully",
			zap.String("externalUserID", ident.ExternalUserID),
			zap.String("email", ident.Email),
			zap.String("role", ident.Role),
		)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			// This should ideally not happen if AuthMiddleware ran successfully
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
