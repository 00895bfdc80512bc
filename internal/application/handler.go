// File: internal/application/handler.go
package application

import (
	"net/http"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/hiring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for application handlers.
//
// The wire format here intentionally mirrors the consumer contract the web
// client was built against ({error}/{message, applicationId} bodies) rather
// than the envelope the rest of the API uses.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new application handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for application operations. Both require
// an authenticated identity.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	apps := router.Group("/applications", authMW)
	{
		apps.POST("", h.submit)
		apps.GET("/:userId", h.getByUserID)
	}
}

func (h *Handler) submit(c *gin.Context) {
	externalUserID := common.GetExternalUserIDFromContext(c)
	if externalUserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Account == nil || req.Contact == nil || req.Roles == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	draft := &hiring.ApplicationDraft{
		Account: *req.Account,
		Contact: *req.Contact,
		Roles:   *req.Roles,
	}
	applicationID, err := h.service.Submit(c.Request.Context(), externalUserID, draft)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode < http.StatusInternalServerError {
			c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
			return
		}
		h.logger.Error("Error submitting application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Application submitted successfully",
		"applicationId": applicationID,
	})
}

func (h *Handler) getByUserID(c *gin.Context) {
	requestedUserID := c.Param("userId")
	authenticatedUserID := common.GetExternalUserIDFromContext(c)

	// Users may only read their own application; admins may read any.
	if authenticatedUserID != requestedUserID && common.GetUserRoleFromContext(c) != common.RoleAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	app, err := h.service.GetByUserID(c.Request.Context(), requestedUserID)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			// Not-found is a normal empty state, not a failure.
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		h.logger.Error("Error fetching application",
			zap.String("userId", requestedUserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch application",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, app)
}
