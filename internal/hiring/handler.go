// File: internal/hiring/handler.go
package hiring

import (
	"errors"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for hiring wizard handlers.
type Handler struct {
	controller *Controller
	store      Store
	logger     *zap.Logger
}

// NewHandler creates a new hiring handler.
func NewHandler(controller *Controller, store Store, logger *zap.Logger) *Handler {
	return &Handler{
		controller: controller,
		store:      store,
		logger:     logger,
	}
}

// RegisterRoutes sets up the routes for the hiring wizard. The flow is
// deliberately unauthenticated: the applicant does not have an account until
// the final step's handoff completes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/hiring/drafts")
	{
		drafts.POST("", h.createDraft)
		drafts.GET("/:id", h.getDraft)
		drafts.PATCH("/:id/account", h.updateAccount)
		drafts.PATCH("/:id/contact", h.updateContact)
		drafts.PATCH("/:id/roles", h.updateRoles)
		drafts.POST("/:id/next", h.next)
		drafts.POST("/:id/back", h.back)
		drafts.POST("/:id/complete", h.complete)
		drafts.DELETE("/:id", h.reset)
	}
}

func (h *Handler) createDraft(c *gin.Context) {
	// The draft id doubles as the session's capability token for the whole
	// unauthenticated flow, so it carries real entropy.
	draftID, err := crypto.GenerateSecureRandomString(24)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	draft := DefaultDraft()
	if err := h.store.Save(c.Request.Context(), draftID, draft); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Draft created.", DraftResponse{
		DraftID:  draftID,
		Step:     StepPlan,
		StepName: StepPlan.String(),
		Draft:    draft,
	})
}

func (h *Handler) getDraft(c *gin.Context) {
	draftID := c.Param("id")
	draft, step, err := h.controller.Draft(c.Request.Context(), draftID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Draft retrieved.", DraftResponse{
		DraftID:  draftID,
		Step:     step,
		StepName: step.String(),
		Draft:    draft,
	})
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req AccountUpdate
	if !h.bind(c, &req) {
		return
	}
	draft, err := h.store.UpdateAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Account updated.", draft)
}

func (h *Handler) updateContact(c *gin.Context) {
	var req ContactUpdate
	if !h.bind(c, &req) {
		return
	}
	draft, err := h.store.UpdateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact info updated.", draft)
}

func (h *Handler) updateRoles(c *gin.Context) {
	var req RolesUpdate
	if !h.bind(c, &req) {
		return
	}
	draft, err := h.store.UpdateRoles(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Roles updated.", draft)
}

func (h *Handler) next(c *gin.Context) {
	// The sign-up body is only meaningful on the final step; an empty body
	// is fine everywhere else.
	var signup *SignUpInput
	if c.Request.ContentLength > 0 {
		var req SignUpInput
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
			return
		}
		signup = &req
	}

	progress, err := h.controller.Next(c.Request.Context(), c.Param("id"), signup)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	data := gin.H{"step": progress.Step, "step_name": progress.StepName}
	if progress.Handoff != nil {
		data["handoff"] = gin.H{
			"external_user_id": progress.Handoff.ExternalUserID,
			"redirect_url":     progress.Handoff.RedirectURL,
		}
		common.RespondOK(c, "Sign-up started. Complete the flow with the identity provider.", data)
		return
	}
	common.RespondOK(c, "Step advanced.", data)
}

func (h *Handler) back(c *gin.Context) {
	progress, err := h.controller.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Step rewound.", gin.H{"step": progress.Step, "step_name": progress.StepName})
}

type completeRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (h *Handler) complete(c *gin.Context) {
	var req completeRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.controller.Complete(c.Request.Context(), c.Param("id"), req.IDToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Application submitted successfully.", result)
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.controller.Reset(c.Request.Context(), c.Param("id")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Hiring wizard: invalid request body", zap.Error(err), zap.String("path", c.FullPath()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
