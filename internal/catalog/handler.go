// File: internal/catalog/handler.go
package catalog

import (
	"errors"

	"castlecare_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for catalog handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for catalog operations. Reads are public;
// writes require an authenticated admin.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	catalogGroup := router.Group("/catalog")
	{
		catalogGroup.GET("/pricing", h.listPricingOptions)
		catalogGroup.GET("/pricing/:slug", h.getPricingOption)
		catalogGroup.GET("/availability", h.checkAvailability)
		catalogGroup.POST("/pricing", authMW, adminMW, h.createPricingOption)
	}
}

func (h *Handler) listPricingOptions(c *gin.Context) {
	options, err := h.service.ListPricingOptions(c.Request.Context(), c.Query("service_type"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Pricing options retrieved.", options)
}

func (h *Handler) getPricingOption(c *gin.Context) {
	option, err := h.service.GetPricingOptionBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Pricing option retrieved.", option)
}

func (h *Handler) checkAvailability(c *gin.Context) {
	result, err := h.service.CheckAvailability(c.Request.Context(), c.Query("zip"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Availability checked.", result)
}

func (h *Handler) createPricingOption(c *gin.Context) {
	var req CreatePricingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	option, err := h.service.CreatePricingOption(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Pricing option created.", option)
}
