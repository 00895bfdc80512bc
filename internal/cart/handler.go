// File: internal/cart/handler.go
package cart

import (
	"errors"

	"castlecare_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for cart handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new cart handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for cart operations. All require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	carts := router.Group("/cart", authMW)
	{
		carts.GET("", h.get)
		carts.PUT("", h.replace)
		carts.DELETE("", h.clear)
		carts.POST("/items", h.addItem)
		carts.DELETE("/items/:itemId", h.removeItem)
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := common.GetExternalUserIDFromContext(c)
	cart, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Cart retrieved.", cart)
}

func (h *Handler) addItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	userID := common.GetExternalUserIDFromContext(c)
	cart, err := h.service.AddItem(c.Request.Context(), userID, Item{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Type:        req.Type,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item added to cart.", cart)
}

func (h *Handler) removeItem(c *gin.Context) {
	userID := common.GetExternalUserIDFromContext(c)
	cart, err := h.service.RemoveItem(c.Request.Context(), userID, c.Param("itemId"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item removed from cart.", cart)
}

func (h *Handler) replace(c *gin.Context) {
	var req ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	userID := common.GetExternalUserIDFromContext(c)
	cart, err := h.service.Replace(c.Request.Context(), userID, req.Items)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Cart synced.", cart)
}

func (h *Handler) clear(c *gin.Context) {
	userID := common.GetExternalUserIDFromContext(c)
	if err := h.service.Clear(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
