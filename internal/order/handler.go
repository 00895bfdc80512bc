// File: internal/order/handler.go
package order

import (
	"errors"

	"castlecare_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for order handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for order operations. All require
// authentication; status updates additionally require an admin.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	orders := router.Group("/orders", authMW)
	{
		orders.POST("", h.checkout)
		orders.GET("", h.list)
		orders.GET("/:orderId", h.get)
		orders.POST("/:orderId/cancel", h.cancel)
		orders.PATCH("/:orderId/status", adminMW, h.updateStatus)
	}
}

func (h *Handler) checkout(c *gin.Context) {
	var req CheckoutRequest
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
	o, err := h.service.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Order created.", o)
}

func (h *Handler) list(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	userID := common.GetExternalUserIDFromContext(c)

	orders, pagination, err := h.service.List(c.Request.Context(), userID,
		common.PaginationQuery{Page: page, PageSize: pageSize})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Orders retrieved.", orders, pagination)
}

func (h *Handler) get(c *gin.Context) {
	userID := common.GetExternalUserIDFromContext(c)
	role := common.GetUserRoleFromContext(c)

	o, err := h.service.Get(c.Request.Context(), userID, role, c.Param("orderId"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Order retrieved.", o)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	o, err := h.service.SetStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Order status updated.", o)
}

func (h *Handler) cancel(c *gin.Context) {
	userID := common.GetExternalUserIDFromContext(c)

	o, err := h.service.Cancel(c.Request.Context(), userID, c.Param("orderId"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Order cancelled.", o)
}
