// Package payment - payment API controller. Settling an order and reading
// back the caller's payment history.
package payment

import (
	"net/http"

	"movieshop/api/middleware"
	"movieshop/api/response"
	paymentapp "movieshop/application/payment"
	"movieshop/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller Payment controller
type Controller struct {
	paymentService *paymentapp.ApplicationService
}

// NewController Create payment controller
func NewController(paymentService *paymentapp.ApplicationService) *Controller {
	return &Controller{
		paymentService: paymentService,
	}
}

// RegisterRoutes Register payment routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	paymentGroup := router.Group("/payments")
	{
		paymentGroup.POST("", c.Pay)
		paymentGroup.GET("", c.ListPayments)
		paymentGroup.GET("/:id", c.GetPayment)
	}
}

// PayRequest Payment request
type PayRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// Pay Settle a PENDING order through the gateway
// POST /api/v1/payments
func (c *Controller) Pay(ctx *gin.Context) {
	var req PayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	payment, err := c.paymentService.Pay(ctx.Request.Context(), userID, req.OrderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, payment, "payment completed successfully")
}

// GetPayment Return one of the caller's payments
// GET /api/v1/payments/:id
func (c *Controller) GetPayment(ctx *gin.Context) {
	paymentID := ctx.Param("id")
	if paymentID == "" {
		response.HandleError(ctx, errors.BadRequest("payment ID is required"), "payment ID is required", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	payment, err := c.paymentService.GetPayment(ctx.Request.Context(), userID, paymentID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, payment, "payment retrieved successfully")
}

// ListPayments Return the caller's payment history
// GET /api/v1/payments
func (c *Controller) ListPayments(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	payments, err := c.paymentService.ListPayments(ctx.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, payments, "payments retrieved successfully")
}
