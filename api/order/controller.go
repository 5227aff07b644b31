// Package order - order API controller. Checkout and the order lifecycle
// for the caller, plus the admin listing.
package order

import (
	"net/http"

	"movieshop/api/middleware"
	"movieshop/api/response"
	orderapp "movieshop/application/order"
	"movieshop/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller Order controller
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController Create order controller
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes Register order routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("/checkout", c.Checkout)
		orderGroup.GET("", c.ListOrders)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.POST("/:id/cancel", c.CancelOrder)
	}
}

// RegisterAdminRoutes Register the admin listing
func (c *Controller) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/orders", c.ListAllOrders)
}

// Checkout Turn the caller's cart into a PENDING order
// POST /api/v1/orders/checkout
func (c *Controller) Checkout(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	order, err := c.orderService.Checkout(ctx.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder Return one of the caller's orders
// GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	orderID := ctx.Param("id")
	if orderID == "" {
		response.HandleError(ctx, errors.BadRequest("order ID is required"), "order ID is required", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	order, err := c.orderService.GetOrder(ctx.Request.Context(), userID, orderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// ListOrders Return the caller's orders
// GET /api/v1/orders
func (c *Controller) ListOrders(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	orders, err := c.orderService.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// CancelOrder Cancel one of the caller's PENDING orders
// POST /api/v1/orders/:id/cancel
func (c *Controller) CancelOrder(ctx *gin.Context) {
	orderID := ctx.Param("id")
	if orderID == "" {
		response.HandleError(ctx, errors.BadRequest("order ID is required"), "order ID is required", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	if err := c.orderService.Cancel(ctx.Request.Context(), userID, orderID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "order canceled successfully")
}

// ListAllOrders Admin listing with filter, sort and pagination
// GET /api/v1/admin/orders
func (c *Controller) ListAllOrders(ctx *gin.Context) {
	var req orderapp.ListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.ListAll(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	totalPages := int((result.Total + int64(result.PageSize) - 1) / int64(result.PageSize))
	response.HandlePaginated(ctx, result.Orders, response.Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.Total,
		TotalPages: totalPages,
	}, "orders retrieved successfully")
}
