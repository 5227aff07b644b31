/*
Package cart - cart API controller.

Responsibilities:
1. Receive HTTP requests, parse parameters
2. Resolve the caller identity set by the user middleware
3. Call the application service and hand results to the response package
*/
package cart

import (
	"net/http"

	"movieshop/api/middleware"
	"movieshop/api/response"
	cartapp "movieshop/application/cart"
	"movieshop/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller Cart controller
type Controller struct {
	cartService *cartapp.ApplicationService
}

// NewController Create cart controller
func NewController(cartService *cartapp.ApplicationService) *Controller {
	return &Controller{
		cartService: cartService,
	}
}

// RegisterRoutes Register cart routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", c.ViewCart)
		cartGroup.POST("/items", c.AddItem)
		cartGroup.DELETE("/items/:movieId", c.RemoveItem)
		cartGroup.DELETE("", c.ClearCart)
	}
}

// AddItemRequest Add to cart request
type AddItemRequest struct {
	MovieID string `json:"movie_id" binding:"required"`
}

// AddItem Put a movie into the caller's cart
// POST /api/v1/cart/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	if err := c.cartService.AddItem(ctx.Request.Context(), userID, req.MovieID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, nil, "movie added to cart")
}

// RemoveItem Take a movie out of the caller's cart
// DELETE /api/v1/cart/items/:movieId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	movieID := ctx.Param("movieId")
	if movieID == "" {
		response.HandleError(ctx, errors.BadRequest("movie ID is required"), "movie ID is required", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(ctx)
	if err := c.cartService.RemoveItem(ctx.Request.Context(), userID, movieID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "movie removed from cart")
}

// ClearCart Empty the caller's cart
// DELETE /api/v1/cart
func (c *Controller) ClearCart(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if err := c.cartService.Clear(ctx.Request.Context(), userID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "cart cleared")
}

// ViewCart Return the caller's cart with resolved movie details
// GET /api/v1/cart
func (c *Controller) ViewCart(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	view, err := c.cartService.View(ctx.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, view, "cart retrieved successfully")
}
