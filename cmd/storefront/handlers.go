package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flourever/storefront/internal/httpx"
	"github.com/flourever/storefront/internal/order"
	"github.com/flourever/storefront/internal/product"
	"github.com/flourever/storefront/internal/user"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(400, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// --- public catalog ---

// listProductsHandler godoc
// @Summary List active products
// @Produce json
// @Success 200 {array} product.Product
// @Router /api/products [get]
func listProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error fetching products"})
			return
		}
		c.JSON(200, out)
	}
}

func getProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, err := products.GetActiveByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(404, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(200, p)
	}
}

func productsByCategoryHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.ListByCategory(c.Request.Context(), c.Param("categoryName"))
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error."})
			return
		}
		c.JSON(200, out)
	}
}

func featuredProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.Featured(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(200, out)
	}
}

func bestSellersHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.BestSellers(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(200, out)
	}
}

// --- checkout & orders ---

// checkoutHandler godoc
// @Summary Place an order from the selected cart lines
// @Description Totals are recomputed server-side from the product table; the
// @Description optional Idempotency-Key header dedupes double submits.
// @Accept json
// @Produce json
// @Param request body order.CheckoutRequest true "checkout payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Security BearerAuth
// @Router /api/checkout [post]
func checkoutHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)

		var req order.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(400, gin.H{"error": "No items in cart."})
			return
		}
		if req.DeliveryAddress == "" || req.ContactNumber == "" {
			c.JSON(400, gin.H{"error": "Delivery address and contact number are required."})
			return
		}
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")

		orderID, err := orders.Checkout(c.Request.Context(), claims.UserID, &req)
		switch {
		case errors.Is(err, order.ErrDuplicate):
			c.JSON(200, gin.H{"message": "Order already placed.", "orderId": orderID})
		case errors.Is(err, order.ErrValidation):
			c.JSON(400, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrProductNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error during checkout."})
		default:
			c.JSON(201, gin.H{"message": "Order placed successfully!", "orderId": orderID})
		}
	}
}

// listOrdersHandler godoc
// @Summary List the caller's orders, newest first
// @Produce json
// @Success 200 {array} order.Order
// @Security BearerAuth
// @Router /api/orders [get]
func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)
		out, err := orders.ListByCustomer(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(200, out)
	}
}

func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)
		id, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		o, items, err := orders.GetByID(c.Request.Context(), id, claims.UserID)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(200, gin.H{"order": o, "items": items})
	}
}

func feedbackHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)
		id, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		var fb order.FeedbackRequest
		if err := c.ShouldBindJSON(&fb); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		err := orders.SaveFeedback(c.Request.Context(), id, claims.UserID, &fb)
		switch {
		case errors.Is(err, order.ErrValidation):
			c.JSON(400, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrNotFound):
			c.JSON(404, gin.H{"error": "Order not found or unauthorized"})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error saving feedback."})
		default:
			c.JSON(200, gin.H{"message": "Feedback received. Thank you!"})
		}
	}
}

// --- profile ---

func getProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		completed, err := users.CompletedOrders(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(200, gin.H{
			"id":                  u.ID,
			"email":               u.Email,
			"firstName":           u.FirstName,
			"lastName":            u.LastName,
			"gender":              u.Gender,
			"birthday":            u.Birthday,
			"profileImageUrl":     u.ProfileImageURL,
			"description":         u.Description,
			"createdAt":           u.CreatedAt,
			"defaultAddress":      u.DefaultAddress,
			"defaultInstructions": u.DefaultInstructions,
			"completedOrders":     completed,
		})
	}
}

func updateProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.ClaimsFrom(c)
		var p user.ProfileUpdate
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		if err := users.UpdateProfile(c.Request.Context(), claims.UserID, &p); err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(200, gin.H{
			"id":              claims.UserID,
			"firstName":       p.FirstName,
			"lastName":        p.LastName,
			"description":     p.Description,
			"profileImageUrl": p.ProfileImageURL,
			"email":           claims.Email,
			"isAdmin":         claims.IsAdmin,
		})
	}
}

// --- admin ---

func adminStatsHandler(products product.Repository, orders order.Repository, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		totalProducts, err := products.CountActive(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		pendingOrders, err := orders.CountByStatus(ctx, order.StatusPending)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		totalOrders, err := orders.Count(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		totalUsers, err := users.Count(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(200, gin.H{
			"totalProducts": totalProducts,
			"pendingOrders": pendingOrders,
			"totalUsers":    totalUsers,
			"totalOrders":   totalOrders,
		})
	}
}

func adminListOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		if out == nil {
			out = []order.AdminOrder{}
		}
		c.JSON(200, out)
	}
}

// adminUpdateOrderStatusHandler godoc
// @Summary Move an order through the status state machine
// @Accept json
// @Produce json
// @Param orderId path int true "order id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httpx.HTTPError
// @Failure 409 {object} httpx.HTTPError
// @Security BearerAuth
// @Router /api/admin/orders/{orderId} [put]
func adminUpdateOrderStatusHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		var body struct {
			Status order.Status `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || !body.Status.Valid() {
			c.JSON(400, gin.H{"error": "Invalid order status"})
			return
		}
		err := orders.UpdateStatus(c.Request.Context(), id, body.Status)
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(404, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(409, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error"})
		default:
			c.JSON(200, gin.H{"message": fmt.Sprintf("Order status updated to %s", body.Status)})
		}
	}
}

func adminListUsersHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := users.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		if out == nil {
			out = []user.Summary{}
		}
		c.JSON(200, out)
	}
}

func adminGetUserByEmailHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		c.JSON(200, user.Summary{
			ID:         u.ID,
			Email:      u.Email,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			IsVerified: u.IsVerified,
			CreatedAt:  u.CreatedAt,
		})
	}
}

func adminDeleteUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "userId")
		if !ok {
			return
		}
		err := users.Delete(c.Request.Context(), id)
		switch {
		case errors.Is(err, user.ErrNotFound), errors.Is(err, user.ErrProtected):
			c.JSON(400, gin.H{"error": "Cannot delete"})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error"})
		default:
			c.JSON(200, gin.H{"message": "User deleted successfully"})
		}
	}
}

func adminListProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		if out == nil {
			out = []product.Product{}
		}
		c.JSON(200, out)
	}
}

func adminCreateProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Price == "" {
			c.JSON(400, gin.H{"error": "name and price are required"})
			return
		}
		id, err := products.Create(c.Request.Context(), &req)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error"})
			return
		}
		c.JSON(201, gin.H{"message": "Product added successfully!", "productId": id})
	}
}

func adminUpdateProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		var req product.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		err := products.Update(c.Request.Context(), id, &req)
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(404, gin.H{"error": "Product not found"})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error"})
		default:
			c.JSON(200, gin.H{"message": "Product updated successfully!"})
		}
	}
}

func adminArchiveProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		err := products.Archive(c.Request.Context(), id)
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(404, gin.H{"error": "Product not found"})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error"})
		default:
			c.JSON(200, gin.H{"message": "Product archived successfully."})
		}
	}
}

func adminRestoreProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		err := products.Restore(c.Request.Context(), id)
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(404, gin.H{"error": "Product not found"})
		case err != nil:
			c.JSON(500, gin.H{"error": "Server error"})
		default:
			c.JSON(200, gin.H{"message": "Product restored successfully!"})
		}
	}
}
