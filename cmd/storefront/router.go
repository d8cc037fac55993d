package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/flourever/storefront/docs"
	"github.com/flourever/storefront/internal/config"
	"github.com/flourever/storefront/internal/httpx"
	"github.com/flourever/storefront/internal/mail"
	"github.com/flourever/storefront/internal/order"
	"github.com/flourever/storefront/internal/product"
	"github.com/flourever/storefront/internal/user"
)

type deps struct {
	cfg      config.Config
	products product.Repository
	users    user.Repository
	orders   order.Repository
	mailer   mail.Mailer
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	secret := []byte(d.cfg.TokenSecret)

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	api.POST("/signup", signupHandler(d.users, d.mailer))
	api.POST("/verify", verifyHandler(d.users, secret))
	api.POST("/resend-code", resendCodeHandler(d.users, d.mailer))
	api.POST("/login", loginHandler(d.users, secret))
	api.POST("/forgot-password", forgotPasswordHandler(d.users, d.mailer))
	api.POST("/reset-password", resetPasswordHandler(d.users))
	api.POST("/admin/login", adminLoginHandler(d.cfg, secret))

	api.GET("/products", listProductsHandler(d.products))
	api.GET("/products/featured", featuredProductsHandler(d.products))
	api.GET("/products/best-sellers", bestSellersHandler(d.products))
	api.GET("/products/category/:categoryName", productsByCategoryHandler(d.products))
	api.GET("/products/:id", getProductHandler(d.products))

	authed := api.Group("", httpx.AuthRequired(secret))
	authed.POST("/checkout", checkoutHandler(d.orders))
	authed.GET("/orders", listOrdersHandler(d.orders))
	authed.GET("/orders/:orderId", getOrderHandler(d.orders))
	authed.POST("/orders/:orderId/feedback", feedbackHandler(d.orders))
	authed.GET("/profile", getProfileHandler(d.users))
	authed.PUT("/profile", updateProfileHandler(d.users))

	admin := api.Group("/admin", httpx.AdminRequired(secret))
	admin.GET("/dashboard/stats", adminStatsHandler(d.products, d.orders, d.users))
	admin.GET("/orders", adminListOrdersHandler(d.orders))
	admin.PUT("/orders/:orderId", adminUpdateOrderStatusHandler(d.orders))
	admin.GET("/users", adminListUsersHandler(d.users))
	admin.GET("/users/email/:email", adminGetUserByEmailHandler(d.users))
	admin.DELETE("/users/:userId", adminDeleteUserHandler(d.users))
	admin.GET("/products", adminListProductsHandler(d.products))
	admin.POST("/products", adminCreateProductHandler(d.products))
	admin.PUT("/products/:productId", adminUpdateProductHandler(d.products))
	admin.PUT("/products/:productId/restore", adminRestoreProductHandler(d.products))
	admin.DELETE("/products/:productId", adminArchiveProductHandler(d.products))

	return r
}
