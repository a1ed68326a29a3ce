package http

import (
	"loyalty_backend/internal/config"
	"loyalty_backend/internal/http/handlers"
	"loyalty_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts probes, metrics and the /api surface on r.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, tokens middleware.TokenParser, counter middleware.Counter, cfg *config.Config) {
	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.JWT(tokens)
	admin := []gin.HandlerFunc{auth, middleware.RequireAdmin()}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(counter, "api", cfg.APIRateLimit, cfg.APIRateWindow))
	api.GET("/health", health.Health)

	authRL := middleware.RateLimit(counter, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	user := api.Group("/user")
	{
		user.POST("/register", authRL, h.Register)
		user.POST("/signin", authRL, h.Signin)
		user.GET("/me", auth, h.Me)
		user.PUT("/me", auth, h.UpdateProfile)
		user.PUT("/me/password", auth, h.UpdatePassword)
		user.PUT("/me/device-token", auth, h.UpdateDeviceToken)

		user.GET("", append(admin, h.ListUsers)...)
		user.PATCH("/:id/status", append(admin, h.SetUserStatus)...)
		user.GET("/audit", append(admin, h.ListAudit)...)
	}

	coinRL := middleware.UserRateLimit(counter, "coin", cfg.CoinRateLimit, cfg.CoinRateWindow)
	coin := api.Group("/coin")
	{
		coin.GET("/balance", auth, h.Balance)
		coin.GET("/transactions", auth, h.Transactions)
		coin.GET("/wallet", auth, h.Wallet)
		coin.POST("/redeem", auth, coinRL, h.Redeem)
		coin.GET("/redemptions", auth, h.MyRedemptions)
		coin.GET("/redemptions/:code", auth, h.GetRedemption)

		coin.POST("/earn", append(admin, h.Earn)...)
		coin.POST("/receive", append(admin, h.MarkReceived)...)
		coin.GET("/admin/redemptions", append(admin, h.ListRedemptions)...)
	}

	optional := middleware.OptionalJWT(tokens)
	registerCatalog(api.Group("/product"), h.Catalog(h.Products), optional, admin)
	registerCatalog(api.Group("/item"), h.Catalog(h.Items), optional, admin)

	order := api.Group("/order")
	{
		order.POST("", auth, h.PlaceOrder)
		order.GET("/mine", auth, h.MyOrders)
		order.GET("/:number", auth, h.GetOrder)

		order.GET("", append(admin, h.ListOrders)...)
		order.PATCH("/:number/status", append(admin, h.SetOrderStatus)...)
	}

	feedback := api.Group("/feedback")
	{
		feedback.GET("", h.ListFeedback)
		feedback.POST("", auth, h.SubmitFeedback)

		feedback.GET("/admin", append(admin, h.AdminListFeedback)...)
		feedback.PATCH("/:id/status", append(admin, h.ModerateFeedback)...)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", h.ListBlogs)
		blog.GET("/slug/:slug", optional, h.GetBlog)

		blog.GET("/admin", append(admin, h.AdminListBlogs)...)
		blog.POST("", append(admin, h.CreateBlog)...)
		blog.PUT("/:id", append(admin, h.UpdateBlog)...)
		blog.DELETE("/:id", append(admin, h.DeleteBlog)...)
	}

	message := api.Group("/message")
	message.Use(admin...)
	{
		message.POST("", h.SendMessage)
		message.GET("", h.ListMessages)
	}
}

// registerCatalog mounts the shared product/item surface. Admins see inactive entries.
func registerCatalog(g *gin.RouterGroup, ch *handlers.CatalogHandler, optional gin.HandlerFunc, admin []gin.HandlerFunc) {
	g.GET("", ch.List)
	g.GET("/slug/:slug", optional, ch.GetBySlug)
	g.GET("/id/:id", optional, ch.Get)

	g.GET("/admin", append(admin, ch.AdminList)...)
	g.POST("", append(admin, ch.Create)...)
	g.PUT("/:id", append(admin, ch.Update)...)
	g.DELETE("/:id", append(admin, ch.Delete)...)
}
