package rest

import (
	"net/http"

	"shopviet-be/internal/cart"
	"shopviet-be/internal/category"
	"shopviet-be/internal/middleware"
	"shopviet-be/internal/notification"
	"shopviet-be/internal/order"
	"shopviet-be/internal/payment"
	"shopviet-be/internal/product"
	"shopviet-be/internal/review"
	"shopviet-be/internal/settings"
	"shopviet-be/internal/user"
	"shopviet-be/internal/wishlist"

	"github.com/gin-gonic/gin"
)

// Config wires the services and runtime knobs into the router.
type Config struct {
	Users         user.Service
	Products      product.Service
	Categories    category.Service
	Carts         cart.Service
	Orders        order.Service
	Payments      payment.Service
	Reviews       review.Service
	Settings      settings.Service
	Notifications notification.Service
	Wishlists     wishlist.Service

	JWTSecret      string
	FrontendURL    string
	InternalAPIKey string
	Production     bool
}

// NewRouter builds the gin engine with all API routes mounted under
// /api. Admin groups stack RequireAuth and RequireAdmin.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.NewRateLimiter(cfg.InternalAPIKey).Middleware())

	auth := &authHandler{users: cfg.Users, production: cfg.Production}
	products := &productHandler{products: cfg.Products, production: cfg.Production}
	categories := &categoryHandler{categories: cfg.Categories, production: cfg.Production}
	carts := &cartHandler{carts: cfg.Carts, production: cfg.Production}
	orders := &orderHandler{orders: cfg.Orders, production: cfg.Production}
	payments := &paymentHandler{payments: cfg.Payments, frontendURL: cfg.FrontendURL, production: cfg.Production}
	reviews := &reviewHandler{reviews: cfg.Reviews, production: cfg.Production}
	sett := &settingsHandler{settings: cfg.Settings, production: cfg.Production}
	notifications := &notificationHandler{notifications: cfg.Notifications, production: cfg.Production}
	wishlists := &wishlistHandler{wishlists: cfg.Wishlists, production: cfg.Production}
	adminUsers := &adminUserHandler{users: cfg.Users, production: cfg.Production}

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	requireAdmin := middleware.RequireAdmin()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", auth.register)
		api.POST("/auth/login", auth.login)
		api.GET("/auth/me", requireAuth, auth.me)
		api.PUT("/auth/me", requireAuth, auth.updateProfile)

		api.GET("/products", products.list)
		api.GET("/products/:id", products.get)
		api.GET("/products/:id/reviews", reviews.listByProduct)

		api.GET("/categories", categories.list)
		api.GET("/categories/:id", categories.get)

		api.GET("/settings", sett.listPublic)

		cartGroup := api.Group("/cart", requireAuth)
		{
			cartGroup.GET("", carts.get)
			cartGroup.POST("/items", carts.addItem)
			cartGroup.PUT("/items/:id", carts.updateItem)
			cartGroup.DELETE("/items/:id", carts.removeItem)
			cartGroup.DELETE("", carts.clear)
		}

		orderGroup := api.Group("/orders", requireAuth)
		{
			orderGroup.POST("", orders.create)
			orderGroup.GET("", orders.listMine)
			orderGroup.GET("/:id", orders.get)
			orderGroup.PUT("/:id/cancel", orders.cancel)
		}

		paymentGroup := api.Group("/payment")
		{
			paymentGroup.POST("/vnpay/create", requireAuth, payments.create)
			paymentGroup.GET("/vnpay/return", payments.returnURL)
			paymentGroup.POST("/vnpay/callback", payments.callback)
			paymentGroup.GET("/vnpay/banks", payments.banks)
			paymentGroup.GET("/vnpay/status/:orderId", requireAuth, payments.status)
		}

		api.POST("/reviews", requireAuth, reviews.create)

		wishlistGroup := api.Group("/wishlist", requireAuth)
		{
			wishlistGroup.GET("", wishlists.list)
			wishlistGroup.POST("", wishlists.add)
			wishlistGroup.DELETE("/clear", wishlists.clear)
			wishlistGroup.GET("/check/:productId", wishlists.check)
			wishlistGroup.DELETE("/:productId", wishlists.remove)
		}

		notifGroup := api.Group("/notifications", requireAuth)
		{
			notifGroup.GET("", notifications.listMine)
			notifGroup.PUT("/:id/read", notifications.markRead)
			notifGroup.GET("/unread-count", notifications.unreadCount)
		}

		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/users", adminUsers.list)
			admin.GET("/users/:id", adminUsers.get)
			admin.PUT("/users/:id/role", adminUsers.updateRole)
			admin.PUT("/users/:id/status", adminUsers.updateStatus)
			admin.DELETE("/users/:id", adminUsers.delete)

			admin.POST("/products", products.create)
			admin.PUT("/products/:id", products.update)
			admin.DELETE("/products/:id", products.delete)
			admin.PUT("/products/:id/stock", products.setStock)

			admin.POST("/categories", categories.create)
			admin.PUT("/categories/:id", categories.update)
			admin.DELETE("/categories/:id", categories.delete)

			admin.GET("/orders", orders.listAdmin)
			admin.GET("/orders/statistics", orders.statistics)
			admin.PUT("/orders/:id/status", orders.updateStatus)
			admin.DELETE("/orders/:id", orders.delete)

			admin.PUT("/payment/:orderId/refund", payments.refund)

			admin.GET("/reviews", reviews.listAdmin)
			admin.PUT("/reviews/:id/approve", reviews.approve)
			admin.PUT("/reviews/:id/reject", reviews.reject)

			admin.GET("/settings", sett.listAdmin)
			admin.POST("/settings", sett.create)
			admin.PUT("/settings/bulk", sett.updateBulk)
			admin.PUT("/settings/:key", sett.update)
			admin.DELETE("/settings/:key", sett.delete)
		}
	}

	return r
}
