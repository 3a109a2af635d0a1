package routes

import (
	"cloudscale_back_end/internal/handlers"
	"cloudscale_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

type Options struct {
	Sessions sessions.Store
	Limiter  *middleware.RateLimiter
	Origins  []string
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.Use(
		middleware.CORS(opts.Origins),
		middleware.Sessions(opts.Sessions),
		middleware.Identify(h.JWTSecret),
		middleware.TrackSession(h.Tracker),
	)

	// Temps réel
	r.GET("/ws", h.ServeWS)

	api := r.Group("/api")

	// Auth
	api.POST("/register", opts.Limiter.RegisterRateLimit(), h.Register)
	api.POST("/login", opts.Limiter.LoginRateLimit(), h.Login)
	api.POST("/logout", h.Logout)

	// Catalogue public
	api.GET("/products", h.GetProducts)
	api.GET("/products/category/:category", h.GetProductsByCategory)
	api.GET("/products/:id", h.GetProduct)

	// Tableau de bord
	api.GET("/metrics", h.LatestMetrics)
	api.GET("/metrics/history", h.MetricsHistory)
	api.GET("/health", h.Health)

	auth := api.Group("/", middleware.AuthRequired())
	{
		auth.GET("/me", h.Me)

		auth.GET("/cart", h.GetCart)
		auth.POST("/cart", h.AddToCart)
		auth.DELETE("/cart", h.ClearCart)
		auth.PUT("/cart/:id", h.UpdateCartItem)
		auth.DELETE("/cart/:id", h.RemoveCartItem)

		auth.GET("/addresses", h.GetAddresses)
		auth.POST("/addresses", h.CreateAddress)
		auth.PUT("/addresses/:id", h.UpdateAddress)
		auth.PUT("/addresses/:id/default", h.MakeDefaultAddress)
		auth.DELETE("/addresses/:id", h.DeleteAddress)

		auth.GET("/orders", h.GetOrders)
		auth.POST("/orders", h.Checkout)
		auth.GET("/orders/:id", h.GetOrder)
		auth.POST("/orders/:id/cancel", h.CancelOrder)
	}
}
