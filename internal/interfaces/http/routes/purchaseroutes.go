package routes

import (
	"github.com/gin-gonic/gin"

	"kuppi/internal/interfaces/http/handlers"
	"kuppi/internal/interfaces/http/middleware"
)

// PurchaseRouteConfig holds dependencies for purchase and payment routes.
type PurchaseRouteConfig struct {
	PurchaseHandler *handlers.PurchaseHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimit       gin.HandlerFunc // applied to checkout creation
}

// SetupPurchaseRoutes configures purchase routes. The notify endpoint is
// deliberately outside the auth group: the gateway's server calls it and
// authenticates via the payload signature instead of a user token.
func SetupPurchaseRoutes(engine *gin.Engine, cfg *PurchaseRouteConfig) {
	engine.POST("/payments/notify", cfg.PurchaseHandler.PaymentNotify)

	purchases := engine.Group("/purchases", cfg.AuthMiddleware.RequireAuth())
	{
		purchases.POST("/checkout", cfg.RateLimit, cfg.PurchaseHandler.InitiateCheckout)
		purchases.GET("", cfg.PurchaseHandler.ListPurchases)
		purchases.GET("/return", cfg.PurchaseHandler.PaymentReturn)
		purchases.POST("/:id/dismiss", cfg.PurchaseHandler.DismissCheckout)
	}
}
