package routes

import (
	"github.com/gin-gonic/gin"

	"kuppi/internal/interfaces/http/handlers"
	"kuppi/internal/interfaces/http/middleware"
)

// LibraryRouteConfig holds dependencies for the per-user library surface.
type LibraryRouteConfig struct {
	LibraryHandler *handlers.LibraryHandler
	PlayHandler    *handlers.PlayHandler
	WSHandler      *handlers.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupLibraryRoutes configures the library view, play recording, and the
// live update websocket.
func SetupLibraryRoutes(engine *gin.Engine, cfg *LibraryRouteConfig) {
	engine.GET("/library", cfg.AuthMiddleware.RequireAuth(), cfg.LibraryHandler.GetLibrary)
	engine.POST("/videos/:id/play", cfg.AuthMiddleware.RequireAuth(), cfg.PlayHandler.RecordPlay)
	engine.GET("/ws", cfg.AuthMiddleware.RequireAuth(), cfg.WSHandler.Connect)
}
