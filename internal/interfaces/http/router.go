package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kuppi/internal/infrastructure/config"
	"kuppi/internal/infrastructure/ratelimit"
	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/interfaces/http/routes"
	"kuppi/internal/shared/constants"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"

	_ "kuppi/docs"
)

// Router owns the gin engine and the HTTP server lifecycle.
type Router struct {
	container *Container
	engine    *gin.Engine
	server    *http.Server
	log       logger.Interface
}

// NewRouter builds the container and mounts all routes.
func NewRouter(cfg *config.Config, log logger.Interface) (*Router, error) {
	if cfg.Server.Mode == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := NewContainer(cfg, log)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	container.engine = engine

	r := &Router{
		container: container,
		engine:    engine,
		log:       log,
	}
	r.setupRoutes(cfg)

	return r, nil
}

func (r *Router) setupRoutes(cfg *config.Config) {
	c := r.container

	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/health", r.healthCheck)

	authLimit := middleware.RateLimit(c.rateLimiter, ratelimit.Config{
		RequestsPerMinute: 10,
		RequestsPerHour:   100,
	}, "auth", r.log)
	checkoutLimit := middleware.RateLimit(c.rateLimiter, ratelimit.Config{
		RequestsPerMinute: 5,
		RequestsPerHour:   60,
	}, "checkout", r.log)

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: c.authHandler,
		RateLimit:   authLimit,
	})
	routes.SetupCatalogRoutes(r.engine, &routes.CatalogRouteConfig{
		SubjectHandler:    c.subjectHandler,
		CourseCardHandler: c.cardHandler,
		VideoHandler:      c.videoHandler,
		AuthMiddleware:    c.authMiddleware,
	})
	routes.SetupPurchaseRoutes(r.engine, &routes.PurchaseRouteConfig{
		PurchaseHandler: c.purchaseHandler,
		AuthMiddleware:  c.authMiddleware,
		RateLimit:       checkoutLimit,
	})
	routes.SetupLibraryRoutes(r.engine, &routes.LibraryRouteConfig{
		LibraryHandler: c.libraryHandler,
		PlayHandler:    c.playHandler,
		WSHandler:      c.wsHandler,
		AuthMiddleware: c.authMiddleware,
	})
}

func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
}

// Run starts the background services and serves HTTP until ctx is cancelled,
// then drains in-flight requests.
func (r *Router) Run(ctx context.Context) error {
	r.container.Start()

	r.server = &http.Server{
		Addr:              r.container.cfg.Server.GetAddr(),
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Infow("http server listening", "addr", r.server.Addr)
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := r.server.Shutdown(shutdownCtx); err != nil {
		r.log.Warnw("http server shutdown failed", "error", err)
	}

	return r.container.Shutdown(shutdownCtx)
}
