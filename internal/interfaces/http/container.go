package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogUsecases "kuppi/internal/application/catalog/usecases"
	progressUsecases "kuppi/internal/application/progress/usecases"
	"kuppi/internal/application/projection"
	"kuppi/internal/application/purchase/paymentgateway"
	purchaseUsecases "kuppi/internal/application/purchase/usecases"
	userUsecases "kuppi/internal/application/user/usecases"
	"kuppi/internal/infrastructure/auth"
	"kuppi/internal/infrastructure/cache"
	"kuppi/internal/infrastructure/config"
	"kuppi/internal/infrastructure/database"
	"kuppi/internal/infrastructure/email"
	"kuppi/internal/infrastructure/pubsub"
	"kuppi/internal/infrastructure/ratelimit"
	"kuppi/internal/infrastructure/repository"
	"kuppi/internal/infrastructure/scheduler"
	"kuppi/internal/interfaces/http/handlers"
	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/interfaces/ws"
	"kuppi/internal/shared/db"
	"kuppi/internal/shared/logger"
)

// Container wires infrastructure, repositories, use cases, and handlers,
// and owns the lifecycle of the background services.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
	cfg    *config.Config
	log    logger.Interface

	hub              *ws.Hub
	projector        *projection.Projector
	projectorCancel  context.CancelFunc
	schedulerManager *scheduler.SchedulerManager

	authMiddleware *middleware.AuthMiddleware

	authHandler     *handlers.AuthHandler
	subjectHandler  *handlers.SubjectHandler
	cardHandler     *handlers.CourseCardHandler
	videoHandler    *handlers.VideoHandler
	purchaseHandler *handlers.PurchaseHandler
	playHandler     *handlers.PlayHandler
	libraryHandler  *handlers.LibraryHandler
	wsHandler       *handlers.WSHandler

	rateLimiter ratelimit.RateLimiter
}

// NewContainer builds the full dependency graph from configuration.
func NewContainer(cfg *config.Config, log logger.Interface) (*Container, error) {
	if database.Get() == nil {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	gormDB := database.Get()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	c := &Container{
		db:    gormDB,
		redis: redisClient,
		cfg:   cfg,
		log:   log,
	}
	c.wire()

	return c, nil
}

func (c *Container) wire() {
	cfg := c.cfg
	log := c.log

	// Repositories
	userRepo := repository.NewUserRepository(c.db, log)
	subjectRepo := repository.NewSubjectRepository(c.db, log)
	cardRepo := repository.NewCourseCardRepository(c.db, log)
	videoRepo := repository.NewVideoRepository(c.db, log)
	progressRepo := repository.NewUserProgressRepository(c.db, log)
	purchaseRepo := repository.NewPurchaseRepository(c.db, log)

	txManager := db.NewTransactionManager(c.db)

	// Shared infrastructure services
	eventBus := pubsub.NewRedisChangeEventBus(c.redis, log)
	entitlementCache := cache.NewRedisEntitlementCache(c.redis, log)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)
	gateway := paymentgateway.NewPayHereGateway(cfg.Payment, log)
	c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)

	// User use cases
	registerUC := userUsecases.NewRegisterUseCase(userRepo, hasher, cfg.Auth.BootstrapAdminEmail, log)
	loginUC := userUsecases.NewLoginUseCase(userRepo, hasher, jwtSvc, log)
	refreshTokenUC := userUsecases.NewRefreshTokenUseCase(jwtSvc, log)

	// Catalog use cases
	createSubjectUC := catalogUsecases.NewCreateSubjectUseCase(subjectRepo, eventBus, log)
	updateSubjectUC := catalogUsecases.NewUpdateSubjectUseCase(subjectRepo, eventBus, log)
	deleteSubjectUC := catalogUsecases.NewDeleteSubjectUseCase(subjectRepo, cardRepo, videoRepo, progressRepo, purchaseRepo, txManager, eventBus, log)
	listSubjectsUC := catalogUsecases.NewListSubjectsUseCase(subjectRepo, log)
	createCardUC := catalogUsecases.NewCreateCourseCardUseCase(subjectRepo, cardRepo, eventBus, log)
	updateCardUC := catalogUsecases.NewUpdateCourseCardUseCase(cardRepo, eventBus, log)
	deleteCardUC := catalogUsecases.NewDeleteCourseCardUseCase(cardRepo, videoRepo, progressRepo, purchaseRepo, txManager, eventBus, log)
	listCardsUC := catalogUsecases.NewListCourseCardsUseCase(subjectRepo, cardRepo, videoRepo, log)
	getCardUC := catalogUsecases.NewGetCourseCardUseCase(subjectRepo, cardRepo, videoRepo, log)
	createVideoUC := catalogUsecases.NewCreateVideoUseCase(cardRepo, videoRepo, eventBus, log)
	updateVideoUC := catalogUsecases.NewUpdateVideoUseCase(videoRepo, eventBus, log)
	deleteVideoUC := catalogUsecases.NewDeleteVideoUseCase(videoRepo, progressRepo, txManager, eventBus, log)

	// Purchase use cases
	pendingTTL := time.Duration(cfg.Payment.PendingExpiryHours) * time.Hour
	initiateCheckoutUC := purchaseUsecases.NewInitiateCheckoutUseCase(purchaseRepo, cardRepo, userRepo, gateway, pendingTTL, log)
	handleCallbackUC := purchaseUsecases.NewHandlePaymentCallbackUseCase(purchaseRepo, cardRepo, userRepo, gateway, entitlementCache, eventBus, log)
	reconcileUC := purchaseUsecases.NewReconcileRedirectUseCase(purchaseRepo, cardRepo, log)
	dismissCheckoutUC := purchaseUsecases.NewDismissCheckoutUseCase(purchaseRepo, log)
	listPurchasesUC := purchaseUsecases.NewListPurchasesUseCase(purchaseRepo, cardRepo, log)
	expirePurchasesUC := purchaseUsecases.NewExpirePurchasesUseCase(purchaseRepo, log)

	if cfg.Email.Enabled {
		handleCallbackUC.SetReceiptNotifier(email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		}))
	} else {
		handleCallbackUC.SetReceiptNotifier(email.NewNoopEmailService())
	}

	// Progress and projection
	recordPlayUC := progressUsecases.NewRecordPlayUseCase(videoRepo, cardRepo, progressRepo, purchaseRepo, entitlementCache, eventBus, log)
	libraryBuilder := projection.NewLibraryViewBuilder(subjectRepo, cardRepo, videoRepo, progressRepo, purchaseRepo, entitlementCache, log)

	c.hub = ws.NewHub(log)
	c.projector = projection.NewProjector(eventBus, libraryBuilder, c.hub, log)

	// Background jobs
	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Errorw("failed to create scheduler, expiry sweeps disabled", "error", err)
	} else {
		if err := schedulerManager.RegisterPurchaseJobs(expirePurchasesUC); err != nil {
			log.Errorw("failed to register purchase jobs", "error", err)
		}
		c.schedulerManager = schedulerManager
	}

	// Handlers and middleware
	c.authMiddleware = middleware.NewAuthMiddleware(jwtSvc, userRepo, log)
	c.authHandler = handlers.NewAuthHandler(registerUC, loginUC, refreshTokenUC)
	c.subjectHandler = handlers.NewSubjectHandler(createSubjectUC, updateSubjectUC, deleteSubjectUC, listSubjectsUC)
	c.cardHandler = handlers.NewCourseCardHandler(createCardUC, updateCardUC, deleteCardUC, listCardsUC, getCardUC)
	c.videoHandler = handlers.NewVideoHandler(createVideoUC, updateVideoUC, deleteVideoUC)
	c.purchaseHandler = handlers.NewPurchaseHandler(initiateCheckoutUC, handleCallbackUC, reconcileUC, dismissCheckoutUC, listPurchasesUC)
	c.playHandler = handlers.NewPlayHandler(recordPlayUC)
	c.libraryHandler = handlers.NewLibraryHandler(libraryBuilder)
	c.wsHandler = handlers.NewWSHandler(c.hub, cfg.Server.AllowedOrigins)
}

// Start launches the background services: the live view projector and the
// pending purchase expiry sweeper.
func (c *Container) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.projectorCancel = cancel
	c.projector.Start(ctx)

	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background services and closes connections.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.projectorCancel != nil {
		c.projectorCancel()
	}

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("scheduler shutdown failed", "error", err)
		}
	}

	if err := c.redis.Close(); err != nil {
		c.log.Warnw("redis close failed", "error", err)
	}

	return database.Close()
}
