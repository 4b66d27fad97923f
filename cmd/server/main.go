package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/lats/backend/docs"
	backupapp "github.com/lats/backend/internal/application/backup"
	closingapp "github.com/lats/backend/internal/application/closing"
	customerapp "github.com/lats/backend/internal/application/customer"
	identityapp "github.com/lats/backend/internal/application/identity"
	inventoryapp "github.com/lats/backend/internal/application/inventory"
	repairapp "github.com/lats/backend/internal/application/repair"
	salesapp "github.com/lats/backend/internal/application/sales"
	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/infrastructure/auth"
	"github.com/lats/backend/internal/infrastructure/cache"
	"github.com/lats/backend/internal/infrastructure/config"
	"github.com/lats/backend/internal/infrastructure/event"
	"github.com/lats/backend/internal/infrastructure/greenapi"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/persistence"
	"github.com/lats/backend/internal/infrastructure/printing"
	"github.com/lats/backend/internal/infrastructure/scheduler"
	"github.com/lats/backend/internal/infrastructure/storage"
	"github.com/lats/backend/internal/infrastructure/telemetry"
	"github.com/lats/backend/internal/interfaces/http/handler"
	"github.com/lats/backend/internal/interfaces/http/middleware"
	"github.com/lats/backend/internal/interfaces/http/router"
)

const version = "1.4.0"

//	@title			LATS Backend API
//	@version		1.0
//	@description	Point of sale, repair shop and WhatsApp messaging backend for LATS shops.

//	@contact.name	LATS Support
//	@contact.email	support@lats.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		log = logger.Tee(log, providers.Logs.ZapCore(log.Level()))
	}

	log.Info("Starting LATS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	prom := telemetry.NewPrometheus("lats")
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := prom.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register pool metrics", zap.Error(err))
		}
	}
	business, err := telemetry.NewBusinessMetrics(providers.Meter.Meter("lats/business"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	stores, err := cache.NewStores(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	backupStores, err := storage.NewStores(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize backup storage", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	sparePartRepo := persistence.NewGormSparePartRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	closureRepo := persistence.NewGormClosureRepository(db.DB)
	passcodeRepo := persistence.NewGormPasscodeRepository(db.DB)
	repairRepo := persistence.NewGormRepairPartRepository(db.DB)
	instanceRepo := persistence.NewGormInstanceRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	queueRepo := persistence.NewGormQueueRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	webhookEventRepo := persistence.NewGormWebhookEventRepository(db.DB)
	backupRecordRepo := persistence.NewGormBackupRecordRepository(db.DB)
	backupSettingsRepo := persistence.NewGormBackupSettingsRepository(db.DB)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())

	// Shop services
	loc := cfg.App.Location()
	customerService := customerapp.NewCustomerService(customerRepo, log)
	customerService.SetEventPublisher(eventBus)
	inventoryService := inventoryapp.NewInventoryService(productRepo, sparePartRepo, movementRepo, log)

	saleService := salesapp.NewSaleService(saleRepo, receiptRepo, productRepo, customerRepo, closureRepo, salesapp.Options{
		Location: loc,
		TaxRate:  decimal.NewFromFloat(cfg.App.TaxRate),
	}, log)
	saleService.SetEventPublisher(eventBus)
	saleService.SetMetrics(business, prom)

	var pdf printing.PDFRenderer
	if cfg.Printing.PDFEnabled {
		chrome := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			ExecPath:       cfg.Printing.ChromeExecPath,
			NoSandbox:      true,
			Logger:         log,
		})
		defer chrome.Close()
		pdf = chrome
	}
	receipts, err := printing.NewReceiptRenderer(printing.Shop{
		Name:    cfg.Printing.ShopName,
		Address: cfg.Printing.ShopAddress,
		Phone:   cfg.Printing.ShopPhone,
		Footer:  cfg.Printing.ReceiptFooter,
	}, cfg.App.Currency, loc, pdf)
	if err != nil {
		log.Fatal("Failed to load receipt layout", zap.Error(err))
	}
	saleService.SetReceiptRenderer(receipts)

	closingService := closingapp.NewClosingService(saleRepo, closureRepo, passcodeRepo, stores.Attempts, closingapp.Options{
		Location:    loc,
		MaxAttempts: cfg.Closing.MaxAttempts,
		Lockout:     cfg.Closing.Lockout,
	}, log)
	closingService.SetEventPublisher(eventBus)
	closingService.SetMetrics(business)

	repairService := repairapp.NewRepairService(repairRepo, sparePartRepo, log)
	repairService.SetEventPublisher(eventBus)

	// WhatsApp
	provider := greenapi.NewClient(cfg.WhatsApp.HTTPTimeout, greenapi.WithLogger(log))
	instanceService := whatsappapp.NewInstanceService(instanceRepo, provider, cfg.WhatsApp.DefaultHost, log)
	templateService := whatsappapp.NewTemplateService(templateRepo, log)
	chatViews := whatsappapp.NewChatViews(stores.ChatCache)
	messageService := whatsappapp.NewMessageService(messageRepo, queueRepo, chatViews, instanceService, templateService,
		whatsappapp.MessageOptions{
			CountryCode:  cfg.App.CountryCode,
			PollLookback: cfg.WhatsApp.PollLookback,
			ChatCacheTTL: cfg.WhatsApp.ChatCacheTTL,
			HistoryLimit: cfg.WhatsApp.ChatHistoryLimit,
		}, log)
	queueProcessor := whatsappapp.NewQueueProcessor(queueRepo, messageRepo, instanceRepo, campaignRepo, provider, chatViews,
		whatsappapp.QueueOptions{
			BatchSize: cfg.WhatsApp.QueueBatchSize,
			SendGap:   cfg.WhatsApp.SendGap,
		}, log)
	queueProcessor.SetEventPublisher(eventBus)
	queueProcessor.SetMetrics(prom)
	campaignService := whatsappapp.NewCampaignService(campaignRepo, templateRepo, messageRepo, queueRepo, instanceService, cfg.App.CountryCode, log)
	campaignService.SetEventPublisher(eventBus)
	webhookService := whatsappapp.NewWebhookService(webhookEventRepo, instanceRepo, messageRepo, chatViews, log)
	webhookService.SetIdempotencyStore(stores.Idempotency)
	webhookService.SetSharedToken(cfg.WhatsApp.WebhookToken)

	// Backups
	backupService := backupapp.NewBackupService(backupRecordRepo, backupSettingsRepo, persistence.NewGormDumper(db.DB),
		backupStores.Primary, backupStores.Cloud, backupapp.Options{
			StaleAfter:     cfg.Backup.StaleAfter,
			RestoreEnabled: cfg.Backup.RestoreEnabled,
			Location:       loc,
		}, log)
	backupService.SetMetrics(prom)

	// Cross-context handlers
	saleStock := inventoryapp.NewSaleStockHandler(productRepo, log)
	eventBus.Subscribe(saleStock, saleStock.EventTypes()...)
	receiptHandler := salesapp.NewReceiptHandler(saleRepo, receiptRepo, log)
	eventBus.Subscribe(receiptHandler, receiptHandler.EventTypes()...)
	purchaseStats := customerapp.NewPurchaseStatsHandler(customerRepo, log)
	eventBus.Subscribe(purchaseStats, purchaseStats.EventTypes()...)
	if cfg.WhatsApp.NotificationsEnabled {
		thankYou := whatsappapp.NewThankYouHandler(messageService, cfg.WhatsApp.ThankYouTemplate, cfg.App.Currency, log)
		eventBus.Subscribe(thankYou, thankYou.EventTypes()...)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Background workers
	var workers []interface {
		Stop(ctx context.Context) error
	}
	if cfg.Scheduler.Enabled {
		mux := scheduler.NewMux()
		backupService.Register(mux)
		sched := scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			QueueSize:         cfg.Scheduler.MaxConcurrentJobs * 10,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, mux, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		backupTrigger := scheduler.NewCronTrigger(cfg.Backup.CheckInterval, backupService, sched, log)
		if err := backupTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start backup trigger", zap.Error(err))
		}
		queueTicker := scheduler.NewTicker("whatsapp-queue", cfg.WhatsApp.QueueInterval, func(ctx context.Context) error {
			_, err := queueProcessor.ProcessQueue(ctx)
			return err
		}, log)
		if err := queueTicker.Start(ctx); err != nil {
			log.Fatal("Failed to start queue ticker", zap.Error(err))
		}
		// Stopped in reverse: triggers before the pool they feed
		workers = append(workers, queueTicker, backupTrigger, sched)
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = providers.Profiler.IsEnabled()

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log, "/health", cfg.Metrics.Path),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAttributes(),
		middleware.HTTPMetrics(prom, cfg.Metrics.Path, "/health"),
		middleware.CORSWithConfig(cors),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize, "/api/v1/backups/restore"),
		middleware.ProfilingWithConfig(profiling),
	)
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	probes := []handler.Probe{{
		Name: "backup_storage",
		Ping: backupStores.Primary.Ping,
	}}
	if stores.Client != nil {
		probes = append(probes, handler.Probe{
			Name: "redis",
			Ping: func(ctx context.Context) error { return stores.Client.Ping(ctx).Err() },
		})
	}
	systemHandler := handler.NewSystemHandler(version, db, probes...)
	engine.GET("/health", systemHandler.Health)

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(prom.Handler()))
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{Enabled: true, AllowedIPs: cfg.Swagger.AllowedIPs}),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	requireAuth := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	r := router.NewRouter(engine, router.WithLogger(log))
	router.RegisterAPI(r, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customer:  handler.NewCustomerHandler(customerService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Sales:     handler.NewSalesHandler(saleService),
		Closing:   handler.NewClosingHandler(closingService),
		Repair:    handler.NewRepairHandler(repairService),
		WhatsApp:  handler.NewWhatsAppHandler(instanceService, messageService, queueProcessor),
		Template:  handler.NewTemplateHandler(templateService, campaignService),
		Webhook:   handler.NewWebhookHandler(webhookService),
		Backup:    handler.NewBackupHandler(backupService),
		System:    systemHandler,
	}, requireAuth)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, w := range workers {
		if err := w.Stop(shutdownCtx); err != nil {
			log.Warn("Worker did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
