package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/jewelerp/backend/internal/application/billing"
	catalogapp "github.com/jewelerp/backend/internal/application/catalog"
	gstapp "github.com/jewelerp/backend/internal/application/gst"
	partnerapp "github.com/jewelerp/backend/internal/application/partner"
	pricingapp "github.com/jewelerp/backend/internal/application/pricing"
	purchasingapp "github.com/jewelerp/backend/internal/application/purchasing"
	"github.com/jewelerp/backend/internal/infrastructure/auth"
	"github.com/jewelerp/backend/internal/infrastructure/cache"
	"github.com/jewelerp/backend/internal/infrastructure/config"
	"github.com/jewelerp/backend/internal/infrastructure/logger"
	"github.com/jewelerp/backend/internal/infrastructure/persistence"
	"github.com/jewelerp/backend/internal/infrastructure/persistence/tenant"
	"github.com/jewelerp/backend/internal/infrastructure/storage"
	"github.com/jewelerp/backend/internal/infrastructure/telemetry"
	"github.com/jewelerp/backend/internal/interfaces/http/handler"
	"github.com/jewelerp/backend/internal/interfaces/http/middleware"
	"github.com/jewelerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/jewelerp/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Jewellery ERP API
//	@version		1.0
//	@description	Tax and pricing backend for gold jewellery retail: karat pricing, GST invoicing, returns and reconciliation

//	@contact.name	API Support
//	@contact.email	support@jewelerp.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Jewellery ERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("seller_state_code", cfg.GST.SellerStateCode),
	)

	// Telemetry providers (no-op when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridgeLevel, parseErr := zapcore.ParseLevel(cfg.Log.Level)
		if parseErr != nil {
			bridgeLevel = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			Level:          bridgeLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddStacktrace(zapcore.ErrorLevel))
		log.Info("Log export to collector enabled")
	}

	// Continuous profiling via Pyroscope
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Profiler.ApplicationName,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Tenant guard: queries carrying a tenant in the request context get a
	// tenant_id filter added unless the repository already applied one
	tenant.EnableAutoTenantFilter(db.DB, false)

	// Database observability plugins
	if cfg.Telemetry.Enabled {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("jewelerp/db"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to install database metrics plugin", zap.Error(err))
		}

		if cfg.Telemetry.DBTraceEnabled {
			tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := db.DB.Use(tracingPlugin); err != nil {
				log.Warn("Failed to install database tracing plugin", zap.Error(err))
			}
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	karatPricingRepo := persistence.NewGormKaratPricingRepository(db.DB)
	goldRateRepo := persistence.NewGormGoldRateRepository(db.DB)
	gstr2aRepo := persistence.NewGormGSTR2ARepository(db.DB)
	gstr2bRepo := persistence.NewGormGSTR2BRepository(db.DB)

	// Rate board cache: Redis with in-memory fallback outside production
	cacheFactory := cache.NewRateBoardCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	rateBoardCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create rate board cache", zap.Error(err))
	}

	// Statement archive: optional, S3-backed. GST imports work without it,
	// they just skip the raw payload copy.
	var statementArchive gstapp.StatementArchive
	if cfg.Storage.Bucket != "" {
		archive, err := storage.NewS3StatementArchive(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize statement archive", zap.Error(err))
		}
		statementArchive = archive
		log.Info("Statement archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	karatPricingService := pricingapp.NewKaratPricingService(karatPricingRepo, goldRateRepo, productRepo, log)
	goldRateService := pricingapp.NewGoldRateService(goldRateRepo, rateBoardCache, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, productRepo, cfg.GST.SellerStateCode, log)
	purchaseOrderService := purchasingapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, log)
	gstService, err := gstapp.NewGSTService(
		invoiceRepo,
		purchaseOrderRepo,
		gstr2aRepo,
		gstr2bRepo,
		statementArchive,
		cfg.GST.NetTaxPolicy,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize GST service", zap.Error(err))
	}

	// JWT validation (tokens are issued by the central identity service)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Business metrics with periodic rate board gauge collection
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:             meterProvider.Meter("jewelerp/business"),
		Logger:            log,
		RateBoardProvider: telemetry.NewGormRateBoardMetricsProvider(db.DB),
	})
	if err != nil {
		log.Warn("Failed to create business metrics", zap.Error(err))
	} else {
		businessMetrics.StartPeriodicCollection(ctx, telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
		defer businessMetrics.Stop()
		invoiceService.SetMetricsRecorder(businessMetrics)
		gstService.SetMetricsRecorder(businessMetrics)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	karatPricingHandler := handler.NewKaratPricingHandler(karatPricingService)
	goldRateHandler := handler.NewGoldRateHandler(goldRateService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	gstHandler := handler.NewGSTHandler(gstService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit, generous because portal statement exports run large
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	if cfg.Redis.Host != "" {
		blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Token blacklist unavailable, revocation checks disabled", zap.Error(err))
		} else {
			jwtConfig.TokenBlacklist = blacklist
		}
	}
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware)
	// Propagate the tenant from the JWT claims into the request context so
	// query logging and the tenant-scoped GORM callbacks can see it
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		JWTEnabled: true,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Required: false,
		Logger:   log,
	}))

	// Catalog domain (jewellery products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.POST("/products/:id/stock", productHandler.AdjustStock)
	catalogRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)

	// Partner domain (customers, suppliers)
	partnerRoutes := router.NewDomainGroup("partners", "/partners")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.GET("/customers/gstin/:gstin", customerHandler.GetByGSTIN)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.GET("/suppliers/gstin/:gstin", supplierHandler.GetByGSTIN)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	partnerRoutes.DELETE("/suppliers/:id", supplierHandler.Delete)
	partnerRoutes.POST("/suppliers/:id/activate", supplierHandler.Activate)
	partnerRoutes.POST("/suppliers/:id/block", supplierHandler.Block)

	// Pricing domain (karat pricing, quotes)
	pricingRoutes := router.NewDomainGroup("pricing", "/pricing")
	pricingRoutes.PUT("/karats", karatPricingHandler.Upsert)
	pricingRoutes.GET("/karats", karatPricingHandler.List)
	pricingRoutes.POST("/karats/initialize", karatPricingHandler.InitializeDefaults)
	pricingRoutes.POST("/karats/apply-to-products", karatPricingHandler.ApplyToProducts)
	pricingRoutes.GET("/karats/:karat", karatPricingHandler.GetByKarat)
	pricingRoutes.DELETE("/karats/:karat", karatPricingHandler.Delete)
	pricingRoutes.POST("/quote", karatPricingHandler.Quote)

	// Gold rate board
	goldRateRoutes := router.NewDomainGroup("gold-rates", "/gold-rates")
	goldRateRoutes.POST("", goldRateHandler.Publish)
	goldRateRoutes.GET("/board", goldRateHandler.Board)
	goldRateRoutes.GET("/:karat/history", goldRateHandler.History)

	// Billing domain (sales invoices)
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/summary", invoiceHandler.SalesSummary)
	invoiceRoutes.GET("/by-number/:number", invoiceHandler.GetByNumber)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.POST("/:id/finalize", invoiceHandler.Finalize)
	invoiceRoutes.POST("/:id/pay", invoiceHandler.MarkPaid)
	invoiceRoutes.POST("/:id/cancel", invoiceHandler.Cancel)

	// Purchasing domain (purchase orders)
	purchasingRoutes := router.NewDomainGroup("purchasing", "/purchasing")
	purchasingRoutes.POST("/orders", purchaseOrderHandler.Create)
	purchasingRoutes.GET("/orders", purchaseOrderHandler.List)
	purchasingRoutes.GET("/orders/:id", purchaseOrderHandler.GetByID)
	purchasingRoutes.POST("/orders/:id/supplier-invoice", purchaseOrderHandler.RecordSupplierInvoice)
	purchasingRoutes.POST("/orders/:id/itc-eligible", purchaseOrderHandler.SetITCEligible)
	purchasingRoutes.POST("/orders/:id/receive", purchaseOrderHandler.MarkReceived)
	purchasingRoutes.POST("/orders/:id/cancel", purchaseOrderHandler.Cancel)

	// GST domain (returns, statement imports, reconciliation). Statement
	// imports rewrite a whole filing period, so they get their own
	// tighter limiter on top of the global one.
	importLimit := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.RateLimitEnabled {
		importLimit = middleware.ImportRateLimit(middleware.NewRateLimiter(10, cfg.HTTP.RateLimitWindow))
	}
	gstRoutes := router.NewDomainGroup("gst", "/gst")
	gstRoutes.GET("/returns/gstr1", gstHandler.GSTR1)
	gstRoutes.GET("/returns/gstr3b", gstHandler.GSTR3B)
	gstRoutes.GET("/returns/hsn", gstHandler.HSN)
	gstRoutes.POST("/statements/2a", importLimit, gstHandler.ImportGSTR2A)
	gstRoutes.POST("/statements/2b", importLimit, gstHandler.ImportGSTR2B)
	gstRoutes.GET("/statements/:source", gstHandler.ListStatements)
	gstRoutes.POST("/reconciliation", gstHandler.Reconcile)
	gstRoutes.GET("/itc-summary", gstHandler.ITCSummary)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(partnerRoutes).
		Register(pricingRoutes).
		Register(goldRateRoutes).
		Register(invoiceRoutes).
		Register(purchasingRoutes).
		Register(gstRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
