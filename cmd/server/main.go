package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/atelier/backend/internal/application/catalog"
	partnerapp "github.com/atelier/backend/internal/application/partner"
	productionapp "github.com/atelier/backend/internal/application/production"
	"github.com/atelier/backend/internal/infrastructure/cache"
	"github.com/atelier/backend/internal/infrastructure/config"
	"github.com/atelier/backend/internal/infrastructure/logger"
	"github.com/atelier/backend/internal/infrastructure/persistence"
	"github.com/atelier/backend/internal/interfaces/http/handler"
	"github.com/atelier/backend/internal/interfaces/http/middleware"
	"github.com/atelier/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

	log.Info("Starting Atelier Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Stock summary cache (optional; the service degrades to DB reads
	// when the cache is unavailable)
	var summaryCache productionapp.StockSummaryCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisStockSummaryCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.StockSummaryTTL)
		if err != nil {
			log.Warn("Redis unavailable, stock summary cache disabled", zap.Error(err))
		} else {
			summaryCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Error("Error closing Redis client", zap.Error(err))
				}
			}()
			log.Info("Stock summary cache enabled", zap.Duration("ttl", cfg.Cache.StockSummaryTTL))
		}
	}

	// Repositories and transaction scope
	productRepo := persistence.NewGormProductRepository(db.DB)
	workshopRepo := persistence.NewGormWorkshopRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	workshopService := partnerapp.NewWorkshopService(workshopRepo)
	orderService := productionapp.NewOrderService(txScope, summaryCache, log)
	stockService := productionapp.NewStockService(txScope, summaryCache, log)
	settlementService := productionapp.NewSettlementService(txScope, log)

	// Handlers
	systemHandler := handler.NewSystemHandler()
	productHandler := handler.NewProductHandler(productService)
	workshopHandler := handler.NewWorkshopHandler(workshopService)
	orderHandler := handler.NewOrderHandler(orderService)
	stockHandler := handler.NewStockHandler(stockService)
	settlementHandler := handler.NewSettlementHandler(settlementService)

	// Custom binding validators
	if err := middleware.RegisterCustomValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/healthz", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	catalogRoutes := router.NewDomainGroup("catalog", "/products")
	catalogRoutes.POST("", productHandler.Create)
	catalogRoutes.GET("", productHandler.List)
	catalogRoutes.GET("/:id", productHandler.GetByID)
	catalogRoutes.GET("/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/:id", productHandler.Update)
	catalogRoutes.POST("/:id/sizes", productHandler.AddSize)
	catalogRoutes.PATCH("/:id/activate", productHandler.Activate)
	catalogRoutes.PATCH("/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.DELETE("/:id", productHandler.Delete)

	partnerRoutes := router.NewDomainGroup("partner", "/workshops")
	partnerRoutes.POST("", workshopHandler.Create)
	partnerRoutes.GET("", workshopHandler.List)
	partnerRoutes.GET("/:id", workshopHandler.GetByID)
	partnerRoutes.PUT("/:id", workshopHandler.Update)
	partnerRoutes.PATCH("/:id/activate", workshopHandler.Activate)
	partnerRoutes.PATCH("/:id/deactivate", workshopHandler.Deactivate)
	partnerRoutes.PATCH("/:id/block", workshopHandler.Block)
	partnerRoutes.DELETE("/:id", workshopHandler.Delete)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PATCH("/:id/return", orderHandler.Return)
	orderRoutes.PATCH("/:id/reopen", orderHandler.Reopen)
	orderRoutes.DELETE("/:id", orderHandler.Delete)
	orderRoutes.GET("/:id/settlements", settlementHandler.ListByOrder)

	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("", stockHandler.List)
	stockRoutes.GET("/summary", stockHandler.Summary)

	settlementRoutes := router.NewDomainGroup("settlements", "/settlements")
	settlementRoutes.GET("", settlementHandler.ListByPeriod)
	settlementRoutes.PATCH("/:id/pay", settlementHandler.Pay)

	r.Register(systemRoutes)
	r.Register(catalogRoutes)
	r.Register(partnerRoutes)
	r.Register(orderRoutes)
	r.Register(stockRoutes)
	r.Register(settlementRoutes)
	r.Setup()

	// HTTP server with graceful shutdown
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for the health check endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
