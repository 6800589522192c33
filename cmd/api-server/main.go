package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lexledger/lexledger-api/api/swagger"
	"github.com/lexledger/lexledger-api/internal/handler"
	internalmiddleware "github.com/lexledger/lexledger-api/internal/middleware"
	"github.com/lexledger/lexledger-api/internal/repository"
	"github.com/lexledger/lexledger-api/internal/service"
	rediscache "github.com/lexledger/lexledger-api/pkg/cache"
	"github.com/lexledger/lexledger-api/pkg/config"
	"github.com/lexledger/lexledger-api/pkg/database"
	"github.com/lexledger/lexledger-api/pkg/logger"
	corsmiddleware "github.com/lexledger/lexledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lexledger/lexledger-api/pkg/middleware/requestid"
)

// @title Lex & Ledger API
// @version 1.0.0
// @description Backend for the Lex & Ledger small business services site
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient)
	}

	accountRepo := repository.NewAccountRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bundleRepo := repository.NewBundleRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(accountRepo, nil, logr, service.AuthConfig{
		TokenSecret:      cfg.JWT.Secret,
		TokenExpiry:      cfg.JWT.Expiration,
		Issuer:           cfg.JWT.Issuer,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}).WithMetrics(metricsSvc)
	catalogCfg := service.CatalogConfig{
		CacheEnabled: cfg.Catalog.CacheEnabled && cacheRepo != nil,
		CacheTTL:     cfg.Catalog.CacheTTL,
	}

	var (
		catalogSvc *service.CatalogService
		bundleSvc  *service.BundleService
	)
	if cacheRepo != nil {
		catalogSvc = service.NewCatalogService(serviceRepo, cacheRepo, nil, logr, catalogCfg).WithMetrics(metricsSvc)
		bundleSvc = service.NewBundleService(bundleRepo, cacheRepo, nil, logr, catalogCfg).WithMetrics(metricsSvc)
	} else {
		catalogSvc = service.NewCatalogService(serviceRepo, nil, nil, logr, catalogCfg).WithMetrics(metricsSvc)
		bundleSvc = service.NewBundleService(bundleRepo, nil, nil, logr, catalogCfg).WithMetrics(metricsSvc)
	}
	dashboardSvc := service.NewDashboardService(serviceRepo, bundleRepo, logr)
	exportSvc := service.NewExportService(serviceRepo, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, exportSvc)
	bundleHandler := handler.NewBundleHandler(bundleSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", internalmiddleware.JWT(authSvc), authHandler.Me)
	auth.POST("/logout", internalmiddleware.JWT(authSvc), authHandler.Logout)

	adminOnly := []gin.HandlerFunc{internalmiddleware.JWT(authSvc), internalmiddleware.RequireAdmin()}

	services := api.Group("/services")
	services.GET("", catalogHandler.List)
	services.GET("/categories", catalogHandler.Categories)
	services.GET("/export", append(adminOnly, catalogHandler.Export)...)
	services.GET("/:id", catalogHandler.Get)
	services.GET("/:id/form", append(adminOnly, catalogHandler.GetForm)...)
	services.POST("", append(adminOnly, catalogHandler.Create)...)
	services.POST("/bulk", append(adminOnly, catalogHandler.Bulk)...)
	services.PUT("/:id", append(adminOnly, catalogHandler.Update)...)
	services.DELETE("/:id", append(adminOnly, catalogHandler.Delete)...)

	bundles := api.Group("/bundles")
	bundles.GET("", bundleHandler.List)
	bundles.GET("/:id", bundleHandler.Get)
	bundles.GET("/:id/form", append(adminOnly, bundleHandler.GetForm)...)
	bundles.POST("", append(adminOnly, bundleHandler.Create)...)
	bundles.PUT("/:id", append(adminOnly, bundleHandler.Update)...)
	bundles.DELETE("/:id", append(adminOnly, bundleHandler.Delete)...)

	api.GET("/dashboard", append(adminOnly, dashboardHandler.Stats)...)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
