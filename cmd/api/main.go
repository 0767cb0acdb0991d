package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/cache"
	"github.com/bayuahr/storefront-admin/internal/config"
	"github.com/bayuahr/storefront-admin/internal/database"
	"github.com/bayuahr/storefront-admin/internal/handler"
	"github.com/bayuahr/storefront-admin/internal/middleware"
	"github.com/bayuahr/storefront-admin/internal/repository"
	"github.com/bayuahr/storefront-admin/internal/service"
	"github.com/bayuahr/storefront-admin/internal/utils"
	"github.com/bayuahr/storefront-admin/internal/worker"
)

// main is the application entrypoint for the storefront admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storefront admin api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize catalog row cache
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL)

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	trxRepo := repository.NewTransactionRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Initialize S3 service for banner images
	s3Svc, err := service.NewS3Service(&cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("S3 service initialization failed")
		fmt.Fprintf(os.Stderr, "S3 service initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 6. Initialize services
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	bannerSvc := service.NewBannerService(bannerRepo, s3Svc)
	trxSvc := service.NewTransactionService(trxRepo)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        handler.NewAuthHandler(adminAuthSvc),
		Catalog:     handler.NewCatalogHandler(catalogSvc),
		Banner:      handler.NewBannerHandler(bannerSvc),
		Transaction: handler.NewTransactionHandler(trxSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewBannerSweepWorker(bannerRepo, cfg.Worker.BannerSweepInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	Banner      *handler.BannerHandler
	Transaction *handler.TransactionHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Product catalog
		admin.GET("/products", handlers.Catalog.ListProducts)
		admin.POST("/products/import", handlers.Catalog.ImportProducts)
		admin.GET("/products/export", handlers.Catalog.ExportProducts)
		admin.DELETE("/products", handlers.Catalog.DeleteAllProducts)

		// Banners
		admin.GET("/banners", handlers.Banner.ListBanners)
		admin.POST("/banners", handlers.Banner.CreateBanner)
		admin.GET("/banners/export", handlers.Banner.ExportBanners)
		admin.DELETE("/banners/:id", handlers.Banner.DeleteBanner)
		admin.DELETE("/banners", handlers.Banner.DeleteAllBanners)

		// Transaction history (read-only)
		admin.GET("/transactions", handlers.Transaction.ListTransactions)
		admin.GET("/transactions/export", handlers.Transaction.ExportTransactions)
		admin.GET("/transactions/:id", handlers.Transaction.GetTransaction)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
