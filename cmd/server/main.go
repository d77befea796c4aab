package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recgames/backend/internal/account"
	"recgames/backend/internal/catalog"
	"recgames/backend/internal/config"
	"recgames/backend/internal/database"
	"recgames/backend/internal/handler"
	"recgames/backend/internal/hub"
	"recgames/backend/internal/middleware"
	"recgames/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Swagger imports
	_ "recgames/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           RecGames API
// @version         1.0
// @description     Game catalog with collections, favorites and tag based recommendations.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, envFile, err := config.LoadConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init("recgames-backend", cfg.LogLevel, cfg.LogPretty)
	if !envFile {
		logger.Logger.Info().Msg("no .env file found, using environment variables")
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns:  cfg.DBMaxOpenConns,
		MaxIdleConns:  cfg.DBMaxIdleConns,
		SlowThreshold: cfg.SlowQueryThreshold(),
		Logger:        logger.Logger,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	events := hub.NewHub()
	catalogSvc, err := catalog.NewService(db, catalog.WithEvents(events))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to build catalog service")
	}
	h := handler.New(catalogSvc, account.NewService(db), events, handler.Options{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL(),
	})

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(logger.Logger), middleware.Logger(), middleware.Metrics())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoints
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("addr", cfg.HTTPAddr).Msg("server is running")
		logger.Logger.Info().Msgf("Swagger UI is available at http://localhost%s/swagger/index.html", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Logger.Info().Msg("shutting down")

	// Event streams never finish on their own.
	events.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("forced shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
