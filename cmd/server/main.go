package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"envel/internal/config"
	"envel/internal/database"
	"envel/internal/handlers"
	custommw "envel/internal/middleware"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db)
	envelopeRepo := repositories.NewEnvelopeRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	usedTotalRepo := repositories.NewUsedTotalRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	shareRepo := repositories.NewShareRepository(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	resolver := services.NewPeriodResolver()
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(userRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, blacklistedTokenRepo, passwordService, tokenService, logger)
	envelopeService := services.NewEnvelopeService(envelopeRepo, usedTotalRepo, shareRepo, resolver, logger)
	entryService := services.NewEntryService(entryRepo, envelopeRepo, shareRepo, logger)
	categoryService := services.NewCategoryService(categoryRepo, logger)
	sharingService := services.NewSharingService(shareRepo, envelopeRepo, userRepo, usedTotalRepo, resolver, logger)
	dashboardService := services.NewDashboardService(envelopeRepo, usedTotalRepo, entryRepo, resolver, logger)
	sampleDataService := services.NewSampleDataService(envelopeRepo, entryRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, metrics)
	envelopeHandler := handlers.NewEnvelopeHandler(envelopeService, metrics)
	entryHandler := handlers.NewEntryHandler(entryService, metrics)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	sharingHandler := handlers.NewSharingHandler(sharingService, metrics)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, metrics)
	healthHandler := handlers.NewHealthCheckHandler(db)
	devHandler := handlers.NewDevHandler(sampleDataService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommw.CustomHTTPErrorHandler

	e.Use(custommw.RequestID())
	e.Use(custommw.PanicRecovery())
	e.Use(custommw.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(custommw.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	requireAuth := custommw.RequireAuth(tokenService, blacklistedTokenRepo)
	auth.GET("/me", authHandler.Me, requireAuth)

	envelopes := api.Group("/envelopes", requireAuth)
	envelopes.POST("", envelopeHandler.CreateEnvelope)
	envelopes.GET("", envelopeHandler.GetUserEnvelopes)
	envelopes.GET("/summary", envelopeHandler.GetEnvelopesSummary)
	envelopes.GET("/:envelopeId", envelopeHandler.GetEnvelope)
	envelopes.PATCH("/:envelopeId", envelopeHandler.UpdateEnvelope)
	envelopes.DELETE("/:envelopeId", envelopeHandler.DeleteEnvelope)
	envelopes.POST("/:envelopeId/amounts", envelopeHandler.AddAmount)
	envelopes.GET("/:envelopeId/amounts", envelopeHandler.GetAmounts)
	envelopes.GET("/:envelopeId/summary", envelopeHandler.GetSummary)
	envelopes.POST("/:envelopeId/recompute", envelopeHandler.RecomputeTotals)
	envelopes.GET("/:envelopeId/shares", sharingHandler.GetEnvelopeShares)

	entries := api.Group("/entries", requireAuth)
	entries.POST("", entryHandler.CreateEntry)
	entries.GET("", entryHandler.ListEntries)
	entries.GET("/:entryId", entryHandler.GetEntry)
	entries.PATCH("/:entryId", entryHandler.UpdateEntry)
	entries.DELETE("/:entryId", entryHandler.DeleteEntry)

	categories := api.Group("/categories", requireAuth)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:categoryId", categoryHandler.GetCategory)
	categories.PATCH("/:categoryId", categoryHandler.UpdateCategory)
	categories.DELETE("/:categoryId", categoryHandler.DeleteCategory)

	shares := api.Group("/shares", requireAuth)
	shares.POST("", sharingHandler.InviteUser)
	shares.GET("/incoming", sharingHandler.GetIncomingRequests)
	shares.GET("/outgoing", sharingHandler.GetOutgoingRequests)
	shares.GET("/envelopes", sharingHandler.GetSharedEnvelopes)
	shares.GET("/envelopes/summary", sharingHandler.GetSharedEnvelopesSummary)
	shares.POST("/:requestId/accept", sharingHandler.AcceptRequest)
	shares.POST("/:requestId/reject", sharingHandler.RejectRequest)

	api.GET("/dashboard", dashboardHandler.GetDashboard, requireAuth)

	if cfg.IsDevelopment() {
		dev := api.Group("/dev", requireAuth)
		dev.POST("/sample-data", devHandler.GenerateSampleData)
	}

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped gracefully")
}
