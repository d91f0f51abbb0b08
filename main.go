package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rajat93105-cell/pbl-project/internal/api"
	"github.com/rajat93105-cell/pbl-project/internal/assistant"
	"github.com/rajat93105-cell/pbl-project/internal/auth"
	"github.com/rajat93105-cell/pbl-project/internal/config"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/logger"
	"github.com/rajat93105-cell/pbl-project/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set; using the built-in development secret")
	}
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY is not set; chat requests will fail")
	}
	if cfg.CloudinaryAPISecret == "" {
		log.Warn().Msg("CLOUDINARY_API_SECRET is not set; upload signatures will be rejected by Cloudinary")
	}

	// Set up database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up token signing")
	}

	// Set up services
	userService := services.NewUserService(db, cfg.CampusEmailDomain)
	productService := services.NewProductService(db)
	wishlistService := services.NewWishlistService(db, productService)
	analyticsService := services.NewAnalyticsService(db)
	chatService := services.NewChatService(db, productService, assistant.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel))
	uploadService := services.NewUploadService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)

	// Set up router
	router := api.NewRouter(api.Deps{
		DB:           db,
		Tokens:       tokens,
		Users:        userService,
		Products:     productService,
		Wishlist:     wishlistService,
		Analytics:    analyticsService,
		Chat:         chatService,
		Uploads:      uploadService,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
