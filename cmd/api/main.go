package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/devevent/internal/cache"
	"github.com/joshua-takyi/devevent/internal/config"
	"github.com/joshua-takyi/devevent/internal/connect"
	"github.com/joshua-takyi/devevent/internal/container"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/notify"
	"github.com/joshua-takyi/devevent/internal/pages"
	"github.com/joshua-takyi/devevent/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	logger.Info("Starting DevEvent API server", "environment", cfg.Environment)

	cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}

	// The client is created lazily; connecting here surfaces a bad URI at startup.
	provider := connect.NewMongoProvider(cfg.MongoURI(), nil)
	repo := models.MongodbNewRepo(provider, cfg.MongoDBDatabase)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repo.EnsureIndexes(startupCtx); err != nil {
		cancelStartup()
		logger.Error("Failed to prepare MongoDB", "error", err)
		os.Exit(1)
	}
	cancelStartup()
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	var redisCache *cache.RedisCache
	if rdb := connect.RedisConnect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTLS); rdb != nil {
		defer rdb.Close()
		redisCache = cache.NewRedisCache(rdb, "")
		logger.Info("Response cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	} else if cfg.RedisAddr != "" {
		logger.Warn("Redis unreachable, running without response cache", "addr", cfg.RedisAddr)
	}

	var verifier *helpers.TokenVerifier
	if cfg.AuthEnabled() {
		verifier, err = helpers.NewTokenVerifier(cfg.JWTSecret, cfg.JWTJWKSURL)
		if err != nil {
			logger.Error("Failed to set up token verification", "error", err)
			os.Exit(1)
		}
		defer verifier.Close()
	} else {
		logger.Warn("No JWT_SECRET or JWT_JWKS_URL set, event editing is disabled")
	}

	notifier := notify.New(notify.Config{
		Provider:        cfg.MailProvider,
		FromAddress:     cfg.MailFrom,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}, logger)

	appContainer := container.NewContainer(logger, container.Options{
		Production:   cfg.IsProduction(),
		Development:  cfg.IsDevelopment(),
		CorsOrigins:  cfg.CorsOrigins,
		UploadFolder: cfg.CloudinaryFolder,
		CacheTTL:     cfg.CacheTTL,
	}, repo, helpers.NewCloudinaryUploader(cld), redisCache, notifier, verifier, pages.NewClient(cfg.BaseURL, nil))

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := provider.Disconnect(ctx); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}
