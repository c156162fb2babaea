package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hivelabs/hivesync/internal/config"
	"github.com/hivelabs/hivesync/internal/database"
	"github.com/hivelabs/hivesync/internal/handlers"
	"github.com/hivelabs/hivesync/internal/logging"
	"github.com/hivelabs/hivesync/internal/registry"
	"github.com/hivelabs/hivesync/internal/repositories"
	"github.com/hivelabs/hivesync/internal/services"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Run migrations before opening the pool
	if cfg.MigrationsDir != "" {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("migrations applied", "dir", cfg.MigrationsDir)
	}

	// Initialize target store connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create postgres pool: %v", err)
	}
	defer postgresPool.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create redis client: %v", err)
	}
	defer redisClient.Close()

	// Model allow-list: built-in default, or loaded from MODELS_FILE
	reg := registry.Default()
	if cfg.ModelsFile != "" {
		reg, err = registry.FromFile(cfg.ModelsFile)
		if err != nil {
			log.Fatalf("Failed to load models file: %v", err)
		}
	}
	logger.Info("models registered", "models", reg.Models())

	// One record repository per allow-listed model
	repos := make(map[string]repositories.RecordRepository)
	for _, model := range reg.Models() {
		table, err := reg.Table(model)
		if err != nil {
			log.Fatalf("Failed to resolve table for model %q: %v", model, err)
		}
		repos[model] = repositories.NewPostgresRecordRepository(postgresPool, table)
	}

	statusRepo := repositories.NewRedisSyncStatusRepository(redisClient)
	authService := services.NewAuthService(cfg.SyncSecret)

	syncHandler := handlers.NewSyncHandler(reg, repos, statusRepo, logger)
	healthHandler := handlers.NewHealthHandler(
		postgresPool.Ping,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	)

	router := handlers.NewRouter(authService, syncHandler, healthHandler)

	// Start Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("starting sync receiver", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("server stopped gracefully")
}
