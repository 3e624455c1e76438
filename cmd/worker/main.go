package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/talkora/chat-media-go/internal/cache"
	"github.com/talkora/chat-media-go/internal/config"
	"github.com/talkora/chat-media-go/internal/db"
	workerHandler "github.com/talkora/chat-media-go/internal/handler/worker"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/provider"
	"github.com/talkora/chat-media-go/internal/repository/mariadb"
	"github.com/talkora/chat-media-go/internal/storage"
	"github.com/talkora/chat-media-go/internal/task"
	mediaSvc "github.com/talkora/chat-media-go/internal/usecase/media"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)

	repo := mariadb.NewMediaRepository(database.DB)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	prov := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAccessToken, cfg.ProviderSenderID)
	lock := mediaSvc.NewLockCoordinator(repo, cfg.FetchLeaseTTL)
	materializeSvc := mediaSvc.NewMediaMaterializer(repo, strg, prov, ca, lock, cfg.MediaKeyRoot)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeMaterializeMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseMaterializeMediaPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.MaterializeMediaHandler(ctx, p, materializeSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	ctx := context.Background()
	if cfg.MinioEndpoint == "" {
		logger.Error(ctx, "❌  MinIO must be configured to run the worker")
		os.Exit(1)
	}

	client, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	strg, err := client.WithBucket(cfg.MinioBucket, cfg.MinioPublicBaseURL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.Shutdown()       // stop accepting new tasks, finish in-flight
	<-shutdownCtx.Done() // either timeout or done

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
