package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talkora/chat-media-go/internal/cache"
	"github.com/talkora/chat-media-go/internal/config"
	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/handler"
	"github.com/talkora/chat-media-go/internal/handler/api"
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

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTSecret)

	strg := initStorage(ctx, cfg)

	mediaRepo := mariadb.NewMediaRepository(database.DB)
	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured — caching is disabled")
	}

	prov := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAccessToken, cfg.ProviderSenderID)
	lock := mediaSvc.NewLockCoordinator(mediaRepo, cfg.FetchLeaseTTL)

	materializeSvc := mediaSvc.NewMediaMaterializer(mediaRepo, strg, prov, ca, lock, cfg.MediaKeyRoot)
	r.Post("/media/materialize", api.MaterializeMediaHandler(materializeSvc))

	uploadSvc := mediaSvc.NewMediaUploader(mediaRepo, strg, prov, dispatcher, db.NewUUID, cfg.MediaKeyRoot)
	r.Post("/media/upload", api.UploadMediaHandler(uploadSvc))

	deleteMediaSvc := mediaSvc.NewMediaDeleter(mediaRepo, ca, strg)
	r.With(api.WithMessageID()).
		Delete("/media/{id}", api.DeleteMediaHandler(deleteMediaSvc))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context, jwtSecret string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(api.WithSvcAuth(jwtSecret))

	r.NotFound(handler.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

// initStorage returns nil when MinIO is not configured: the service then runs
// degraded, with the outbound path skipping persistence and the inbound path
// refusing to materialize.
func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	if cfg.MinioEndpoint == "" {
		logger.Warn(ctx, "⚠️  MinIO not configured — running without persistent storage")
		return nil
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

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
