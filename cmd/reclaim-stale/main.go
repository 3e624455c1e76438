package main

import (
	"context"
	"log"

	"github.com/talkora/chat-media-go/internal/config"
	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/repository/mariadb"
	"github.com/talkora/chat-media-go/internal/task"
	mediaSvc "github.com/talkora/chat-media-go/internal/usecase/media"
)

// Run periodically (e.g. from cron) to recover rows whose fetching lease
// expired because a worker died mid-fetch.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌  Configuration error: %v", err)
	}

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("DB close error: %v", err)
		}
	}()

	dispatcher := initDispatcher(cfg)
	repo := mariadb.NewMediaRepository(database.DB)
	lock := mediaSvc.NewLockCoordinator(repo, cfg.FetchLeaseTTL)

	reclaimer := mediaSvc.NewStaleReclaimer(repo, dispatcher, lock)
	if err := reclaimer.ReclaimStale(context.Background()); err != nil {
		log.Fatalf("❌  Stale fetch reclamation failed: %v", err)
	}
	log.Println("✅  Stale fetch reclamation completed")
}

func initDb(cfg *config.Settings) *db.Database {
	log.Println("initialising database...")
	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		log.Fatalf("❌  Failed to connect to db: %v", err)
	}
	return database
}

func initDispatcher(cfg *config.Settings) port.TaskDispatcher {
	if cfg.RedisAddr == "" {
		log.Fatalf("❌  Redis not configured: this command requires a running Redis instance")
	}
	return task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
}
