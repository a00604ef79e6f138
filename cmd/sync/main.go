package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zahumennov/contacs-updater/internal/config"
	"github.com/Zahumennov/contacs-updater/internal/contacts"
	"github.com/Zahumennov/contacs-updater/internal/nimble"
	appsync "github.com/Zahumennov/contacs-updater/internal/sync"
)

// Runs a single sync cycle and exits, bypassing the schedule.
func main() {
	cfg := config.MustLoad()

	if cfg.NimbleAPIURL == "" || cfg.NimbleAPIToken == "" {
		log.Fatal("NIMBLE_API_URL and NIMBLE_API_TOKEN must be set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	repo := contacts.NewRepository(pool, cfg.TableName, cfg.SearchLanguage)
	feed := nimble.NewClient(cfg.NimbleAPIURL, cfg.NimbleAPIToken)
	syncer := appsync.NewSyncer(feed, repo)

	if err := syncer.RunOnce(ctx); err != nil {
		log.Fatalf("sync failed: %v", err)
	}
}
