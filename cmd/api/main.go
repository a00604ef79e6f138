package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zahumennov/contacs-updater/internal/config"
	"github.com/Zahumennov/contacs-updater/internal/contacts"
	"github.com/Zahumennov/contacs-updater/internal/nimble"
	"github.com/Zahumennov/contacs-updater/internal/router"
	"github.com/Zahumennov/contacs-updater/internal/schema"
	appsync "github.com/Zahumennov/contacs-updater/internal/sync"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Provisioning must succeed before any traffic is served.
	if err := schema.NewManager(cfg).Bootstrap(ctx); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	repo := contacts.NewRepository(pool, cfg.TableName, cfg.SearchLanguage)
	contactsHandler := contacts.NewHandler(repo)

	feed := nimble.NewClient(cfg.NimbleAPIURL, cfg.NimbleAPIToken)
	syncer := appsync.NewSyncer(feed, repo)
	worker := appsync.NewWorker(syncer, cfg.SyncInterval)
	syncHandler := appsync.NewHandler(worker)

	if cfg.SyncDisabled {
		log.Println("sync worker disabled")
	} else if cfg.NimbleAPIURL == "" || cfg.NimbleAPIToken == "" {
		log.Println("NIMBLE_API_URL / NIMBLE_API_TOKEN not set, sync worker disabled")
	} else {
		go worker.Start(ctx)
		log.Printf("sync worker started, interval %s", cfg.SyncInterval)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	r := &router.Router{
		ContactsHandler: contactsHandler,
		SyncHandler:     syncHandler,
		SearchRateMW:    rateLimitSearch(cfg),
	}
	r.RegisterRoutes(app)

	go func() {
		log.Println("Listening on port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
