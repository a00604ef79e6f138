package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Zahumennov/contacs-updater/internal/config"
)

func rateLimitSearch(cfg config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.SearchRateMax,
		Expiration: cfg.SearchRateWindow,
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
