package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"goodsmgmt/internal/config"
	"goodsmgmt/internal/http/handlers"
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	// The deploying owner is the first admin; the set can never be emptied
	// after this point.
	owner, err := repos.SeedOwner(db, cfg.OwnerEmail, cfg.OwnerName, cfg.OwnerPassword)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[init] owner identity %s", owner)

	deps := handlers.NewDeps(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.AttachIdentity(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- Accounts & sessions ----------
	app.Post("/register", deps.AuthHandler.Register)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- API ----------
	api := app.Group("/api/v1")

	// Public reads
	api.Get("/catalog", deps.CatalogHandler.List)
	api.Get("/catalog/:id", deps.CatalogHandler.Get)
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.CatalogHandler.Availability)
	api.Get("/purchases", deps.PurchaseHandler.History)

	// Purchases need a logged-in buyer
	api.Post("/purchases", handlers.RequireIdentity(), deps.PurchaseHandler.Place)

	// Admin-gated mutation
	adminOnly := handlers.RequireAdmin(deps.Access)
	api.Post("/catalog", adminOnly, deps.CatalogHandler.Add)
	api.Patch("/catalog/:id", adminOnly, deps.CatalogHandler.Update)
	api.Delete("/catalog/:id", adminOnly, deps.CatalogHandler.Remove)
	api.Post("/admins", adminOnly, deps.AdminHandler.SetAdmin)
	api.Get("/admins", adminOnly, deps.AdminHandler.List)
	api.Get("/ledger/balance", adminOnly, deps.LedgerHandler.Balance)
	api.Post("/ledger/withdraw", adminOnly, deps.LedgerHandler.Withdraw)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
