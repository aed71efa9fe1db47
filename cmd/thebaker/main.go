package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"thebaker/internal/config"
	"thebaker/internal/http/handlers"
	applog "thebaker/internal/log"
	"thebaker/internal/repos"
	"thebaker/internal/services"
)

func main() {
	cfg := config.Load()
	loc := cfg.Location()

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

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The JSON API is cookie-less; CSRF applies to the form pages only
			return c.Get("Content-Type") == "application/json"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed, refresh and retry"})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, loc)

	// Storefront API
	api := app.Group("/api")
	api.Get("/products", deps.ProductHandler.Menu)
	api.Get("/products/:id", deps.ProductHandler.Get)

	api.Post("/orders", deps.OrderHandler.Create)
	api.Get("/orders/search", deps.OrderHandler.Search)
	api.Get("/orders/:id/status", deps.OrderHandler.Status)
	api.Get("/shop/status", deps.StaffHandler.ShopStatus)
	api.Get("/points/my-points", deps.PointHandler.MyPoints)

	// Counter quick payment (staff only)
	api.Post("/points/pay", handlers.RequireStaff(authSvc), deps.PointHandler.Pay)

	// Order administration (staff only)
	staffAPI := api.Group("/staff", handlers.RequireStaff(authSvc))
	staffAPI.Get("/orders", deps.OrderHandler.List)
	staffAPI.Get("/orders/pending-count", deps.OrderHandler.PendingCount)
	staffAPI.Get("/orders/:id", deps.OrderHandler.Get)
	staffAPI.Put("/orders/:id/confirm", deps.OrderHandler.Confirm)
	staffAPI.Put("/orders/:id/complete", deps.OrderHandler.Complete)
	staffAPI.Post("/orders/:id/cancel", deps.OrderHandler.Cancel)
	staffAPI.Put("/orders/:id/archive", deps.OrderHandler.Archive)
	staffAPI.Post("/orders/:id/revert", deps.StaffHandler.Revert)
	staffAPI.Get("/search", deps.StaffHandler.Search)
	staffAPI.Post("/points", deps.StaffHandler.AddPoints)
	staffAPI.Post("/stock", deps.ProductHandler.UpdateStock)
	staffAPI.Post("/status", deps.StaffHandler.ToggleShop)
	staffAPI.Post("/reservation-status", deps.StaffHandler.ToggleReservation)
	staffAPI.Get("/forecast", deps.SalesHandler.ForecastJSON)

	// Catalog writes (admin only)
	adminAPI := api.Group("/", handlers.RequireAdmin(authSvc))
	adminAPI.Post("/products", deps.ProductHandler.Create)
	adminAPI.Put("/products/:id", deps.ProductHandler.Update)
	adminAPI.Delete("/products/:id", deps.ProductHandler.Delete)

	// Staff pages
	staff := app.Group("/staff", handlers.RequireStaff(authSvc))
	staff.Get("/", deps.SalesHandler.Dashboard)
	staff.Get("/forecast", deps.SalesHandler.Forecast)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
