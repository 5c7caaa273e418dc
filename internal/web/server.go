// Package web builds the HTTP server. One route renders the index page;
// every other path and every handler error renders the same page, with only
// the status code distinguishing the cases.
package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog"

	"github.com/orbview/orbview/internal/config"
	"github.com/orbview/orbview/internal/middleware"
)

// New builds the fiber app. The caller owns startup and shutdown.
func New(cfg *config.Config, log zerolog.Logger) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          NewErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Panics become errors and land in the same error handler.
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	app.Get("/", handleIndex)
	app.Static("/static", cfg.StaticDir)

	// Anything unmatched falls through to here and is routed to the error
	// handler as a not-found.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}

// handleIndex handles GET /
func handleIndex(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}

// NewErrorHandler is the top-level boundary around request dispatch. Every
// error a handler returns is mapped to a status code and answered with the
// index page body. Server-side faults are logged; routing misses are not.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", code).
				Msg("server error")
		}

		if rerr := c.Status(code).Render("index", fiber.Map{}); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
			return c.SendStatus(code)
		}
		return nil
	}
}
