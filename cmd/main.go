package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbview/orbview/internal/assets"
	"github.com/orbview/orbview/internal/config"
	"github.com/orbview/orbview/internal/logger"
	"github.com/orbview/orbview/internal/web"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: true,
	})

	log.Info().Msg("Starting application...")

	// Ensure the directories the server reads from exist
	for _, dir := range []string{cfg.StaticDir, cfg.TemplatesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create directory")
		}
	}

	// Provision viewer libraries before accepting any connections. A
	// failure here is fatal: the server never starts serving.
	provisioner := assets.NewProvisioner(cfg.HTTPTimeout, log)
	if err := provisioner.EnsureAll(context.Background(), assets.DefaultAssets(cfg)); err != nil {
		log.Fatal().Err(err).Msg("Failed to provision assets")
	}

	// Build the server
	app := web.New(cfg, log)

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Starting server")
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
