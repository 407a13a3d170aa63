package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"merchantassistant/assistant"
	"merchantassistant/config"
	"merchantassistant/database"
	"merchantassistant/handlers"
	"merchantassistant/logger"
	"merchantassistant/routes"
)

func main() {
	// Load configuration
	cfg, envLoaded, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	if !envLoaded {
		log.Info("No .env file found, using environment variables")
	}

	ctx := context.Background()

	// Initialize database
	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnLifetime: cfg.DBMaxLifetime,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("Database unavailable")
	}
	store := database.NewStore(pool)
	defer store.Close()

	var narrator assistant.Narrator
	if cfg.AssistantEnabled() {
		gemini, err := assistant.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("AI summary disabled")
		} else {
			defer gemini.Close()
			narrator = gemini
		}
	}

	h := handlers.New(store, log, handlers.Options{
		Now:           cfg.Now,
		JWTSecret:     []byte(cfg.JWTSecret),
		SessionTTL:    cfg.SessionTTL,
		AccessKeyHash: cfg.AccessKeyHash,
		Narrator:      narrator,
	})

	app := newServer(cfg, log)
	routes.SetupRoutes(app, h, []byte(cfg.JWTSecret))

	if !cfg.AuthEnabled() {
		log.Warn("JWT_SECRET is not set, merchant routes are open")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	log.WithField("address", cfg.Address).Info("Server starting")
	if err := serve(app, cfg.Address, quit, cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
	log.Info("Server stopped")
}
