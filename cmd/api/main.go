package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/grandparser/backend/internal/config"
	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/documents"
	"github.com/grandparser/backend/internal/handlers"
	"github.com/grandparser/backend/internal/identity"
	"github.com/grandparser/backend/internal/ingest"
	"github.com/grandparser/backend/internal/logger"
	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/stats"
	"github.com/grandparser/backend/internal/storage"
	"github.com/grandparser/backend/internal/templates"
	"github.com/grandparser/backend/internal/workflow"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// 3. Synchronize schema
	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Document{},
		&models.Result{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("schema migration warning")
	}

	// 4. Wire services
	store, err := storage.NewS3Storage(cfg.Storage)
	if err != nil {
		_ = db.Close()
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	resolver := identity.NewResolver(db, identity.NewHTTPProvider(cfg.Identity))
	webhook := workflow.NewWebhookInvoker(cfg.Workflow)
	if !webhook.Configured() {
		log.Warn().Msg("EXTRACTION_WEBHOOK_URL not set; /upload will fail until configured (use /upload-test meanwhile)")
	}

	router := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Resolver:  resolver,
		Templates: templates.NewService(db),
		Documents: documents.NewService(db, store),
		Ingest:    ingest.NewService(db, store),
		Stats:     stats.NewService(db),
		Webhook:   webhook,
	})

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("database shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
