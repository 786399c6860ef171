package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/api"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/api/handlers"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/config"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/logger"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/media"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/ocr"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/phone"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/pipeline"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/store"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/whatsapp"
)

func main() {
	migrateFirst := flag.Bool("migrate", false, "run database migrations before serving")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *migrateFirst {
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Migrations failed")
		}
		log.Info().Msg("Migrations applied")
	}

	ctx := context.Background()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	profiles := store.NewProfileRepo(pool)
	transactions := store.NewTransactionRepo(pool)
	categories := store.NewCategoryRepo(pool)
	goals := store.NewGoalRepo(pool)

	resolver := phone.NewResolver(profiles, logger.WithComponent(log, "phone"))
	extractor := ocr.NewGeminiExtractor(cfg.GeminiAPIKey, logger.WithComponent(log, "ocr"))
	client := whatsapp.NewClient(cfg.GraphAPIBaseURL, cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, logger.WithComponent(log, "whatsapp"))
	dispatcher := whatsapp.NewDispatcher(client, logger.WithComponent(log, "whatsapp"))
	processor := pipeline.NewProcessor(transactions, categories, logger.WithComponent(log, "pipeline"))

	var archiver whatsapp.MediaArchiver
	if cfg.MediaBucket != "" {
		a, err := media.NewArchiver(ctx, cfg.MediaBucket, logger.WithComponent(log, "media"))
		if err != nil {
			log.Warn().Err(err).Msg("Screenshot archiving disabled")
		} else {
			defer a.Close()
			archiver = a
		}
	} else {
		log.Info().Msg("No media bucket configured, screenshot archiving disabled")
	}

	webhook := whatsapp.NewHandler(whatsapp.HandlerConfig{
		VerifyToken: cfg.WhatsAppVerifyToken,
		Resolver:    resolver,
		Media:       client,
		Extractor:   extractor,
		Processor:   processor,
		Dispatcher:  dispatcher,
		Archiver:    archiver,
		Logger:      logger.WithComponent(log, "webhook"),
	})

	router := api.NewRouter(api.Deps{
		Webhook:      webhook,
		Transactions: handlers.NewTransactionsHandler(transactions, logger.WithComponent(log, "api")),
		Categories:   handlers.NewCategoriesHandler(categories, logger.WithComponent(log, "api")),
		Goals:        handlers.NewGoalsHandler(goals, logger.WithComponent(log, "api")),
		Profile:      handlers.NewProfileHandler(profiles, logger.WithComponent(log, "api")),
		Logger:       log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}
