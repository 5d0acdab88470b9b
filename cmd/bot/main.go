package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amosov/userdir/src/bot"
	"github.com/amosov/userdir/src/config"
	"github.com/amosov/userdir/src/database"
	"github.com/amosov/userdir/src/logging"
	"github.com/amosov/userdir/src/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().Int("admin_ids", len(cfg.TelegramAdminIDs)).Msg("starting bot")

	if len(cfg.TelegramAdminIDs) == 0 {
		log.Warn().Msg("TELEGRAM_ADMIN_IDS not configured - every command will be denied")
	}

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	userService := services.NewUserService(db.GetPool())

	b, err := bot.New(cfg.TelegramToken, userService, cfg.TelegramAdminIDs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize bot")
	}

	// Stop polling on interrupt
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := b.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("bot shut down successfully")
}
