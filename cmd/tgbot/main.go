package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/KrishiMitra/internal/app"
	"github.com/Alias1177/KrishiMitra/internal/bot"
	"github.com/Alias1177/KrishiMitra/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// idleTimeout is how long an unfinished conversation is kept
const idleTimeout = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize advisor")
	}
	defer a.Close()
	logger := a.Logger

	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	logger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	// Subscriptions need the database; a nil store disables them.
	var subs bot.SubscriberStore
	if a.DB != nil {
		subs = a.DB
	}
	b := bot.New(api, a.Advisor, subs, logger)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := b.PruneIdle(idleTimeout); n > 0 {
					logger.Debug().Int("count", n).Msg("Pruned idle conversations")
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.HandleUpdate(ctx, update)
		}
	}
}
