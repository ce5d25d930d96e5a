package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/KrishiMitra/internal/app"
	"github.com/Alias1177/KrishiMitra/internal/bot"
	"github.com/Alias1177/KrishiMitra/internal/broadcast"
	"github.com/Alias1177/KrishiMitra/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	// Subscribers live in PostgreSQL.
	cfg.UseDatabase = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize advisor")
	}
	defer a.Close()

	if cfg.TelegramBotToken == "" {
		a.Logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	subscribers, err := a.DB.ListSubscribers(ctx)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Failed to list subscribers")
	}

	stats := broadcast.New(api, a.Advisor, a.Logger).Run(ctx, subscribers, bot.FormatWeatherReport)

	fmt.Printf("\n🎯 Broadcast completed!\n")
	fmt.Printf("📊 Stats: %d alerts sent, %d without risk, %d failed out of %d subscribers\n",
		stats.Sent, stats.NoRisk, stats.Failed, len(subscribers))
}
