package broadcast

import (
	"context"
	"strings"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/Alias1177/KrishiMitra/internal/bot"
	"github.com/Alias1177/KrishiMitra/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// MessagesPerSec stays under Telegram's 30 messages per second bot limit.
const MessagesPerSec = 25

// Stats summarises one broadcast run
type Stats struct {
	Sent   int
	NoRisk int
	Failed int
}

// Broadcaster sends weather risk alerts to subscribed chats
type Broadcaster struct {
	api     bot.Sender
	advisor *advisor.Service
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a broadcaster paced at MessagesPerSec
func New(api bot.Sender, svc *advisor.Service, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		api:     api,
		advisor: svc,
		limiter: rate.NewLimiter(rate.Limit(MessagesPerSec), 1),
		logger:  logger.With().Str("component", "broadcast").Logger(),
	}
}

// Run classifies the weather for every subscriber's location and messages
// the chats whose location carries at least one risk. Each location is
// fetched once per run.
func (b *Broadcaster) Run(ctx context.Context, subscribers []models.Subscriber, format func(*models.WeatherReport) string) Stats {
	var stats Stats
	reports := make(map[string]*models.WeatherReport)
	failed := make(map[string]bool)

	for i, sub := range subscribers {
		if ctx.Err() != nil {
			stats.Failed += len(subscribers) - i
			break
		}

		key := strings.ToLower(sub.City + "," + sub.CountryCode)
		if failed[key] {
			stats.Failed++
			continue
		}

		report, ok := reports[key]
		if !ok {
			var err error
			report, err = b.advisor.WeatherRisk(ctx, sub.City, sub.CountryCode)
			if err != nil {
				b.logger.Error().Err(err).Str("city", sub.City).Str("country", sub.CountryCode).Msg("Weather lookup failed")
				failed[key] = true
				stats.Failed++
				continue
			}
			reports[key] = report
		}

		if !report.HasRisk() {
			stats.NoRisk++
			continue
		}

		if err := b.limiter.Wait(ctx); err != nil {
			stats.Failed++
			continue
		}

		msg := tgbotapi.NewMessage(sub.ChatID, format(report))
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", sub.ChatID).Msg("Failed to send alert")
			stats.Failed++
			continue
		}

		b.logger.Info().Int64("chat_id", sub.ChatID).Int("n", i+1).Int("total", len(subscribers)).Msg("Alert sent")
		stats.Sent++
	}

	return stats
}
