package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/internal/api/openweather"
	"github.com/Alias1177/KrishiMitra/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Menu entries
const (
	MenuPrice   = "Crop Price Prediction"
	MenuWeather = "Weather Risk Alerts"
	MenuAdvice  = "Expert Farming Advice"
	MenuMarket  = "Marketplace Tools"
	MenuMain    = "Main Menu"
)

// Conversation stages
const (
	StageInitial = iota
	StageAwaitingPriceCrop
	StageAwaitingPriceYear
	StageAwaitingLocation
	StageAwaitingAdviceCrop
	StageAwaitingAdviceProblem
	StageAwaitingMarketCrop
	StageAwaitingDemand
)

const welcomeText = "Welcome to Krishi Mitra! Choose a tool from the menu."

// marketCrops are the crops offered on the marketplace page
var marketCrops = []models.Crop{models.CropRice, models.CropWheat, models.CropMaize, models.CropCotton}

// Sender is the part of the Telegram API the bot needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SubscriberStore keeps chats registered for weather risk alerts
type SubscriberStore interface {
	AddSubscriber(ctx context.Context, s models.Subscriber) error
	RemoveSubscriber(ctx context.Context, chatID int64) error
}

// ChatState represents the current state of a chat's conversation
type ChatState struct {
	Stage        int
	Crop         models.Crop
	LastActivity time.Time
}

// Bot routes Telegram messages to the advisor service
type Bot struct {
	api     Sender
	advisor *advisor.Service
	subs    SubscriberStore
	logger  zerolog.Logger

	mu     sync.Mutex
	states map[int64]*ChatState
}

// New creates the bot. subs may be nil, which disables alert subscriptions.
func New(api Sender, svc *advisor.Service, subs SubscriberStore, logger zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		advisor: svc,
		subs:    subs,
		logger:  logger.With().Str("component", "tgbot").Logger(),
		states:  make(map[int64]*ChatState),
	}
}

// HandleUpdate processes one Telegram update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	b.handleMessage(ctx, update.Message.Chat.ID, strings.TrimSpace(update.Message.Text))
}

// state returns a snapshot of the chat state
func (b *Bot) state(chatID int64) ChatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.states[chatID]; ok {
		return *st
	}
	return ChatState{Stage: StageInitial}
}

func (b *Bot) setState(chatID int64, stage int, crop models.Crop) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[chatID] = &ChatState{Stage: stage, Crop: crop, LastActivity: time.Now()}
}

// PruneIdle forgets conversations idle for longer than maxIdle.
func (b *Bot) PruneIdle(maxIdle time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	pruned := 0
	for id, st := range b.states {
		if time.Since(st.LastActivity) > maxIdle {
			delete(b.states, id)
			pruned++
		}
	}
	return pruned
}

func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) {
	switch {
	case text == "/start" || text == MenuMain:
		b.setState(chatID, StageInitial, "")
		b.reply(chatID, welcomeText, mainMenuKeyboard())
		return
	case text == MenuPrice:
		b.setState(chatID, StageAwaitingPriceCrop, "")
		b.reply(chatID, "Select crop", cropKeyboard(models.Crops))
		return
	case text == MenuWeather:
		b.setState(chatID, StageAwaitingLocation, "")
		b.reply(chatID, "Enter City or Village and Country Code, for example: Nagpur,IN", nil)
		return
	case text == MenuAdvice:
		b.setState(chatID, StageAwaitingAdviceCrop, "")
		b.reply(chatID, "Select Crop", cropKeyboard(models.Crops))
		return
	case text == MenuMarket:
		b.setState(chatID, StageAwaitingMarketCrop, "")
		b.reply(chatID, "Select Crop", cropKeyboard(marketCrops))
		return
	case strings.HasPrefix(text, "/subscribe"):
		b.subscribe(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/subscribe")))
		return
	case text == "/unsubscribe":
		b.unsubscribe(ctx, chatID)
		return
	}

	st := b.state(chatID)
	switch st.Stage {
	case StageAwaitingPriceCrop:
		crop, err := advisory.ParseCrop(text)
		if err != nil {
			b.reply(chatID, "Please pick a crop from the keyboard.", cropKeyboard(models.Crops))
			return
		}
		b.setState(chatID, StageAwaitingPriceYear, crop)
		b.reply(chatID, fmt.Sprintf("Enter future year (%d-%d)", models.MinTargetYear, models.MaxTargetYear), nil)
	case StageAwaitingPriceYear:
		b.predictPrice(ctx, chatID, st.Crop, text)
	case StageAwaitingLocation:
		b.weatherRisk(ctx, chatID, text)
	case StageAwaitingAdviceCrop:
		crop, err := advisory.ParseCrop(text)
		if err != nil {
			b.reply(chatID, "Please pick a crop from the keyboard.", cropKeyboard(models.Crops))
			return
		}
		b.setState(chatID, StageAwaitingAdviceProblem, crop)
		b.reply(chatID, "Select Farming Problem", problemKeyboard())
	case StageAwaitingAdviceProblem:
		problem, err := advisory.ParseProblem(text)
		if err != nil {
			b.reply(chatID, "Please pick a problem from the keyboard.", problemKeyboard())
			return
		}
		b.setState(chatID, StageInitial, "")
		b.reply(chatID, b.advisor.ExpertAdvice(st.Crop, problem), mainMenuKeyboard())
	case StageAwaitingMarketCrop:
		crop, err := advisory.ParseCrop(text)
		if err != nil || !slices.Contains(marketCrops, crop) {
			b.reply(chatID, "Please pick a crop from the keyboard.", cropKeyboard(marketCrops))
			return
		}
		b.setState(chatID, StageAwaitingDemand, crop)
		b.reply(chatID, "Market Demand Level (1-10)?", demandKeyboard())
	case StageAwaitingDemand:
		b.marketOutlook(chatID, st.Crop, text)
	default:
		b.reply(chatID, welcomeText, mainMenuKeyboard())
	}
}

func (b *Bot) predictPrice(ctx context.Context, chatID int64, crop models.Crop, text string) {
	year, err := strconv.Atoi(text)
	if err != nil || !models.ValidTargetYear(year) {
		b.reply(chatID, fmt.Sprintf("Please enter a year between %d and %d.", models.MinTargetYear, models.MaxTargetYear), nil)
		return
	}

	result, err := b.advisor.PredictPrice(ctx, crop, year)
	b.setState(chatID, StageInitial, "")
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Price prediction failed")
		b.reply(chatID, "Sorry, the price prediction is not available right now.", mainMenuKeyboard())
		return
	}

	b.reply(chatID, FormatPrediction(result), mainMenuKeyboard())
}

func (b *Bot) weatherRisk(ctx context.Context, chatID int64, text string) {
	city, country := ParseLocation(text)
	report, err := b.advisor.WeatherRisk(ctx, city, country)
	b.setState(chatID, StageInitial, "")
	if err != nil {
		b.reply(chatID, weatherErrorText(err), mainMenuKeyboard())
		return
	}
	b.reply(chatID, FormatWeatherReport(report), mainMenuKeyboard())
}

func (b *Bot) marketOutlook(chatID int64, crop models.Crop, text string) {
	demand, err := strconv.Atoi(text)
	if err != nil {
		b.reply(chatID, "Please enter a whole number from 1 to 10.", demandKeyboard())
		return
	}

	rec, err := b.advisor.MarketOutlook(demand)
	if err != nil {
		b.reply(chatID, "Please enter a whole number from 1 to 10.", demandKeyboard())
		return
	}

	b.setState(chatID, StageInitial, "")
	b.reply(chatID, fmt.Sprintf("%s: %s\nRecommendation %s", crop, rec.Message, rec.Recommendation), mainMenuKeyboard())
}

func (b *Bot) subscribe(ctx context.Context, chatID int64, arg string) {
	if b.subs == nil {
		b.reply(chatID, "Weather alerts are not available.", nil)
		return
	}

	city, country := ParseLocation(arg)
	if city == "" {
		b.reply(chatID, "Usage: /subscribe City,CountryCode", nil)
		return
	}

	if err := b.subs.AddSubscriber(ctx, models.Subscriber{ChatID: chatID, City: city, CountryCode: country}); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Error adding subscriber")
		b.reply(chatID, "Sorry, there was an error. Please try again later.", nil)
		return
	}
	b.reply(chatID, fmt.Sprintf("You will receive weather risk alerts for %s.", strings.Trim(city+","+country, ",")), nil)
}

func (b *Bot) unsubscribe(ctx context.Context, chatID int64) {
	if b.subs == nil {
		b.reply(chatID, "Weather alerts are not available.", nil)
		return
	}
	if err := b.subs.RemoveSubscriber(ctx, chatID); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Error removing subscriber")
		b.reply(chatID, "Sorry, there was an error. Please try again later.", nil)
		return
	}
	b.reply(chatID, "Weather risk alerts stopped.", nil)
}

func (b *Bot) reply(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func weatherErrorText(err error) string {
	if errors.Is(err, openweather.ErrLocationNotFound) {
		return "Location not found"
	}
	return "Weather service unavailable"
}
