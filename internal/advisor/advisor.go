package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/internal/analysis/prediction"
	"github.com/Alias1177/KrishiMitra/internal/analysis/weather"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/rs/zerolog"
)

// ErrYearOutOfRange is returned for prediction targets outside the range
// the pages offer.
var ErrYearOutOfRange = fmt.Errorf("%w: target year must be between %d and %d",
	advisory.ErrInvalidInput, models.MinTargetYear, models.MaxTargetYear)

// Service merges the advisory components with their data sources for the
// presentation layers (web API, Telegram bot, CLI).
type Service struct {
	history models.PriceHistorySource
	weather models.WeatherProvider
	rules   *advisory.Engine
	logger  zerolog.Logger
}

// Dependencies of the Service. Nil History falls back to the reference
// dataset and nil Rules to the built-in rule table.
type Dependencies struct {
	History models.PriceHistorySource
	Weather models.WeatherProvider
	Rules   *advisory.Engine
	Logger  zerolog.Logger
}

// NewService creates the advisor service
func NewService(deps Dependencies) *Service {
	if deps.History == nil {
		deps.History = models.StaticHistory(models.DefaultPriceHistory())
	}
	if deps.Rules == nil {
		deps.Rules = advisory.NewEngine(nil)
	}
	return &Service{
		history: deps.History,
		weather: deps.Weather,
		rules:   deps.Rules,
		logger:  deps.Logger.With().Str("component", "advisor").Logger(),
	}
}

// PredictPrice fits the crop's price history and extrapolates to targetYear.
func (s *Service) PredictPrice(ctx context.Context, crop models.Crop, targetYear int) (*models.PricePrediction, error) {
	if !models.ValidTargetYear(targetYear) {
		return nil, ErrYearOutOfRange
	}

	history, err := s.history.PriceHistory(ctx, crop)
	if err != nil {
		s.logger.Error().Err(err).Str("crop", string(crop)).Msg("Failed to load price history")
		return nil, fmt.Errorf("loading price history: %w", err)
	}

	model, err := prediction.FitTrend(history)
	if err != nil {
		s.logger.Warn().Err(err).Str("crop", string(crop)).Int("points", len(history)).Msg("Cannot fit price trend")
		return nil, err
	}

	result := &models.PricePrediction{
		Crop:           crop,
		TargetPeriod:   targetYear,
		PredictedPrice: model.Predict(targetYear),
		Model:          *model,
		History:        history,
		Fitted:         prediction.FittedSeries(*model, history),
	}

	s.logger.Debug().
		Str("crop", string(crop)).
		Int("year", targetYear).
		Float64("price", result.PredictedPrice).
		Float64("slope", model.Slope).
		Msg("Price predicted")
	return result, nil
}

// WeatherRisk fetches current conditions for the location and classifies them.
func (s *Service) WeatherRisk(ctx context.Context, city, countryCode string) (*models.WeatherReport, error) {
	if s.weather == nil {
		return nil, errors.New("weather provider not configured")
	}

	reading, err := s.weather.CurrentConditions(ctx, city, countryCode)
	if err != nil {
		return nil, err
	}

	report := &models.WeatherReport{
		Location:   location(city, countryCode),
		Reading:    reading,
		Advisories: weather.Classify(reading),
	}

	s.logger.Debug().
		Str("location", report.Location).
		Int("advisories", len(report.Advisories)).
		Bool("risk", report.HasRisk()).
		Msg("Weather risk classified")
	return report, nil
}

// ExpertAdvice returns the advice for a crop/problem pair.
func (s *Service) ExpertAdvice(crop models.Crop, problem models.Problem) string {
	return s.rules.Advise(crop, problem)
}

// MarketOutlook returns the demand tier recommendation. The crop is only
// echoed by the callers; demand alone decides the tier.
func (s *Service) MarketOutlook(demandIndex int) (models.MarketRecommendation, error) {
	return s.rules.Recommend(demandIndex)
}

func location(city, countryCode string) string {
	city = strings.TrimSpace(city)
	if cc := strings.TrimSpace(countryCode); cc != "" {
		return city + "," + strings.ToUpper(cc)
	}
	return city
}
