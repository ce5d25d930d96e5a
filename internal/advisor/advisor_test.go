package advisor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/internal/analysis/prediction"
	"github.com/Alias1177/KrishiMitra/internal/api/openweather"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) CurrentConditions(ctx context.Context, city, countryCode string) (models.WeatherReading, error) {
	args := m.Called(ctx, city, countryCode)
	return args.Get(0).(models.WeatherReading), args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) PriceHistory(ctx context.Context, crop models.Crop) ([]models.PricePoint, error) {
	args := m.Called(ctx, crop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PricePoint), args.Error(1)
}

func newService(t *testing.T, deps Dependencies) *Service {
	t.Helper()
	deps.Logger = zerolog.New(zerolog.NewTestWriter(t))
	return NewService(deps)
}

func TestPredictPriceDefaultHistory(t *testing.T) {
	svc := newService(t, Dependencies{})

	got, err := svc.PredictPrice(context.Background(), models.CropRice, 2024)
	require.NoError(t, err)

	assert.InDelta(t, 1910, got.PredictedPrice, 1e-6)
	assert.InDelta(t, 70, got.Model.Slope, 1e-9)
	assert.Len(t, got.History, 5)
	assert.Len(t, got.Fitted, 5)
	assert.Equal(t, models.CropRice, got.Crop)
}

func TestPredictPriceYearRange(t *testing.T) {
	svc := newService(t, Dependencies{})

	for _, year := range []int{2022, 2036} {
		_, err := svc.PredictPrice(context.Background(), models.CropRice, year)
		assert.ErrorIs(t, err, ErrYearOutOfRange)
		assert.ErrorIs(t, err, advisory.ErrInvalidInput)
	}
}

func TestPredictPriceHistorySource(t *testing.T) {
	history := new(mockHistory)
	history.On("PriceHistory", mock.Anything, models.CropWheat).
		Return([]models.PricePoint{{Period: 2020, Price: 100}, {Period: 2021, Price: 110}}, nil)
	history.On("PriceHistory", mock.Anything, models.CropMaize).
		Return([]models.PricePoint{{Period: 2020, Price: 100}}, nil)
	history.On("PriceHistory", mock.Anything, models.CropCotton).
		Return(nil, errors.New("db down"))

	svc := newService(t, Dependencies{History: history})

	got, err := svc.PredictPrice(context.Background(), models.CropWheat, 2025)
	require.NoError(t, err)
	assert.True(t, math.Abs(got.PredictedPrice-150) < 1e-6, "got %v", got.PredictedPrice)

	_, err = svc.PredictPrice(context.Background(), models.CropMaize, 2025)
	assert.ErrorIs(t, err, prediction.ErrInsufficientData)

	_, err = svc.PredictPrice(context.Background(), models.CropCotton, 2025)
	assert.ErrorContains(t, err, "db down")

	history.AssertExpectations(t)
}

func TestWeatherRisk(t *testing.T) {
	provider := new(mockWeather)
	provider.On("CurrentConditions", mock.Anything, "Nagpur", "in").
		Return(models.WeatherReading{TemperatureC: 40, HumidityPct: 20, ConditionText: "clear"}, nil)
	provider.On("CurrentConditions", mock.Anything, "Atlantis", "XX").
		Return(models.WeatherReading{}, openweather.ErrLocationNotFound)

	svc := newService(t, Dependencies{Weather: provider})

	report, err := svc.WeatherRisk(context.Background(), "Nagpur", "in")
	require.NoError(t, err)
	assert.Equal(t, "Nagpur,IN", report.Location)
	require.Len(t, report.Advisories, 2)
	assert.Equal(t, models.RiskHeat, report.Advisories[0].Kind)
	assert.Equal(t, models.RiskDrought, report.Advisories[1].Kind)
	assert.True(t, report.HasRisk())

	_, err = svc.WeatherRisk(context.Background(), "Atlantis", "XX")
	assert.ErrorIs(t, err, openweather.ErrLocationNotFound)

	provider.AssertExpectations(t)
}

func TestWeatherRiskWithoutProvider(t *testing.T) {
	_, err := newService(t, Dependencies{}).WeatherRisk(context.Background(), "Nagpur", "IN")
	assert.Error(t, err)
}

func TestExpertAdviceAndMarket(t *testing.T) {
	svc := newService(t, Dependencies{})

	assert.Equal(t, "Apply urea immediately", svc.ExpertAdvice(models.CropMaize, models.ProblemLeafYellowing))
	assert.Equal(t, advisory.DefaultAdvice, svc.ExpertAdvice(models.CropCotton, models.ProblemPestAttack))

	rec, err := svc.MarketOutlook(7)
	require.NoError(t, err)
	assert.Equal(t, models.DemandHigh, rec.Tier)

	_, err = svc.MarketOutlook(0)
	assert.ErrorIs(t, err, advisory.ErrInvalidInput)
}
