package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
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

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))

	provider := new(mockWeather)
	provider.On("CurrentConditions", mock.Anything, "Nagpur", "IN").
		Return(models.WeatherReading{TemperatureC: 25, HumidityPct: 50, ConditionText: "Light RAIN showers"}, nil)
	provider.On("CurrentConditions", mock.Anything, "Atlantis", "").
		Return(models.WeatherReading{}, openweather.ErrLocationNotFound)
	provider.On("CurrentConditions", mock.Anything, "Pune", "IN").
		Return(models.WeatherReading{}, openweather.ErrServiceUnavailable)

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{
			Advisor: advisor.NewService(advisor.Dependencies{Weather: provider, Logger: logger}),
			Logger:  logger,
		},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(body []byte) (interface{}, error) {
		var v T
		err := json.Unmarshal(body, &v)
		return v, err
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "Health",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "PredictPrice",
			path:           "/api/v1/prices/Rice/prediction?year=2024",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				v, err := unmarshalResponse[models.PricePrediction]()(body)
				require.NoError(t, err)
				got := v.(models.PricePrediction)
				assert.InDelta(t, 1910, got.PredictedPrice, 1e-6)
				assert.Equal(t, 2024, got.TargetPeriod)
				assert.Len(t, got.Fitted, 5)
			},
		},
		{
			name:           "PredictPriceDefaultYear",
			path:           "/api/v1/prices/Wheat/prediction",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "PredictPriceYearOutOfRange",
			path:           "/api/v1/prices/Rice/prediction?year=2040",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "PredictPriceBadYear",
			path:           "/api/v1/prices/Rice/prediction?year=soon",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "PredictPriceUnknownCrop",
			path:           "/api/v1/prices/Barley/prediction",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "WeatherRisk",
			path:           "/api/v1/weather/risk?city=Nagpur&country=IN",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				v, err := unmarshalResponse[models.WeatherReport]()(body)
				require.NoError(t, err)
				got := v.(models.WeatherReport)
				require.Len(t, got.Advisories, 1)
				assert.Equal(t, models.RiskHeavyRain, got.Advisories[0].Kind)
			},
		},
		{
			name:           "WeatherRiskMissingCity",
			path:           "/api/v1/weather/risk",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "WeatherRiskNotFound",
			path:           "/api/v1/weather/risk?city=Atlantis",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "WeatherRiskUnavailable",
			path:           "/api/v1/weather/risk?city=Pune&country=IN",
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "ExpertAdvice",
			path:           "/api/v1/advice?crop=Rice&problem=Low%20Yield",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				v, err := unmarshalResponse[adviceResponse]()(body)
				require.NoError(t, err)
				got := v.(adviceResponse)
				assert.Equal(t, "Use quality seeds and apply nitrogen fertilizer at tillering stage", got.Advice)
				assert.Equal(t, models.ProblemLowYield, got.Problem)
			},
		},
		{
			name:           "ExpertAdviceDefault",
			path:           "/api/v1/advice?crop=Cotton&problem=PestAttack",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				v, err := unmarshalResponse[adviceResponse]()(body)
				require.NoError(t, err)
				assert.Equal(t, "Follow best agricultural practices", v.(adviceResponse).Advice)
			},
		},
		{
			name:           "ExpertAdviceUnknownProblem",
			path:           "/api/v1/advice?crop=Rice&problem=Frost",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "MarketOutlook",
			path:           "/api/v1/market?crop=Maize&demand=4",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				v, err := unmarshalResponse[marketResponse]()(body)
				require.NoError(t, err)
				got := v.(marketResponse)
				assert.Equal(t, models.DemandModerate, got.Tier)
				assert.Equal(t, "sell based on storage", got.Recommendation)
				assert.Equal(t, models.CropMaize, got.Crop)
			},
		},
		{
			name:           "MarketOutlookOutOfRange",
			path:           "/api/v1/market?demand=11",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "MarketOutlookNotInteger",
			path:           "/api/v1/market?demand=6.5",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode, string(body))
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestWebAPI_StartStopsWhenContextDone(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	api := NewWebAPI(Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies: Dependencies{
			Advisor: advisor.NewService(advisor.Dependencies{Logger: logger}),
			Logger:  logger,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after the context was cancelled")
	}
}
