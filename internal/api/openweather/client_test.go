package openweather

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alias1177/KrishiMitra/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nagpurBody = `{
  "cod": 200,
  "name": "Nagpur",
  "main": {"temp": 38.4, "humidity": 22, "pressure": 1004},
  "weather": [{"id": 800, "main": "Clear", "description": "clear sky"}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		switch r.URL.Query().Get("q") {
		case "Nagpur,IN":
			_, _ = w.Write([]byte(nagpurBody))
		case "Atlantis,XX":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		case "Ghost,XX":
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		case "Broken,IN":
			_, _ = w.Write([]byte(`{"cod":200,"main":`))
		case "Empty,IN":
			_, _ = w.Write([]byte(`{"cod":200,"main":{"temp":20,"humidity":50},"weather":[]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		RequestTimeout:  2 * time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: 3 * time.Second,
	})
}

func TestCurrentConditions(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	reading, err := newTestClient(srv.URL).CurrentConditions(context.Background(), "Nagpur", "IN")
	require.NoError(t, err)
	assert.Equal(t, models.WeatherReading{TemperatureC: 38.4, HumidityPct: 22, ConditionText: "clear sky"}, reading)
}

func TestCurrentConditionsFailures(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	client := newTestClient(srv.URL)

	tests := []struct {
		name    string
		city    string
		country string
		wantErr error
	}{
		{"http 404", "Atlantis", "XX", ErrLocationNotFound},
		{"cod 404 in body", "Ghost", "XX", ErrLocationNotFound},
		{"empty city", "  ", "IN", ErrLocationNotFound},
		{"malformed json", "Broken", "IN", ErrServiceUnavailable},
		{"missing description", "Empty", "IN", ErrServiceUnavailable},
		{"server error", "Crash", "IN", ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CurrentConditions(context.Background(), tt.city, tt.country)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCurrentConditionsUnreachable(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	client := NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         url,
		RequestTimeout:  time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: 2 * time.Second,
	})

	_, err := client.CurrentConditions(context.Background(), "Nagpur", "IN")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.NotContains(t, err.Error(), "test-key")
}

func TestParseCurrentStringCod(t *testing.T) {
	reading, err := parseCurrent([]byte(`{"cod":"200","main":{"temp":21.5,"humidity":81},"weather":[{"description":"light rain"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "light rain", reading.ConditionText)
	assert.Equal(t, 81.0, reading.HumidityPct)
}

func TestCurrentConditionsUsesConfiguredLogger(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	client := NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: 3 * time.Second,
		Logger:          &logger,
	})

	_, err := client.CurrentConditions(context.Background(), "Pune", "IN")
	require.ErrorIs(t, err, ErrServiceUnavailable)

	logged := buf.String()
	assert.Contains(t, logged, `"component":"openweather_client"`)
	assert.Contains(t, logged, "Weather request failed")
	assert.NotContains(t, logged, `"level":"debug"`)
	assert.NotContains(t, logged, "test-key")
}
