package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	httpClient "github.com/Alias1177/KrishiMitra/internal/platform/http"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public OpenWeatherMap API endpoint.
const DefaultBaseURL = "https://api.openweathermap.org"

var (
	// ErrLocationNotFound means the provider does not know the location.
	ErrLocationNotFound = errors.New("location not found")
	// ErrServiceUnavailable covers transport failures, unexpected statuses
	// and payloads that cannot be parsed into a reading.
	ErrServiceUnavailable = errors.New("weather service unavailable")
)

// Client is the OpenWeatherMap current conditions client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new OpenWeatherMap client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
	// Logger is the parent logger; nil uses the global zerolog logger.
	Logger *zerolog.Logger
}

// NewClient creates a new OpenWeatherMap API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
		Logger:          options.Logger,
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 10 * time.Second
	}
	if httpOpts.RequestsPerSec == 0 {
		httpOpts.RequestsPerSec = 1
	}

	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parent := log.Logger
	if options.Logger != nil {
		parent = *options.Logger
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     parent.With().Str("component", "openweather_client").Logger(),
	}
}

// currentResponse is the subset of /data/2.5/weather the advisor uses.
type currentResponse struct {
	Cod  json.RawMessage `json:"cod"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// statusCode reads cod, which the API sends either as a number or a string.
func (r currentResponse) statusCode() (int, error) {
	raw := strings.Trim(string(r.Cod), `"`)
	if raw == "" {
		return 0, errors.New("missing cod")
	}
	return strconv.Atoi(raw)
}

// CurrentConditions fetches current weather for city,countryCode in metric units.
func (c *Client) CurrentConditions(ctx context.Context, city, countryCode string) (models.WeatherReading, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.WeatherReading{}, fmt.Errorf("%w: empty city", ErrLocationNotFound)
	}

	q := city
	if cc := strings.TrimSpace(countryCode); cc != "" {
		q += "," + cc
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	endpoint := c.baseURL + "/data/2.5/weather?" + params.Encode()

	logger := c.logger.With().Str("location", q).Logger()
	logger.Debug().Msg("Fetching current conditions")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.WeatherReading{}, fmt.Errorf("%w: creating request: %v", ErrServiceUnavailable, err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpClient.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			logger.Warn().Msg("Location not found")
			return models.WeatherReading{}, fmt.Errorf("%w: %s", ErrLocationNotFound, q)
		}
		logger.Error().Err(err).Msg("Weather request failed")
		return models.WeatherReading{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherReading{}, fmt.Errorf("%w: reading response body: %v", ErrServiceUnavailable, err)
	}

	reading, err := parseCurrent(body)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			logger.Warn().Msg("Location not found")
		} else {
			logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing weather response")
		}
		return models.WeatherReading{}, err
	}

	logger.Debug().
		Float64("temp_c", reading.TemperatureC).
		Float64("humidity", reading.HumidityPct).
		Str("condition", reading.ConditionText).
		Msg("Fetched current conditions")
	return reading, nil
}

func parseCurrent(body []byte) (models.WeatherReading, error) {
	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.WeatherReading{}, fmt.Errorf("%w: parsing JSON: %v", ErrServiceUnavailable, err)
	}

	code, err := data.statusCode()
	if err != nil {
		return models.WeatherReading{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	switch {
	case code == http.StatusNotFound:
		return models.WeatherReading{}, fmt.Errorf("%w: %s", ErrLocationNotFound, data.Message)
	case code != http.StatusOK:
		return models.WeatherReading{}, fmt.Errorf("%w: cod %d: %s", ErrServiceUnavailable, code, data.Message)
	}

	if data.Main == nil || len(data.Weather) == 0 {
		return models.WeatherReading{}, fmt.Errorf("%w: incomplete payload", ErrServiceUnavailable)
	}

	return models.WeatherReading{
		TemperatureC:  data.Main.Temp,
		HumidityPct:   data.Main.Humidity,
		ConditionText: data.Weather[0].Description,
	}, nil
}
