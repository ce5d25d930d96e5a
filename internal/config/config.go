package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/KrishiMitra/internal/database"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	OpenWeatherAPIKey  string `env:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org"`
	DefaultCity        string `env:"DEFAULT_CITY" envDefault:"Nagpur"`
	DefaultCountry     string `env:"DEFAULT_COUNTRY" envDefault:"IN"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout     int    `env:"REQUEST_TIMEOUT" envDefault:"10"` // seconds
	RequestsPerSec     int    `env:"REQUESTS_PER_SEC" envDefault:"1"`
	MaxRetries         int    `env:"MAX_RETRIES" envDefault:"3"`
	ServerAddr         string `env:"SERVER_ADDR" envDefault:":8080"`
	AdviceRulesPath    string `env:"ADVICE_RULES_PATH"`
	TelegramBotToken   string `env:"TELEGRAM_BOT_TOKEN"`
	UseDatabase        bool   `env:"USE_DATABASE" envDefault:"false"`
	Database           database.ConnectionParams
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	// Load values from environment variables
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getEnvWithDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	cfg.DefaultCity = getEnvWithDefault("DEFAULT_CITY", "Nagpur")
	cfg.DefaultCountry = getEnvWithDefault("DEFAULT_COUNTRY", "IN")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 10)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 1)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", 3)
	cfg.ServerAddr = getEnvWithDefault("SERVER_ADDR", ":8080")
	cfg.AdviceRulesPath = os.Getenv("ADVICE_RULES_PATH")
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.UseDatabase = getEnvBoolWithDefault("USE_DATABASE", false)
	cfg.Database = database.ConnectionParams{
		Host:     getEnvWithDefault("DB_HOST", "localhost"),
		Port:     getEnvWithDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   getEnvWithDefault("DB_NAME", "krishi"),
		SSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	return &cfg, nil
}

// RequestTimeoutDuration returns RequestTimeout as a duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Logger builds the console logger used by the binaries.
func (c *Config) Logger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
