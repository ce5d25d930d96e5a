package app

import (
	"context"
	"fmt"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/internal/api/openweather"
	"github.com/Alias1177/KrishiMitra/internal/config"
	"github.com/Alias1177/KrishiMitra/internal/database"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App holds the wired components shared by the binaries.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Advisor *advisor.Service
	// DB is nil unless USE_DATABASE is set.
	DB *database.DB
}

// Build wires configuration into an advisor service and installs the
// configured logger as the global zerolog logger. With a database the
// price history is read from PostgreSQL after the reference series is
// inserted for any missing (crop, period) rows.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := cfg.Logger()
	log.Logger = logger

	rules, err := advisory.NewEngineFromFile(cfg.AdviceRulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading advice rules: %w", err)
	}

	weatherClient := openweather.NewClient(openweather.ClientOptions{
		APIKey:         cfg.OpenWeatherAPIKey,
		BaseURL:        cfg.OpenWeatherBaseURL,
		RequestTimeout: cfg.RequestTimeoutDuration(),
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
		Logger:         &logger,
	})

	a := &App{Config: cfg, Logger: logger}
	deps := advisor.Dependencies{
		Weather: weatherClient,
		Rules:   rules,
		Logger:  logger,
	}

	if cfg.UseDatabase {
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		for _, crop := range models.Crops {
			if err := db.SeedDefaultHistory(ctx, crop); err != nil {
				db.Close()
				return nil, fmt.Errorf("seeding %s history: %w", crop, err)
			}
		}
		a.DB = db
		deps.History = db
		logger.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Using PostgreSQL price history")
	}

	a.Advisor = advisor.NewService(deps)
	return a, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
