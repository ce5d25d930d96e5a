package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Alias1177/KrishiMitra/models"
	_ "github.com/lib/pq"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (p ConnectionParams) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.DSN())
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			crop TEXT NOT NULL,
			period INTEGER NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (crop, period)
		)
	`); err != nil {
		return fmt.Errorf("creating price_history: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS weather_subscribers (
			chat_id BIGINT PRIMARY KEY,
			city TEXT NOT NULL,
			country_code TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating weather_subscribers: %w", err)
	}

	return nil
}

// PriceHistory returns the stored series for crop ordered by period.
func (db *DB) PriceHistory(ctx context.Context, crop models.Crop) ([]models.PricePoint, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT period, price
		FROM price_history
		WHERE crop = $1
		ORDER BY period
	`, string(crop))
	if err != nil {
		return nil, fmt.Errorf("price history query failed: %w", err)
	}
	defer rows.Close()

	var history []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Period, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning price history: %w", err)
		}
		history = append(history, p)
	}

	return history, rows.Err()
}

// UpsertPrice stores one price point for crop, replacing an existing one for the same period.
func (db *DB) UpsertPrice(ctx context.Context, crop models.Crop, p models.PricePoint) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO price_history (crop, period, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (crop, period)
		DO UPDATE SET price = EXCLUDED.price
	`, string(crop), p.Period, p.Price)

	return err
}

// SeedDefaultHistory stores the reference series for crop inside one transaction.
func (db *DB) SeedDefaultHistory(ctx context.Context, crop models.Crop) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, p := range models.DefaultPriceHistory() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_history (crop, period, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (crop, period) DO NOTHING
		`, string(crop), p.Period, p.Price); err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding %s %d: %w", crop, p.Period, err)
		}
	}

	return tx.Commit()
}

// AddSubscriber registers (or moves) a chat for weather risk alerts
func (db *DB) AddSubscriber(ctx context.Context, s models.Subscriber) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO weather_subscribers (chat_id, city, country_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id)
		DO UPDATE SET
			city = EXCLUDED.city,
			country_code = EXCLUDED.country_code
	`, s.ChatID, s.City, s.CountryCode)

	return err
}

// RemoveSubscriber deletes a chat from weather risk alerts
func (db *DB) RemoveSubscriber(ctx context.Context, chatID int64) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM weather_subscribers
		WHERE chat_id = $1
	`, chatID)

	return err
}

// ListSubscribers returns every registered chat
func (db *DB) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT chat_id, city, country_code
		FROM weather_subscribers
		ORDER BY chat_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.ChatID, &s.City, &s.CountryCode); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}
