package models

import "context"

// PriceHistorySource provides the price series a trend is fitted on.
type PriceHistorySource interface {
	PriceHistory(ctx context.Context, crop Crop) ([]PricePoint, error)
}

// WeatherProvider fetches current conditions for a location.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, city, countryCode string) (WeatherReading, error)
}

// StaticHistory serves the same series for every crop.
type StaticHistory []PricePoint

func (s StaticHistory) PriceHistory(_ context.Context, _ Crop) ([]PricePoint, error) {
	out := make([]PricePoint, len(s))
	copy(out, s)
	return out, nil
}
