package prediction

import (
	"errors"

	"github.com/Alias1177/KrishiMitra/models"
)

var (
	// ErrInsufficientData is returned when fewer than two points are given.
	ErrInsufficientData = errors.New("insufficient price history: need at least 2 points")
	// ErrDegenerateInput is returned when every point shares the same period.
	ErrDegenerateInput = errors.New("degenerate price history: zero variance in period")
)

// FitTrend fits price = slope*period + intercept by ordinary least squares.
// Periods are centered on their mean before accumulating the sums so that
// calendar years do not cost precision.
func FitTrend(history []models.PricePoint) (*models.TrendModel, error) {
	if len(history) < 2 {
		return nil, ErrInsufficientData
	}

	periods := make([]float64, len(history))
	prices := make([]float64, len(history))
	for i, p := range history {
		periods[i] = float64(p.Period)
		prices[i] = p.Price
	}

	meanPeriod := calculateAverage(periods)
	meanPrice := calculateAverage(prices)

	var sxx, sxy float64
	for i := range periods {
		dx := periods[i] - meanPeriod
		sxx += dx * dx
		sxy += dx * (prices[i] - meanPrice)
	}

	if sxx == 0 {
		return nil, ErrDegenerateInput
	}

	slope := sxy / sxx
	return &models.TrendModel{
		Slope:     slope,
		Intercept: meanPrice - slope*meanPeriod,
	}, nil
}

// FitAndPredict fits a trend over history and extrapolates it to target.
// Any target period is accepted.
func FitAndPredict(history []models.PricePoint, target int) (float64, error) {
	model, err := FitTrend(history)
	if err != nil {
		return 0, err
	}
	return model.Predict(target), nil
}

// FittedSeries evaluates the model at every historical period, in the order
// the history was given.
func FittedSeries(model models.TrendModel, history []models.PricePoint) []models.PricePoint {
	fitted := make([]models.PricePoint, len(history))
	for i, p := range history {
		fitted[i] = models.PricePoint{Period: p.Period, Price: model.Predict(p.Period)}
	}
	return fitted
}

// calculateAverage calculates simple average
func calculateAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, value := range values {
		sum += value
	}

	return sum / float64(len(values))
}
