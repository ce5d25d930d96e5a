package prediction

import (
	"errors"
	"math"
	"testing"

	"github.com/Alias1177/KrishiMitra/models"
)

const tolerance = 1e-6

func TestFitAndPredictDefaultHistory(t *testing.T) {
	history := models.DefaultPriceHistory()

	first, err := FitAndPredict(history, 2024)
	if err != nil {
		t.Fatalf("FitAndPredict() error = %v", err)
	}
	if math.Abs(first-1910) > tolerance {
		t.Errorf("FitAndPredict() = %v, want 1910", first)
	}

	for i := 0; i < 10; i++ {
		got, err := FitAndPredict(history, 2024)
		if err != nil {
			t.Fatalf("FitAndPredict() error = %v", err)
		}
		if math.Abs(got-first) > tolerance {
			t.Fatalf("run %d: FitAndPredict() = %v, want %v", i, got, first)
		}
	}
}

func TestFitTrendLinearExactness(t *testing.T) {
	history := make([]models.PricePoint, 0, 5)
	for period := 1; period <= 5; period++ {
		history = append(history, models.PricePoint{Period: period, Price: 10*float64(period) + 3})
	}

	model, err := FitTrend(history)
	if err != nil {
		t.Fatalf("FitTrend() error = %v", err)
	}
	if math.Abs(model.Slope-10) > tolerance {
		t.Errorf("slope = %v, want 10", model.Slope)
	}
	if math.Abs(model.Intercept-3) > tolerance {
		t.Errorf("intercept = %v, want 3", model.Intercept)
	}

	for _, target := range []int{-4, 0, 6, 100, 2035} {
		got, err := FitAndPredict(history, target)
		if err != nil {
			t.Fatalf("FitAndPredict(%d) error = %v", target, err)
		}
		want := 10*float64(target) + 3
		if math.Abs(got-want) > tolerance {
			t.Errorf("FitAndPredict(%d) = %v, want %v", target, got, want)
		}
	}
}

func TestFitTrendErrors(t *testing.T) {
	tests := []struct {
		name    string
		history []models.PricePoint
		wantErr error
	}{
		{
			name:    "empty history",
			history: nil,
			wantErr: ErrInsufficientData,
		},
		{
			name:    "single point",
			history: []models.PricePoint{{Period: 2020, Price: 100}},
			wantErr: ErrInsufficientData,
		},
		{
			name:    "same period twice",
			history: []models.PricePoint{{Period: 2020, Price: 100}, {Period: 2020, Price: 200}},
			wantErr: ErrDegenerateInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitAndPredict(tt.history, 2021)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FitAndPredict() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFitTrendOrderIndependent(t *testing.T) {
	history := models.DefaultPriceHistory()
	reversed := make([]models.PricePoint, len(history))
	for i, p := range history {
		reversed[len(history)-1-i] = p
	}

	a, err := FitTrend(history)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FitTrend(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a.Slope-b.Slope) > tolerance || math.Abs(a.Intercept-b.Intercept) > tolerance {
		t.Errorf("fit depends on order: %+v vs %+v", a, b)
	}
}

func TestFittedSeries(t *testing.T) {
	history := models.DefaultPriceHistory()
	model, err := FitTrend(history)
	if err != nil {
		t.Fatal(err)
	}

	fitted := FittedSeries(*model, history)
	if len(fitted) != len(history) {
		t.Fatalf("len(fitted) = %d, want %d", len(fitted), len(history))
	}

	// slope 70 through the mean point (2020, 1630)
	want := []float64{1490, 1560, 1630, 1700, 1770}
	for i, p := range fitted {
		if p.Period != history[i].Period {
			t.Errorf("fitted[%d].Period = %d, want %d", i, p.Period, history[i].Period)
		}
		if math.Abs(p.Price-want[i]) > tolerance {
			t.Errorf("fitted[%d].Price = %v, want %v", i, p.Price, want[i])
		}
	}
}
