package advisory

import (
	"errors"
	"fmt"

	"github.com/Alias1177/KrishiMitra/models"
)

// Demand index bounds.
const (
	MinDemandIndex = 1
	MaxDemandIndex = 10
)

// ErrInvalidInput is returned for values outside an accepted domain.
var ErrInvalidInput = errors.New("invalid input")

type demandThreshold struct {
	min            int
	tier           models.DemandTier
	message        string
	recommendation string
}

// Ordered from the highest threshold down; the first match wins.
var demandTiers = []demandThreshold{
	{min: 7, tier: models.DemandHigh, message: "High demand expected", recommendation: "wait and sell later"},
	{min: 4, tier: models.DemandModerate, message: "Moderate demand expected", recommendation: "sell based on storage"},
	{min: MinDemandIndex, tier: models.DemandLow, message: "Low demand expected", recommendation: "sell early to avoid losses"},
}

// Recommend maps a demand index in [1,10] to its tier. Boundary values
// (7 and 4) belong to the higher tier.
func Recommend(demandIndex int) (models.MarketRecommendation, error) {
	if demandIndex < MinDemandIndex || demandIndex > MaxDemandIndex {
		return models.MarketRecommendation{}, fmt.Errorf("%w: demand index %d outside [%d,%d]",
			ErrInvalidInput, demandIndex, MinDemandIndex, MaxDemandIndex)
	}

	for _, t := range demandTiers {
		if demandIndex >= t.min {
			return models.MarketRecommendation{
				Tier:           t.tier,
				Message:        t.message,
				Recommendation: t.recommendation,
			}, nil
		}
	}

	// unreachable: the last threshold is MinDemandIndex
	return models.MarketRecommendation{}, fmt.Errorf("%w: demand index %d", ErrInvalidInput, demandIndex)
}
