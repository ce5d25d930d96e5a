package weather

import (
	"strings"

	"github.com/Alias1177/KrishiMitra/models"
)

// Thresholds used by the risk rules.
const (
	HeatThresholdC       = 35.0
	DroughtHumidityPct   = 30.0
	rainConditionKeyword = "rain"
)

// riskRule pairs a predicate with the advisory it emits.
type riskRule struct {
	kind     models.RiskKind
	message  string
	guidance string
	matches  func(models.WeatherReading) bool
}

// Rules are evaluated in order and independently of each other.
var riskRules = []riskRule{
	{
		kind:     models.RiskHeat,
		message:  "Heat stress risk detected",
		guidance: "Increase irrigation and provide shade",
		matches:  func(r models.WeatherReading) bool { return r.TemperatureC > HeatThresholdC },
	},
	{
		kind:     models.RiskDrought,
		message:  "Drought risk detected",
		guidance: "Plan water usage carefully",
		matches:  func(r models.WeatherReading) bool { return r.HumidityPct < DroughtHumidityPct },
	},
	{
		kind:     models.RiskHeavyRain,
		message:  "Heavy rain risk detected",
		guidance: "Delay irrigation and protect crops",
		matches: func(r models.WeatherReading) bool {
			return strings.Contains(strings.ToLower(r.ConditionText), rainConditionKeyword)
		},
	},
}

var noMajorRisk = models.RiskAdvisory{
	Kind:    models.RiskNoMajorRisk,
	Message: "No major weather risk detected",
}

// Classify evaluates reading against the risk rules. The result holds every
// matching advisory in rule order, or exactly one NoMajorRisk advisory when
// nothing matched. Humidity outside 0-100 is used as given.
func Classify(reading models.WeatherReading) []models.RiskAdvisory {
	var advisories []models.RiskAdvisory
	for _, rule := range riskRules {
		if rule.matches(reading) {
			advisories = append(advisories, models.RiskAdvisory{
				Kind:     rule.kind,
				Message:  rule.message,
				Guidance: rule.guidance,
			})
		}
	}

	if len(advisories) == 0 {
		return []models.RiskAdvisory{noMajorRisk}
	}
	return advisories
}
