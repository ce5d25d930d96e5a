package models

// PricePoint is one observed crop price for a period (a calendar year).
type PricePoint struct {
	Period int     `json:"period"`
	Price  float64 `json:"price"`
}

// TrendModel is a fitted linear trend: price ≈ Slope*period + Intercept.
type TrendModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict extrapolates the trend to the given period.
func (m TrendModel) Predict(period int) float64 {
	return m.Slope*float64(period) + m.Intercept
}

// DefaultPriceHistory returns the reference crop price series (2018-2022).
// A fresh slice is returned on every call.
func DefaultPriceHistory() []PricePoint {
	return []PricePoint{
		{Period: 2018, Price: 1500},
		{Period: 2019, Price: 1600},
		{Period: 2020, Price: 1550},
		{Period: 2021, Price: 1700},
		{Period: 2022, Price: 1800},
	}
}

// PricePrediction is what the presentation layer shows for a price request
type PricePrediction struct {
	Crop           Crop         `json:"crop"`
	TargetPeriod   int          `json:"target_period"`
	PredictedPrice float64      `json:"predicted_price"`
	Model          TrendModel   `json:"model"`
	History        []PricePoint `json:"history"`
	Fitted         []PricePoint `json:"fitted"`
}

// WeatherReading is the parsed current-conditions triple from a weather provider
type WeatherReading struct {
	TemperatureC  float64 `json:"temperature_c"`
	HumidityPct   float64 `json:"humidity_pct"` // expected 0-100, not clamped
	ConditionText string  `json:"condition"`
}

// RiskKind classifies a weather advisory
type RiskKind string

const (
	RiskHeat        RiskKind = "HEAT"
	RiskDrought     RiskKind = "DROUGHT"
	RiskHeavyRain   RiskKind = "HEAVY_RAIN"
	RiskNoMajorRisk RiskKind = "NO_MAJOR_RISK"
)

// RiskAdvisory is a single weather risk finding
type RiskAdvisory struct {
	Kind     RiskKind `json:"kind"`
	Message  string   `json:"message"`
	Guidance string   `json:"guidance,omitempty"`
}

// WeatherReport combines a reading with the advisories derived from it
type WeatherReport struct {
	Location   string         `json:"location"`
	Reading    WeatherReading `json:"reading"`
	Advisories []RiskAdvisory `json:"advisories"`
}

// HasRisk reports whether any advisory other than NoMajorRisk is present.
func (r WeatherReport) HasRisk() bool {
	for _, a := range r.Advisories {
		if a.Kind != RiskNoMajorRisk {
			return true
		}
	}
	return false
}

// Crop is one of the supported crops
type Crop string

const (
	CropRice      Crop = "Rice"
	CropWheat     Crop = "Wheat"
	CropMaize     Crop = "Maize"
	CropCotton    Crop = "Cotton"
	CropSugarcane Crop = "Sugarcane"
)

// Crops lists supported crops in menu order.
var Crops = []Crop{CropRice, CropWheat, CropMaize, CropCotton, CropSugarcane}

// Problem is a farming problem a user asks advice for
type Problem string

const (
	ProblemLowYield           Problem = "LowYield"
	ProblemPestAttack         Problem = "PestAttack"
	ProblemLeafYellowing      Problem = "LeafYellowing"
	ProblemWaterStress        Problem = "WaterStress"
	ProblemSoilFertilityIssue Problem = "SoilFertilityIssue"
)

// Problems lists supported problems in menu order.
var Problems = []Problem{
	ProblemLowYield,
	ProblemPestAttack,
	ProblemLeafYellowing,
	ProblemWaterStress,
	ProblemSoilFertilityIssue,
}

var problemDisplayNames = map[Problem]string{
	ProblemLowYield:           "Low Yield",
	ProblemPestAttack:         "Pest Attack",
	ProblemLeafYellowing:      "Leaf Yellowing",
	ProblemWaterStress:        "Water Stress",
	ProblemSoilFertilityIssue: "Soil Fertility Issue",
}

// DisplayName returns the human readable problem name ("Low Yield").
func (p Problem) DisplayName() string {
	if name, ok := problemDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

// DemandTier is a coarse market demand bucket
type DemandTier string

const (
	DemandHigh     DemandTier = "HIGH"
	DemandModerate DemandTier = "MODERATE"
	DemandLow      DemandTier = "LOW"
)

// MarketRecommendation is the outcome of a demand index lookup
type MarketRecommendation struct {
	Tier           DemandTier `json:"tier"`
	Message        string     `json:"message"`
	Recommendation string     `json:"recommendation"`
}

// Subscriber is a Telegram chat registered for weather risk alerts
type Subscriber struct {
	ChatID      int64  `json:"chat_id"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}
