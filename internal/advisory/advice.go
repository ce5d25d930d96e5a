package advisory

import (
	"fmt"
	"strings"

	"github.com/Alias1177/KrishiMitra/models"
)

// DefaultAdvice is returned for any crop/problem pair without a rule.
const DefaultAdvice = "Follow best agricultural practices"

// RuleKey identifies an advice rule.
type RuleKey struct {
	Crop    models.Crop
	Problem models.Problem
}

// AdviceTable maps crop/problem pairs to advice text.
type AdviceTable map[RuleKey]string

var builtinAdvice = AdviceTable{
	{Crop: models.CropRice, Problem: models.ProblemLowYield}:       "Use quality seeds and apply nitrogen fertilizer at tillering stage",
	{Crop: models.CropWheat, Problem: models.ProblemPestAttack}:    "Monitor aphids and use integrated pest management",
	{Crop: models.CropMaize, Problem: models.ProblemLeafYellowing}: "Apply urea immediately",
}

// DefaultAdviceTable returns a copy of the built-in rules.
func DefaultAdviceTable() AdviceTable {
	return builtinAdvice.Merge(nil)
}

// Merge returns a new table holding t overlaid with other.
func (t AdviceTable) Merge(other AdviceTable) AdviceTable {
	out := make(AdviceTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Engine answers advice and market questions from its rule tables.
// The zero value is not usable; use NewEngine.
type Engine struct {
	advice        AdviceTable
	defaultAdvice string
}

// NewEngine creates an engine over table. A nil table means the built-in rules.
func NewEngine(table AdviceTable) *Engine {
	if table == nil {
		table = DefaultAdviceTable()
	}
	return &Engine{advice: table, defaultAdvice: DefaultAdvice}
}

// Advise looks up the exact crop/problem pair and falls back to the default advice.
func (e *Engine) Advise(crop models.Crop, problem models.Problem) string {
	if advice, ok := e.advice[RuleKey{Crop: crop, Problem: problem}]; ok {
		return advice
	}
	return e.defaultAdvice
}

// Recommend maps a demand index to a market recommendation.
func (e *Engine) Recommend(demandIndex int) (models.MarketRecommendation, error) {
	return Recommend(demandIndex)
}

var defaultEngine = NewEngine(nil)

// Advise answers from the built-in rule table.
func Advise(crop models.Crop, problem models.Problem) string {
	return defaultEngine.Advise(crop, problem)
}

// ParseCrop resolves a crop by its exact name.
func ParseCrop(s string) (models.Crop, error) {
	s = strings.TrimSpace(s)
	for _, c := range models.Crops {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown crop %q", ErrInvalidInput, s)
}

// ParseProblem resolves a problem by its canonical ("LowYield") or
// display ("Low Yield") name.
func ParseProblem(s string) (models.Problem, error) {
	s = strings.TrimSpace(s)
	for _, p := range models.Problems {
		if string(p) == s || p.DisplayName() == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown problem %q", ErrInvalidInput, s)
}
