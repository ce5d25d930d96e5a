package advisory

import (
	"fmt"

	"github.com/spf13/viper"
)

type ruleFile struct {
	Default string      `mapstructure:"default"`
	Rules   []ruleEntry `mapstructure:"rules"`
}

type ruleEntry struct {
	Crop    string `mapstructure:"crop"`
	Problem string `mapstructure:"problem"`
	Advice  string `mapstructure:"advice"`
}

// LoadAdviceRules reads extra advice rules from a YAML, JSON or TOML file.
//
//	default: Follow best agricultural practices
//	rules:
//	  - crop: Cotton
//	    problem: Pest Attack
//	    advice: Use pheromone traps for bollworm
func LoadAdviceRules(path string) (AdviceTable, string, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("failed to read advice rules: %w", err)
	}

	var f ruleFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, "", fmt.Errorf("failed to parse advice rules: %w", err)
	}

	table := make(AdviceTable, len(f.Rules))
	for i, r := range f.Rules {
		crop, err := ParseCrop(r.Crop)
		if err != nil {
			return nil, "", fmt.Errorf("rule %d: %w", i, err)
		}
		problem, err := ParseProblem(r.Problem)
		if err != nil {
			return nil, "", fmt.Errorf("rule %d: %w", i, err)
		}
		if r.Advice == "" {
			return nil, "", fmt.Errorf("rule %d: %w: empty advice", i, ErrInvalidInput)
		}
		table[RuleKey{Crop: crop, Problem: problem}] = r.Advice
	}

	return table, f.Default, nil
}

// NewEngineFromFile builds an engine whose rules are the built-ins overlaid
// with the rules in path. An empty path yields the built-in engine.
func NewEngineFromFile(path string) (*Engine, error) {
	if path == "" {
		return NewEngine(nil), nil
	}

	extra, def, err := LoadAdviceRules(path)
	if err != nil {
		return nil, err
	}

	e := NewEngine(DefaultAdviceTable().Merge(extra))
	if def != "" {
		e.defaultAdvice = def
	}
	return e, nil
}
