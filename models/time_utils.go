package models

// Target years accepted by the price prediction pages.
const (
	MinTargetYear     = 2023
	MaxTargetYear     = 2035
	DefaultTargetYear = 2024
)

// ValidTargetYear reports whether year is inside the range the
// presentation layers allow for extrapolation.
func ValidTargetYear(year int) bool {
	return year >= MinTargetYear && year <= MaxTargetYear
}
