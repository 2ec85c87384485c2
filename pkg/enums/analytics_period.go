package enums

import "fmt"

// AnalyticsPeriod selects the time bucket for revenue aggregates.
type AnalyticsPeriod string

const (
	AnalyticsPeriodDay   AnalyticsPeriod = "day"
	AnalyticsPeriodWeek  AnalyticsPeriod = "week"
	AnalyticsPeriodMonth AnalyticsPeriod = "month"
	AnalyticsPeriodYear  AnalyticsPeriod = "year"
)

var validAnalyticsPeriods = []AnalyticsPeriod{
	AnalyticsPeriodDay,
	AnalyticsPeriodWeek,
	AnalyticsPeriodMonth,
	AnalyticsPeriodYear,
}

// String implements fmt.Stringer.
func (a AnalyticsPeriod) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AnalyticsPeriod.
func (a AnalyticsPeriod) IsValid() bool {
	for _, candidate := range validAnalyticsPeriods {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsPeriod converts raw input into an AnalyticsPeriod, defaulting
// to month for empty input.
func ParseAnalyticsPeriod(value string) (AnalyticsPeriod, error) {
	if value == "" {
		return AnalyticsPeriodMonth, nil
	}
	for _, candidate := range validAnalyticsPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics period %q", value)
}
