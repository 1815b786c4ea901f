package service

import "time"

// Date range presets accepted by list endpoints
const (
	DateRangeLast7Days  = "Last 7 Days"
	DateRangeLast30Days = "Last 30 Days"
	DateRangeAllTime    = "All Time"
)

// dateRangeStart returns the lower bound for a preset, or nil when the preset does not bound the range
func dateRangeStart(preset string, now time.Time) (*time.Time, error) {
	var start time.Time
	switch preset {
	case "", DateRangeAllTime:
		return nil, nil
	case DateRangeLast7Days:
		start = now.AddDate(0, 0, -7)
	case DateRangeLast30Days:
		start = now.AddDate(0, 0, -30)
	default:
		return nil, validationError("dateRange must be one of: %s, %s, %s", DateRangeLast7Days, DateRangeLast30Days, DateRangeAllTime)
	}
	return &start, nil
}

// parseDay accepts YYYY-MM-DD or RFC3339
func parseDay(field, value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, validationError("%s must be a date (YYYY-MM-DD) or RFC3339 timestamp", field)
}
