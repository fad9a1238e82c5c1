package shared

import "time"

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp; an empty value
// parses to the zero time so optional fields can be skipped.
func ParseDate(value string) (time.Time, error) {
	switch {
	case value == "":
		return time.Time{}, nil
	case len(value) == len(time.DateOnly):
		return time.Parse(time.DateOnly, value)
	default:
		return time.Parse(time.RFC3339, value)
	}
}
