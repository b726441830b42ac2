package models

import (
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseSchedule combines a date and a wall-clock time in loc.
// Times with seconds are accepted as well.
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, InvalidInputError{Field: "schedule", Msg: "date and time are required"}
	}

	for _, layout := range []string{TimeLayout, "15:04:05"} {
		t, err := time.ParseInLocation(DateLayout+"T"+layout, date+"T"+clock, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidInput("schedule", "malformed date/time %q %q", date, clock)
}
