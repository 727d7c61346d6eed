package models

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const SecondsPerDay = 86400

var ErrInvalidDay = errors.New("day must be a unix timestamp or YYYY-MM-DD")

// ParseDay accepts a unix timestamp or a calendar date, read as UTC.
func ParseDay(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := cast.ToInt64E(raw); err == nil {
		return ts, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return 0, ErrInvalidDay
	}
	return t.Unix(), nil
}

// DayStart truncates a unix timestamp to the start of its UTC day.
func DayStart(ts int64) int64 {
	return ts / SecondsPerDay * SecondsPerDay
}

// FilterByDay returns the index of the daily entry sharing the UTC day of
// ts, or -1 if not found.
func FilterByDay(daily []Daily, ts int64) int {
	target := DayStart(ts)
	for i, d := range daily {
		if DayStart(d.Timestamp) == target {
			return i
		}
	}
	return -1
}

// HourlyWithin returns the hourly entries in [from, to).
func HourlyWithin(hourly []Hourly, from, to int64) []Hourly {
	out := make([]Hourly, 0, 24)
	for _, h := range hourly {
		if h.Timestamp >= from && h.Timestamp < to {
			out = append(out, h)
		}
	}
	return out
}
