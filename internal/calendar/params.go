package calendar

import (
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1
	maxYear = 9999
)

// ParseYearMonth reads optional year and month request values. Anything
// missing, non-numeric or out of range falls back to the month of now; a
// failure in either value resets both.
func ParseYearMonth(yearStr, monthStr string, now time.Time) (int, time.Month) {
	year, month := now.Year(), now.Month()

	y, ok := parseInt(yearStr, year)
	if !ok || y < minYear || y > maxYear {
		return year, month
	}
	m, ok := parseInt(monthStr, int(month))
	if !ok || m < 1 || m > 12 {
		return year, month
	}
	return y, time.Month(m)
}

// parseInt returns fallback for blank input and false for garbage.
func parseInt(s string, fallback int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
