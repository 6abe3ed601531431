package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aishakabeer/todolist/pkg/models"
)

// Cell is one day of a month grid. Padding positions are nil.
type Cell struct {
	Day     int         `json:"day"`
	Date    models.Date `json:"date"`
	IsToday bool        `json:"is_today"`
}

// Week is seven grid positions starting at the builder's WeekStart.
type Week [7]*Cell

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

type MonthGrid struct {
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	MonthName string       `json:"month_name"`
	WeekStart time.Weekday `json:"week_start"`
	Weeks     []Week       `json:"weeks"`
	Prev      YearMonth    `json:"prev"`
	Next      YearMonth    `json:"next"`
}

// Builder lays out month grids. The zero value starts weeks on Sunday and
// uses the system clock; use NewBuilder for the Monday-first default.
type Builder struct {
	WeekStart time.Weekday
	Clock     Clock
}

func NewBuilder(clock Clock) Builder {
	if clock == nil {
		clock = SystemClock{}
	}
	return Builder{WeekStart: time.Monday, Clock: clock}
}

// Build returns the grid for month in year. month must be within 1-12.
func (b Builder) Build(year int, month time.Month) MonthGrid {
	clock := b.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	today := Today(clock)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) - int(b.WeekStart) + 7) % 7
	days := DaysIn(year, month)

	var weeks []Week
	var week Week
	pos := lead
	for day := 1; day <= days; day++ {
		date := models.Date{Year: year, Month: month, Day: day}
		week[pos] = &Cell{Day: day, Date: date, IsToday: date == today}
		pos++
		if pos == 7 {
			weeks = append(weeks, week)
			week = Week{}
			pos = 0
		}
	}
	if pos > 0 {
		weeks = append(weeks, week)
	}

	return MonthGrid{
		Year:      year,
		Month:     month,
		MonthName: month.String(),
		WeekStart: b.WeekStart,
		Weeks:     weeks,
		Prev:      PrevMonth(year, month),
		Next:      NextMonth(year, month),
	}
}

// Weekdays returns the abbreviated weekday names in grid column order.
func (b Builder) Weekdays() []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(b.WeekStart) + i) % 7).String()[:3]
	}
	return names
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last day of the month, both inclusive.
func MonthRange(year int, month time.Month) (models.Date, models.Date) {
	return models.Date{Year: year, Month: month, Day: 1},
		models.Date{Year: year, Month: month, Day: DaysIn(year, month)}
}

func PrevMonth(year int, month time.Month) YearMonth {
	if month == time.January {
		return YearMonth{Year: year - 1, Month: time.December}
	}
	return YearMonth{Year: year, Month: month - 1}
}

func NextMonth(year int, month time.Month) YearMonth {
	if month == time.December {
		return YearMonth{Year: year + 1, Month: time.January}
	}
	return YearMonth{Year: year, Month: month + 1}
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
