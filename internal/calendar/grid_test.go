package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aishakabeer/todolist/pkg/models"
)

func fixedBuilder(y int, m time.Month, d int) Builder {
	return NewBuilder(FixedClock(time.Date(y, m, d, 10, 30, 0, 0, time.UTC)))
}

func TestBuildEveryMonthHasCompleteWeeks(t *testing.T) {
	b := fixedBuilder(2024, time.June, 1)
	for _, year := range []int{1900, 2000, 2023, 2024, 2100} {
		for month := time.January; month <= time.December; month++ {
			grid := b.Build(year, month)

			var days []int
			for _, week := range grid.Weeks {
				require.Len(t, week, 7)
				for _, cell := range week {
					if cell != nil {
						days = append(days, cell.Day)
						assert.Equal(t, models.Date{Year: year, Month: month, Day: cell.Day}, cell.Date)
					}
				}
			}

			want := make([]int, DaysIn(year, month))
			for i := range want {
				want[i] = i + 1
			}
			assert.Equal(t, want, days, "%d-%02d", year, month)
		}
	}
}

func TestBuildLeapFebruary(t *testing.T) {
	b := fixedBuilder(2024, time.June, 1)

	count := func(g MonthGrid) int {
		n := 0
		for _, w := range g.Weeks {
			for _, c := range w {
				if c != nil {
					n++
				}
			}
		}
		return n
	}

	assert.Equal(t, 29, count(b.Build(2024, time.February)))
	assert.Equal(t, 28, count(b.Build(2023, time.February)))
	assert.Equal(t, 28, count(b.Build(1900, time.February)))
	assert.Equal(t, 29, count(b.Build(2000, time.February)))
}

func TestBuildMondayFirstLayout(t *testing.T) {
	// March 2024 starts on a Friday and ends on a Sunday.
	grid := fixedBuilder(2024, time.June, 1).Build(2024, time.March)

	require.Len(t, grid.Weeks, 5)
	first := grid.Weeks[0]
	for i := 0; i < 4; i++ {
		assert.Nil(t, first[i])
	}
	require.NotNil(t, first[4])
	assert.Equal(t, 1, first[4].Day)

	last := grid.Weeks[4]
	require.NotNil(t, last[6])
	assert.Equal(t, 31, last[6].Day)
	assert.Equal(t, "March", grid.MonthName)
}

func TestBuildSundayFirstLayout(t *testing.T) {
	b := Builder{WeekStart: time.Sunday, Clock: FixedClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	grid := b.Build(2024, time.September)

	// September 1st 2024 is a Sunday.
	require.NotNil(t, grid.Weeks[0][0])
	assert.Equal(t, 1, grid.Weeks[0][0].Day)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, b.Weekdays())
}

func TestBuildFlagsToday(t *testing.T) {
	grid := fixedBuilder(2024, time.March, 15).Build(2024, time.March)

	var today []int
	for _, w := range grid.Weeks {
		for _, c := range w {
			if c != nil && c.IsToday {
				today = append(today, c.Day)
			}
		}
	}
	assert.Equal(t, []int{15}, today)

	other := fixedBuilder(2024, time.March, 15).Build(2024, time.April)
	for _, w := range other.Weeks {
		for _, c := range w {
			if c != nil {
				assert.False(t, c.IsToday)
			}
		}
	}
}

func TestTodayUsesClockLocation(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*60*60)
	instant := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15", Today(FixedClock(instant)).String())
	assert.Equal(t, "2024-03-16", Today(FixedClock(instant.In(tz))).String())
}

func TestMonthNavigationRollsOverYears(t *testing.T) {
	grid := fixedBuilder(2024, time.June, 1).Build(2024, time.January)
	assert.Equal(t, YearMonth{Year: 2023, Month: time.December}, grid.Prev)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, grid.Next)

	grid = fixedBuilder(2024, time.June, 1).Build(2024, time.December)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.November}, grid.Prev)
	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, grid.Next)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", start.String())
	assert.Equal(t, "2024-02-29", end.String())

	start, end = MonthRange(2023, time.December)
	assert.Equal(t, "2023-12-01", start.String())
	assert.Equal(t, "2023-12-31", end.String())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"monday", time.Monday},
		{"Mon", time.Monday},
		{" SUNDAY ", time.Sunday},
		{"sat", time.Saturday},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseWeekday("funday")
	assert.Error(t, err)
}
