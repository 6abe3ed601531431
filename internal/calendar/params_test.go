package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseYearMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		year      string
		month     string
		wantYear  int
		wantMonth time.Month
	}{
		{"both valid", "2023", "7", 2023, time.July},
		{"both empty", "", "", 2024, time.March},
		{"year only", "2020", "", 2020, time.March},
		{"month only", "", "11", 2024, time.November},
		{"non-numeric year", "abc", "7", 2024, time.March},
		{"non-numeric month", "2023", "abc", 2024, time.March},
		{"month too large", "2023", "13", 2024, time.March},
		{"month zero", "2023", "0", 2024, time.March},
		{"negative year", "-5", "1", 2024, time.March},
		{"whitespace", " 2022 ", " 2 ", 2022, time.February},
		{"float", "2023.5", "1", 2024, time.March},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m := ParseYearMonth(tt.year, tt.month, now)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}
