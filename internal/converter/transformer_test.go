package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"iso date-time", "2023-05-10T12:00:00", "2023-05-10"},
		{"iso with zone", "2023-05-10T12:00:00-04:00", "2023-05-10"},
		{"split at first T only", "xxTyyTzz", "xx"},
		{"leading T", "T12:00", ""},
		{"plain date", "2024-02-29", "2024-02-29"},
		{"invalid calendar date", "2023-02-30", "2023-02-30"},
		{"day first", "10/05/2023", "10/05/2023"},
		{"single digit month", "2023-5-10", "2023-5-10"},
		{"date and time with space", "2023-05-10 12:00:00", "2023-05-10 12:00:00"},
		{"free text", "yesterday", "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.raw))
		})
	}
}

func TestMatchesYear(t *testing.T) {
	tests := []struct {
		date string
		year string
		want bool
	}{
		{"2023-05-10", "", true},
		{"", "", true},
		{"2023-05-10", "2023", true},
		{"2023-05-10", "2024", false},
		{"2023", "2023", true},
		{"202", "2023", false},
		{"", "2023", false},
		{"10/05/2023", "2023", false},
		{"2023/05/10", "2023", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesYear(tt.date, tt.year), "date=%q year=%q", tt.date, tt.year)
	}
}
