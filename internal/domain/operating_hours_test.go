package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

func TestDayHours_ContainsClock(t *testing.T) {
	tests := []struct {
		name       string
		hours      DayHours
		start, end types.TimeString
		want       bool
	}{
		{"day hours inside", DayHours{"08:00", "22:00"}, "10:00", "11:00", true},
		{"day hours exact bounds", DayHours{"08:00", "22:00"}, "08:00", "22:00", true},
		{"day hours before open", DayHours{"08:00", "22:00"}, "07:30", "08:30", false},
		{"day hours after close", DayHours{"08:00", "22:00"}, "21:30", "22:30", false},
		{"closing at midnight", DayHours{"08:00", "00:00"}, "23:00", "00:00", true},
		{"crossing contains late evening", DayHours{"22:00", "02:00"}, "22:00", "23:00", true},
		{"crossing contains across midnight", DayHours{"22:00", "02:00"}, "23:30", "01:00", true},
		{"crossing contains early morning", DayHours{"22:00", "02:00"}, "00:30", "01:30", true},
		{"crossing rejects spill past close", DayHours{"22:00", "02:00"}, "01:30", "03:00", false},
		{"crossing rejects morning", DayHours{"22:00", "02:00"}, "03:00", "04:00", false},
		{"crossing rejects before open", DayHours{"22:00", "02:00"}, "21:00", "22:30", false},
		{"equal bounds never match", DayHours{"10:00", "10:00"}, "10:00", "11:00", false},
		{"invalid candidate", DayHours{"08:00", "22:00"}, "bad", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hours.ContainsClock(tt.start, tt.end))
		})
	}
}

func TestDayHours_Validate(t *testing.T) {
	assert.NoError(t, DayHours{"22:00", "02:00"}.Validate())
	assert.ErrorIs(t, DayHours{"10:00", "10:00"}.Validate(), ErrInvalidOperatingHours)
	assert.ErrorIs(t, DayHours{"25:00", "10:00"}.Validate(), ErrInvalidOperatingHours)
}

func TestOperatingHours_ForDay(t *testing.T) {
	hours := OperatingHours{time.Monday: {"08:00", "22:00"}}

	h, ok := hours.ForDay(time.Monday)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("08:00"), h.From)

	_, ok = hours.ForDay(time.Sunday)
	assert.False(t, ok)

	_, ok = OperatingHours(nil).ForDay(time.Monday)
	assert.False(t, ok)
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseWeekday("SAT")
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, d)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}
