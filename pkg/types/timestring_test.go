package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "09:30"},
		{name: "midnight", input: "00:00"},
		{name: "last minute", input: "23:59"},
		{name: "hour overflow", input: "24:00", wantErr: true},
		{name: "no leading zero", input: "9:30", wantErr: true},
		{name: "seconds", input: "09:30:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 22*60+15, TimeString("22:15").Minutes())
	assert.Equal(t, -1, TimeString("bogus").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("08:01"))
	assert.False(t, TimeString("08:00").IsBefore("08:00"))
	assert.True(t, TimeString("22:00").IsAfter("02:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("22:00:00")))
	assert.Equal(t, TimeString("22:00"), ts)

	require.NoError(t, ts.Scan("07:45:00"))
	assert.Equal(t, TimeString("07:45"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 6, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("06:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestNewTimeString(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	ts := NewTimeString(time.Date(2026, 10, 16, 18, 5, 0, 0, loc))
	assert.Equal(t, TimeString("18:05"), ts)
}
