package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "valid", in: "2024-03-15", want: NewDate(2024, time.March, 15)},
		{name: "leap day", in: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{name: "not a leap year", in: "2023-02-29", wantErr: true},
		{name: "day overflow", in: "2024-04-31", wantErr: true},
		{name: "garbage", in: "tomorrow", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidDate), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDateNormalizes(t *testing.T) {
	assert.Equal(t, "2024-03-01", NewDate(2024, time.February, 30).String())
	assert.Equal(t, "2023-12-31", NewDate(2024, time.January, 0).String())
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	morning := time.Date(2024, time.May, 2, 0, 30, 0, 0, loc)
	night := time.Date(2024, time.May, 2, 23, 59, 0, 0, loc)

	assert.True(t, IsSameDay(DateOf(morning), DateOf(night)))
	assert.Equal(t, "2024-05-02", DateOf(morning).String())
}

func TestCompare(t *testing.T) {
	a := NewDate(2023, time.December, 31)
	b := NewDate(2024, time.January, 1)
	c := NewDate(2024, time.February, 1)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, 0, b.Compare(NewDate(2024, time.January, 1)))
	assert.True(t, a.Before(c))
	assert.True(t, c.After(a))
}

func TestTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-07-04")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-04", string(b))

	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.UnmarshalText([]byte("2024-13-01")))
}

func TestShiftMonth(t *testing.T) {
	jan31 := NewDate(2024, time.January, 31)
	assert.Equal(t, "2024-02-01", ShiftMonth(jan31, 1).String())
	assert.Equal(t, "2023-12-01", ShiftMonth(jan31, -1).String())
	assert.Equal(t, "2025-01-01", ShiftMonth(NewDate(2024, time.December, 9), 1).String())
	assert.Equal(t, "2024-02-29", LastOfMonth(jan31.AddDays(1)).String())
}
