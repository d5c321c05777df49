package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	e := New()
	la := mustZone(t, e, "America/Los_Angeles")
	nextDay := e.Add(testDate, la, Day, 1)

	assert.Equal(t, 1.0, e.Diff(nextDay, testDate, la, Day, false))
	assert.Equal(t, 1.0, e.Diff(nextDay, testDate, la, Day, true), "DST hour is not a fraction of a day")
	assert.Equal(t, 23.0, e.Diff(nextDay, testDate, la, Hour, false))
	assert.Equal(t, -1.0, e.Diff(testDate, nextDay, la, Day, false))
	assert.Equal(t, float64(23*msPerHour), e.Diff(nextDay, testDate, la, Millisecond, false))
}

func TestDiff_Months(t *testing.T) {
	e := New()
	utc := time.UTC

	jan31 := mustParse(t, e, "2020-01-31", utc)
	mar31 := mustParse(t, e, "2020-03-31", utc)
	assert.Equal(t, 2.0, e.Diff(mar31, jan31, utc, Month, false))
	assert.Equal(t, -2.0, e.Diff(jan31, mar31, utc, Month, false))

	jan1 := mustParse(t, e, "2020-01-01", utc)
	jan15 := mustParse(t, e, "2020-01-15", utc)
	assert.InDelta(t, 14.0/31.0, e.Diff(jan15, jan1, utc, Month, true), 1e-9)
	assert.Equal(t, 0.0, e.Diff(jan15, jan1, utc, Month, false))

	then := mustParse(t, e, "2015-03-07T13:00:00Z", utc)
	assert.Equal(t, 5.0, e.Diff(testDate, then, utc, Year, false))
	assert.Equal(t, 20.0, e.Diff(testDate, then, utc, Quarter, false))
}

func TestDiff_TruncatesTowardZero(t *testing.T) {
	e := New()
	later := testDate + 90*msPerMinute

	assert.Equal(t, 1.0, e.Diff(later, testDate, time.UTC, Hour, false))
	assert.Equal(t, -1.0, e.Diff(testDate, later, time.UTC, Hour, false))
	assert.Equal(t, 1.5, e.Diff(later, testDate, time.UTC, Hour, true))
	assert.Equal(t, 0.0, e.Diff(testDate, testDate+msPerSecond, time.UTC, Minute, false))
}

func TestHumanize(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		delta    int64
		noSuffix bool
		want     string
	}{
		{"seconds", 30 * msPerSecond, false, "in a few seconds"},
		{"forty-four seconds", 44 * msPerSecond, false, "in a few seconds"},
		{"forty-five seconds", 45 * msPerSecond, false, "in a minute"},
		{"minutes", 10 * msPerMinute, false, "in 10 minutes"},
		{"ninety minutes", 90 * msPerMinute, false, "in 2 hours"},
		{"hour", msPerHour, false, "in an hour"},
		{"day", 30 * msPerHour, false, "in a day"},
		{"days", 5 * msPerDay, false, "in 5 days"},
		{"twenty-six days", 26 * msPerDay, false, "in a month"},
		{"ninety-five days", 95 * msPerDay, false, "in 3 months"},
		{"year", 365 * msPerDay, false, "in a year"},
		{"years", 3 * 365 * msPerDay, false, "in 3 years"},
		{"past", -95 * msPerDay, false, "3 months ago"},
		{"no suffix", -95 * msPerDay, true, "3 months"},
		{"same instant", 0, false, "a few seconds ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Humanize(testDate, testDate+tt.delta, time.UTC, tt.noSuffix))
		})
	}
}

func TestCalendarText(t *testing.T) {
	e := New()
	utc := time.UTC

	tests := []struct {
		name  string
		delta int64
		want  string
	}{
		{"same day", 2 * msPerHour, "Today at 3:00 PM"},
		{"next day", msPerDay, "Tomorrow at 1:00 PM"},
		{"last day", -msPerDay, "Yesterday at 1:00 PM"},
		{"next week", 3 * msPerDay, "Tuesday at 1:00 PM"},
		{"last week", -3 * msPerDay, "Last Wednesday at 1:00 PM"},
		{"far future", 10 * msPerDay, "03/17/2020"},
		{"far past", -10 * msPerDay, "02/26/2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CalendarText(testDate+tt.delta, testDate, utc, nil))
		})
	}
}

func TestCalendarText_Overrides(t *testing.T) {
	e := New()

	got := e.CalendarText(testDate, testDate, time.UTC, map[string]string{SameDay: "[Now-ish]"})
	assert.Equal(t, "Now-ish", got)

	got = e.CalendarText(testDate+msPerDay, testDate, time.UTC, map[string]string{SameDay: "[Now-ish]"})
	assert.Equal(t, "Tomorrow at 1:00 PM", got)
}
