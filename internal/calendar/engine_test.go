package calendar

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2020-03-07T13:00:00Z, a Saturday; 05:00 PST in Los Angeles, the day
// before the 2020 spring-forward transition.
const testDate int64 = 1583586000000

func iso(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

func mustZone(t *testing.T, e *Engine, id string) *time.Location {
	t.Helper()
	loc, err := e.LoadZone(id)
	require.NoError(t, err)
	return loc
}

func mustParse(t *testing.T, e *Engine, text string, loc *time.Location) int64 {
	t.Helper()
	ms, err := e.Parse(text, loc)
	require.NoError(t, err)
	return ms
}

func TestLoadZone_CachesLocation(t *testing.T) {
	e := New()

	first := mustZone(t, e, "America/New_York")
	second := mustZone(t, e, "America/New_York")

	assert.Same(t, first, second)
}

func TestLoadZone_Errors(t *testing.T) {
	e := New()

	_, err := e.LoadZone("")
	assert.ErrorIs(t, err, ErrEmptyZone)

	_, err = e.LoadZone("Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars/Olympus_Mons")
}

func TestLoadZone_Concurrent(t *testing.T) {
	e := New()
	var wg sync.WaitGroup
	locs := make([]*time.Location, 16)
	for i := range locs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc, err := e.LoadZone("Europe/Paris")
			if err == nil {
				locs[i] = loc
			}
		}(i)
	}
	wg.Wait()

	for _, loc := range locs {
		require.NotNil(t, loc)
		assert.Equal(t, "Europe/Paris", loc.String())
	}
}

func TestNow_UsesInjectedClock(t *testing.T) {
	e := New(WithClock(func() time.Time { return time.UnixMilli(testDate) }))
	assert.Equal(t, testDate, e.Now())
}

func TestGuessLocalZoneID(t *testing.T) {
	assert.Equal(t, "Asia/Tokyo", New(WithLocalZone("Asia/Tokyo")).GuessLocalZoneID())

	t.Setenv("TZ", "America/Chicago")
	assert.Equal(t, "America/Chicago", New().GuessLocalZoneID())

	t.Setenv("TZ", "")
	assert.Equal(t, "UTC", New().GuessLocalZoneID())
}

func TestGet_LosAngeles(t *testing.T) {
	e := New()
	la := mustZone(t, e, "America/Los_Angeles")

	tests := []struct {
		field Field
		want  int
	}{
		{Millisecond, 0},
		{Second, 0},
		{Minute, 0},
		{Hour, 5},
		{Day, 6},
		{Weekday, 6},
		{IsoWeekday, 6},
		{Date, 7},
		{Month, 2},
		{Quarter, 1},
		{Year, 2020},
		{DayOfYear, 67},
		{Week, 10},
		{WeekYear, 2020},
		{IsoWeek, 10},
		{IsoWeekYear, 2020},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, e.Get(testDate, la, tt.field))
		})
	}
}

func TestGet_WeekYearBoundaries(t *testing.T) {
	e := New()

	newYearsDay := mustParse(t, e, "2021-01-01T12:00:00Z", time.UTC)
	assert.Equal(t, 53, e.Get(newYearsDay, time.UTC, IsoWeek))
	assert.Equal(t, 2020, e.Get(newYearsDay, time.UTC, IsoWeekYear))
	assert.Equal(t, 1, e.Get(newYearsDay, time.UTC, Week))
	assert.Equal(t, 2021, e.Get(newYearsDay, time.UTC, WeekYear))

	newYearsEve := mustParse(t, e, "2019-12-31T12:00:00Z", time.UTC)
	assert.Equal(t, 1, e.Get(newYearsEve, time.UTC, Week))
	assert.Equal(t, 2020, e.Get(newYearsEve, time.UTC, WeekYear))
	assert.Equal(t, 1, e.Get(newYearsEve, time.UTC, IsoWeek))
	assert.Equal(t, 2020, e.Get(newYearsEve, time.UTC, IsoWeekYear))

	sunday := mustParse(t, e, "2020-03-08T12:00:00Z", time.UTC)
	assert.Equal(t, 7, e.Get(sunday, time.UTC, IsoWeekday))
	assert.Equal(t, 0, e.Get(sunday, time.UTC, Day))
}

func TestSet(t *testing.T) {
	e := New()

	tests := []struct {
		name  string
		from  string
		field Field
		value int
		want  string
	}{
		{"date rolls over short month", "2020-04-15T10:00:00Z", Date, 31, "2020-05-01T10:00:00.000Z"},
		{"month clamps day", "2020-01-31T10:00:00Z", Month, 1, "2020-02-29T10:00:00.000Z"},
		{"month overflow rolls year", "2020-05-10T10:00:00Z", Month, 13, "2021-02-10T10:00:00.000Z"},
		{"year clamps leap day", "2020-02-29T10:00:00Z", Year, 2021, "2021-02-28T10:00:00.000Z"},
		{"quarter keeps month offset", "2020-02-15T10:00:00Z", Quarter, 3, "2020-08-15T10:00:00.000Z"},
		{"hour rolls over", "2020-03-07T13:00:00Z", Hour, 25, "2020-03-08T01:00:00.000Z"},
		{"minute", "2020-03-07T13:00:00Z", Minute, 45, "2020-03-07T13:45:00.000Z"},
		{"second", "2020-03-07T13:00:00Z", Second, 30, "2020-03-07T13:00:30.000Z"},
		{"millisecond", "2020-03-07T13:00:00Z", Millisecond, 250, "2020-03-07T13:00:00.250Z"},
		{"day to sunday", "2020-03-07T13:00:00Z", Day, 0, "2020-03-01T13:00:00.000Z"},
		{"day past saturday", "2020-03-07T13:00:00Z", Day, 7, "2020-03-08T13:00:00.000Z"},
		{"weekday", "2020-03-07T13:00:00Z", Weekday, 1, "2020-03-02T13:00:00.000Z"},
		{"isoWeekday sunday", "2020-03-07T13:00:00Z", IsoWeekday, 7, "2020-03-08T13:00:00.000Z"},
		{"isoWeekday monday", "2020-03-07T13:00:00Z", IsoWeekday, 1, "2020-03-02T13:00:00.000Z"},
		{"dayOfYear", "2020-03-07T13:00:00Z", DayOfYear, 1, "2020-01-01T13:00:00.000Z"},
		{"isoWeek", "2020-03-07T13:00:00Z", IsoWeek, 1, "2020-01-04T13:00:00.000Z"},
		{"week", "2020-03-07T13:00:00Z", Week, 11, "2020-03-14T13:00:00.000Z"},
		{"isoWeekYear", "2020-03-07T13:00:00Z", IsoWeekYear, 2021, "2021-03-13T13:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := mustParse(t, e, tt.from, time.UTC)
			got := e.Set(ms, time.UTC, tt.field, tt.value)
			assert.Equal(t, tt.want, iso(got))
		})
	}
}

func TestSet_HourInZone(t *testing.T) {
	e := New()
	la := mustZone(t, e, "America/Los_Angeles")

	dayBefore := e.Subtract(testDate, la, Day, 1)
	assert.Equal(t, "2020-03-06T11:00:00.000Z", iso(e.Set(dayBefore, la, Hour, 3)))

	// 02:00 is skipped on 2020-03-08 and 01:00 happens twice on 2020-11-01.
	springForward := mustParse(t, e, "2020-03-08", la)
	for set, want := range map[int]int{1: 1, 2: 3, 3: 3} {
		assert.Equal(t, want, e.Get(e.Set(springForward, la, Hour, set), la, Hour), "set hour %d", set)
	}
	assert.Equal(t, "2020-03-08T10:00:00.000Z", iso(e.Set(springForward, la, Hour, 2)))

	fallBack := mustParse(t, e, "2020-11-01", la)
	assert.Equal(t, "2020-11-01T08:00:00.000Z", iso(e.Set(fallBack, la, Hour, 1)))
	assert.Equal(t, "2020-11-01T10:00:00.000Z", iso(e.Set(fallBack, la, Hour, 2)))
}

func TestAdd_DSTAwareDays(t *testing.T) {
	e := New()
	la := mustZone(t, e, "America/Los_Angeles")

	assert.Equal(t, "2020-03-08T13:00:00.000Z", iso(e.Add(testDate, la, Hour, 24)))
	assert.Equal(t, "2020-03-08T12:00:00.000Z", iso(e.Add(testDate, la, Day, 1)))
	assert.Equal(t, "2020-03-14T12:00:00.000Z", iso(e.Add(testDate, la, Week, 1)))
	assert.Equal(t, "2020-03-06T13:00:00.000Z", iso(e.Subtract(testDate, la, Day, 1)))

	// 02:30 does not exist on the 8th; moment moves it forward an hour.
	halfPastTwo := mustParse(t, e, "2020-03-07T02:30", la)
	assert.Equal(t, "2020-03-08T10:30:00.000Z", iso(e.Add(halfPastTwo, la, Day, 1)))
	assert.Equal(t, "2020-04-07T09:30:00.000Z", iso(e.Add(halfPastTwo, la, Month, 1)))
}

func TestAdd_Units(t *testing.T) {
	e := New()

	tests := []struct {
		name  string
		from  string
		field Field
		n     int
		want  string
	}{
		{"milliseconds", "2020-03-07T13:00:00Z", Millisecond, 1500, "2020-03-07T13:00:01.500Z"},
		{"seconds", "2020-03-07T13:00:00Z", Second, -30, "2020-03-07T12:59:30.000Z"},
		{"minutes", "2020-03-07T13:00:00Z", Minute, 90, "2020-03-07T14:30:00.000Z"},
		{"month clamps", "2020-01-31T00:00:00Z", Month, 1, "2020-02-29T00:00:00.000Z"},
		{"year from leap day", "2020-02-29T00:00:00Z", Year, 1, "2021-02-28T00:00:00.000Z"},
		{"negative quarter", "2020-05-31T00:00:00Z", Quarter, -1, "2020-02-29T00:00:00.000Z"},
		{"setter-only field is ignored", "2020-05-31T00:00:00Z", Date, 3, "2020-05-31T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := mustParse(t, e, tt.from, time.UTC)
			assert.Equal(t, tt.want, iso(e.Add(ms, time.UTC, tt.field, tt.n)))
		})
	}
}

func TestStartOfEndOf_LosAngeles(t *testing.T) {
	e := New()
	la := mustZone(t, e, "America/Los_Angeles")

	tests := []struct {
		unit       Field
		start, end string
	}{
		{Year, "2020-01-01T08:00:00.000Z", "2021-01-01T07:59:59.999Z"},
		{Quarter, "2020-01-01T08:00:00.000Z", "2020-04-01T06:59:59.999Z"},
		{Month, "2020-03-01T08:00:00.000Z", "2020-04-01T06:59:59.999Z"},
		{Week, "2020-03-01T08:00:00.000Z", "2020-03-08T07:59:59.999Z"},
		{Day, "2020-03-07T08:00:00.000Z", "2020-03-08T07:59:59.999Z"},
		{Hour, "2020-03-07T13:00:00.000Z", "2020-03-07T13:59:59.999Z"},
		{Minute, "2020-03-07T13:00:00.000Z", "2020-03-07T13:00:59.999Z"},
		{Second, "2020-03-07T13:00:00.000Z", "2020-03-07T13:00:00.999Z"},
		{Millisecond, "2020-03-07T13:00:00.000Z", "2020-03-07T13:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			start := e.StartOf(testDate, la, tt.unit)
			assert.Equal(t, tt.start, iso(start))
			assert.Equal(t, start, e.StartOf(start, la, tt.unit), "start of is idempotent")
			assert.Equal(t, tt.end, iso(e.EndOf(testDate, la, tt.unit)))
		})
	}
}

func TestStartOf_HalfHourZone(t *testing.T) {
	e := New()
	kolkata := mustZone(t, e, "Asia/Kolkata")

	// 18:30 IST
	assert.Equal(t, "2020-03-07T12:30:00.000Z", iso(e.StartOf(testDate, kolkata, Hour)))
	assert.Equal(t, "2020-03-07T13:29:59.999Z", iso(e.EndOf(testDate, kolkata, Hour)))
}

func TestStartOfEndOf_SkippedMidnight(t *testing.T) {
	e := New()
	saoPaulo := mustZone(t, e, "America/Sao_Paulo")

	// Clocks went from 2018-11-04 00:00 -03 straight to 01:00 -02.
	noon := mustParse(t, e, "2018-11-04T12:00", saoPaulo)
	tests := []struct {
		unit       Field
		start, end string
	}{
		{Day, "2018-11-04T03:00:00.000Z", "2018-11-05T01:59:59.999Z"},
		{Week, "2018-11-04T03:00:00.000Z", "2018-11-11T01:59:59.999Z"},
		{Month, "2018-11-01T03:00:00.000Z", "2018-12-01T01:59:59.999Z"},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			start := e.StartOf(noon, saoPaulo, tt.unit)
			assert.Equal(t, tt.start, iso(start))
			assert.Equal(t, start, e.StartOf(start, saoPaulo, tt.unit))
			assert.Equal(t, tt.end, iso(e.EndOf(noon, saoPaulo, tt.unit)))
		})
	}

	dayStart := e.StartOf(noon, saoPaulo, Day)
	assert.Equal(t, 4, e.Get(dayStart, saoPaulo, Date))
	assert.Equal(t, 1, e.Get(dayStart, saoPaulo, Hour))

	saturday := e.Subtract(noon, saoPaulo, Day, 1)
	assert.Equal(t, "2018-11-04T02:59:59.999Z", iso(e.EndOf(saturday, saoPaulo, Day)))
	assert.Equal(t, "2018-11-04T03:00:00.000Z", iso(e.Add(e.StartOf(saturday, saoPaulo, Day), saoPaulo, Day, 1)))
}

func TestStartOfEndOf_RepeatedMidnight(t *testing.T) {
	e := New()
	saoPaulo := mustZone(t, e, "America/Sao_Paulo")

	// 2019-02-17 00:00 -02 fell back to 2019-02-16 23:00 -03; the 16th ran 25 hours.
	evening := mustParse(t, e, "2019-02-16T23:30:00-02:00", saoPaulo)
	assert.Equal(t, "2019-02-16T02:00:00.000Z", iso(e.StartOf(evening, saoPaulo, Day)))
	assert.Equal(t, "2019-02-17T02:59:59.999Z", iso(e.EndOf(evening, saoPaulo, Day)))
}

func TestStartOf_MinuteIgnoresOffset(t *testing.T) {
	e := New()
	// Before 1972 Monrovia kept -00:44:30.
	monrovia := mustZone(t, e, "Africa/Monrovia")
	ms := mustParse(t, e, "1960-06-01T12:00:45Z", time.UTC)

	assert.Equal(t, "1960-06-01T12:00:00.000Z", iso(e.StartOf(ms, monrovia, Minute)))
	assert.Equal(t, "1960-06-01T12:00:59.999Z", iso(e.EndOf(ms, monrovia, Minute)))
}

func TestWeeksAndDaysInMonth(t *testing.T) {
	e := New()

	assert.Equal(t, 52, e.WeeksInYear(testDate, time.UTC))
	assert.Equal(t, 53, e.IsoWeeksInYear(testDate, time.UTC))
	assert.Equal(t, 31, e.DaysInMonth(testDate, time.UTC))

	feb := mustParse(t, e, "2020-02-10", time.UTC)
	assert.Equal(t, 29, e.DaysInMonth(feb, time.UTC))
	feb2021 := mustParse(t, e, "2021-02-10", time.UTC)
	assert.Equal(t, 28, e.DaysInMonth(feb2021, time.UTC))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, daysIn(2020, 0))
	assert.Equal(t, 30, daysIn(2020, 3))
	assert.Equal(t, 31, daysIn(2020, 7))
	assert.Equal(t, 29, daysIn(2023, 13), "month 13 is February of the next year")
	assert.Equal(t, 31, daysIn(2020, -1), "month -1 is December of the previous year")
}
