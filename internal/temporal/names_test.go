package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnit_PluralInsensitive(t *testing.T) {
	for _, u := range []*Unit{
		Units.Millisecond, Units.Second, Units.Minute, Units.Hour,
		Units.Day, Units.Week, Units.Month, Units.Quarter, Units.Year,
	} {
		t.Run(u.Name(), func(t *testing.T) {
			singular, err := ResolveUnit(u.Name())
			require.NoError(t, err)
			plural, err := ResolveUnit(u.Name() + "s")
			require.NoError(t, err)

			assert.Same(t, u, singular)
			assert.Same(t, u, plural)
		})
	}
}

func TestResolveUnit_Unknown(t *testing.T) {
	tests := []string{"dates", "date", "isoWeekday", "Day", "dayss", "", "fortnight"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			u, err := ResolveUnit(name)
			require.Error(t, err)
			assert.Nil(t, u)
			assert.True(t, IsUnknownName(err))

			var te *Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, name, te.Input)
		})
	}
}

func TestResolveSetter(t *testing.T) {
	tests := []struct {
		name string
		want *Setter
	}{
		{"dates", Setters.Date},
		{"date", Setters.Date},
		{"isoWeekday", Setters.IsoWeekday},
		{"isoWeekdays", Setters.IsoWeekday},
		{"weekYear", Setters.WeekYear},
		{"dayOfYear", Setters.DayOfYear},
		{"day", Units.Day.Setter()},
		{"hours", Setters.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSetter(tt.name)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestResolveSetter_Unknown(t *testing.T) {
	_, err := ResolveSetter("Date")
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnknownName, CodeOf(err))
	assert.Contains(t, err.Error(), `"Date"`)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"millisecond", "second", "minute", "hour", "day", "week", "month", "quarter", "year",
	}, UnitNames())

	setters := SetterNames()
	assert.Equal(t, UnitNames(), setters[:9])
	assert.ElementsMatch(t, []string{
		"date", "dayOfYear", "isoWeek", "isoWeekYear", "isoWeekday", "weekYear", "weekday",
	}, setters[9:])

	for _, name := range setters {
		s, err := ResolveSetter(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
}

func TestValue(t *testing.T) {
	assert.Equal(t, Units.Hour.Of(3), Units.Hour.Of(3))
	assert.NotEqual(t, Units.Hour.Of(3), Units.Minute.Of(3))
	assert.Equal(t, Setters.Hour.Of(3), Units.Hour.Of(3).Value)

	q := Units.Day.Of(2)
	assert.Equal(t, "day(2)", q.String())
	assert.Equal(t, "day", q.Name())
	assert.Equal(t, 2, q.Amount())
	assert.Equal(t, Units.Day.Of(-2), q.Negate())

	assert.Equal(t, "date(31)", Setters.Date.Of(31).String())
}
