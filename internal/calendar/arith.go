package calendar

import "time"

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerWeek   = 7 * msPerDay
)

// Add moves ms by n units of f.
//
// Milliseconds through hours are absolute durations. Days and weeks move the
// wall-clock date in loc, so adding a day across a DST change keeps the local
// time of day. Months, quarters and years use month arithmetic with the day
// of month clamped to the target month. Non-unit fields leave ms unchanged.
func (e *Engine) Add(ms int64, loc *time.Location, f Field, n int) int64 {
	switch f {
	case Millisecond:
		return ms + int64(n)
	case Second:
		return ms + int64(n)*msPerSecond
	case Minute:
		return ms + int64(n)*msPerMinute
	case Hour:
		return ms + int64(n)*msPerHour
	case Day:
		return addDays(wall(ms, loc), n)
	case Week:
		return addDays(wall(ms, loc), 7*n)
	case Month:
		return e.addMonths(ms, loc, n)
	case Quarter:
		return e.addMonths(ms, loc, 3*n)
	case Year:
		return e.addMonths(ms, loc, 12*n)
	}
	return ms
}

// Subtract is Add with the amount negated.
func (e *Engine) Subtract(ms int64, loc *time.Location, f Field, n int) int64 {
	return e.Add(ms, loc, f, -n)
}

func (e *Engine) addMonths(ms int64, loc *time.Location, n int) int64 {
	if n == 0 {
		return ms
	}
	return e.Set(ms, loc, Month, e.Get(ms, loc, Month)+n)
}

// StartOf truncates ms to the first millisecond of its unit f in loc.
// Weeks start on Sunday.
func (e *Engine) StartOf(ms int64, loc *time.Location, f Field) int64 {
	t := wall(ms, loc)
	y, mo, d := t.Date()
	switch f {
	case Year:
		return localMillis(loc, y, time.January, 1, 0, 0, 0, 0)
	case Quarter:
		return localMillis(loc, y, mo-(mo-1)%3, 1, 0, 0, 0, 0)
	case Month:
		return localMillis(loc, y, mo, 1, 0, 0, 0, 0)
	case Week:
		return localMillis(loc, y, mo, d-getField(t, Weekday), 0, 0, 0, 0)
	case Day:
		return localMillis(loc, y, mo, d, 0, 0, 0, 0)
	case Hour:
		return ms - floorMod64(ms+offsetMillis(ms, loc), msPerHour)
	case Minute:
		return ms - floorMod64(ms, msPerMinute)
	case Second:
		return ms - floorMod64(ms, msPerSecond)
	}
	return ms
}

// EndOf returns the last millisecond of the unit f containing ms in loc.
func (e *Engine) EndOf(ms int64, loc *time.Location, f Field) int64 {
	t := wall(ms, loc)
	y, mo, d := t.Date()
	switch f {
	case Year:
		return localMillis(loc, y+1, time.January, 1, 0, 0, 0, 0) - 1
	case Quarter:
		return localMillis(loc, y, mo-(mo-1)%3+3, 1, 0, 0, 0, 0) - 1
	case Month:
		return localMillis(loc, y, mo+1, 1, 0, 0, 0, 0) - 1
	case Week:
		return localMillis(loc, y, mo, d-getField(t, Weekday)+7, 0, 0, 0, 0) - 1
	case Day:
		return localMillis(loc, y, mo, d+1, 0, 0, 0, 0) - 1
	case Hour:
		return ms + msPerHour - floorMod64(ms+offsetMillis(ms, loc), msPerHour) - 1
	case Minute:
		return ms + msPerMinute - floorMod64(ms, msPerMinute) - 1
	case Second:
		return ms + msPerSecond - floorMod64(ms, msPerSecond) - 1
	}
	return ms
}
