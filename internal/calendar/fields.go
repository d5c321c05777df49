package calendar

import "time"

// Locale week rules: weeks start on Sunday and week 1 contains January 1st.
const (
	localeDow = 0
	localeDoy = 6

	isoDow = 1
	isoDoy = 4
)

// Get reads field f of the instant ms as a wall clock in loc.
func (e *Engine) Get(ms int64, loc *time.Location, f Field) int {
	return getField(wall(ms, loc), f)
}

func getField(t time.Time, f Field) int {
	switch f {
	case Millisecond:
		return t.Nanosecond() / int(time.Millisecond)
	case Second:
		return t.Second()
	case Minute:
		return t.Minute()
	case Hour:
		return t.Hour()
	case Day:
		return int(t.Weekday())
	case Weekday:
		return (int(t.Weekday()) + 7 - localeDow) % 7
	case IsoWeekday:
		if wd := int(t.Weekday()); wd != 0 {
			return wd
		}
		return 7
	case Date:
		return t.Day()
	case Month:
		return int(t.Month()) - 1
	case Quarter:
		return (int(t.Month())-1)/3 + 1
	case Year:
		return t.Year()
	case DayOfYear:
		return t.YearDay()
	case Week:
		w, _ := weekOfYear(t.Year(), t.YearDay(), localeDow, localeDoy)
		return w
	case WeekYear:
		_, y := weekOfYear(t.Year(), t.YearDay(), localeDow, localeDoy)
		return y
	case IsoWeek:
		w, _ := weekOfYear(t.Year(), t.YearDay(), isoDow, isoDoy)
		return w
	case IsoWeekYear:
		_, y := weekOfYear(t.Year(), t.YearDay(), isoDow, isoDoy)
		return y
	}
	return 0
}

// Set assigns v to field f of ms read in loc.
//
// Out-of-range values roll over into the neighbouring period (date 31 in a
// 30-day month becomes the 1st of the next month). Setting the month clamps
// the day of month to the target month's length, and setting the year moves
// February 29th to the 28th in common years.
func (e *Engine) Set(ms int64, loc *time.Location, f Field, v int) int64 {
	t := wall(ms, loc)
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	ns := t.Nanosecond()

	switch f {
	case Millisecond:
		return ms + int64(v-getField(t, Millisecond))
	case Second:
		return ms + int64(v-s)*1000
	case Minute:
		return ms + int64(v-mi)*60_000
	case Hour:
		return localMillis(loc, y, mo, d, v, mi, s, ns)
	case Date:
		return localMillis(loc, y, mo, v, h, mi, s, ns)
	case Month:
		day := min(d, daysIn(y, v))
		return localMillis(loc, y, time.Month(v+1), day, h, mi, s, ns)
	case Quarter:
		return e.Set(ms, loc, Month, (v-1)*3+(int(mo)-1)%3)
	case Year:
		if mo == time.February && d == 29 && !isLeapYear(v) {
			d = 28
		}
		return localMillis(loc, v, mo, d, h, mi, s, ns)
	case Day, Weekday:
		return addDays(t, v-getField(t, f))
	case IsoWeekday:
		wd := int(t.Weekday())
		if wd == 0 {
			v -= 7
		}
		return addDays(t, v-wd)
	case DayOfYear:
		return addDays(t, v-t.YearDay())
	case Week, IsoWeek:
		return addDays(t, (v-getField(t, f))*7)
	case WeekYear:
		return setWeekYear(t, v, getField(t, Week), getField(t, Weekday), localeDow, localeDoy)
	case IsoWeekYear:
		return setWeekYear(t, v, getField(t, IsoWeek), getField(t, IsoWeekday), isoDow, isoDoy)
	}
	return ms
}

func addDays(t time.Time, n int) int64 {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return localMillis(t.Location(), y, mo, d+n, h, mi, s, t.Nanosecond())
}

// setWeekYear moves t to the same week and weekday of weekYear, clamping the
// week to the number of weeks that year has.
func setWeekYear(t time.Time, weekYear, week, weekday, dow, doy int) int64 {
	if n := weeksInYear(weekYear, dow, doy); week > n {
		week = n
	}
	year, yday := dayOfYearFromWeeks(weekYear, week, weekday, dow, doy)
	h, mi, s := t.Clock()
	return localMillis(t.Location(), year, time.January, yday, h, mi, s, t.Nanosecond())
}

// firstWeekOffset returns the day-of-year offset of the first day of week 1,
// relative to January 1st.
func firstWeekOffset(year, dow, doy int) int {
	fwd := 7 + dow - doy
	fwdlw := (7 + int(time.Date(year, time.January, fwd, 0, 0, 0, 0, time.UTC).Weekday()) - dow) % 7
	return -fwdlw + fwd - 1
}

func weeksInYear(year, dow, doy int) int {
	off := firstWeekOffset(year, dow, doy)
	next := firstWeekOffset(year+1, dow, doy)
	return (daysInYear(year) - off + next) / 7
}

func weekOfYear(year, yday, dow, doy int) (week, weekYear int) {
	off := firstWeekOffset(year, dow, doy)
	week = floorDiv(yday-off-1, 7) + 1
	switch {
	case week < 1:
		weekYear = year - 1
		week += weeksInYear(weekYear, dow, doy)
	case week > weeksInYear(year, dow, doy):
		week -= weeksInYear(year, dow, doy)
		weekYear = year + 1
	default:
		weekYear = year
	}
	return week, weekYear
}

// dayOfYearFromWeeks converts a (week year, week, weekday) triple to a
// calendar year and day of year.
func dayOfYearFromWeeks(year, week, weekday, dow, doy int) (int, int) {
	local := (7 + weekday - dow) % 7
	yday := 1 + 7*(week-1) + local + firstWeekOffset(year, dow, doy)
	switch {
	case yday <= 0:
		year--
		yday += daysInYear(year)
	case yday > daysInYear(year):
		yday -= daysInYear(year)
		year++
	}
	return year, yday
}

// WeeksInYear returns the number of locale weeks in the calendar year of ms.
func (e *Engine) WeeksInYear(ms int64, loc *time.Location) int {
	return weeksInYear(wall(ms, loc).Year(), localeDow, localeDoy)
}

// IsoWeeksInYear returns the number of ISO weeks in the calendar year of ms.
func (e *Engine) IsoWeeksInYear(ms int64, loc *time.Location) int {
	return weeksInYear(wall(ms, loc).Year(), isoDow, isoDoy)
}

// DaysInMonth returns the length of the month containing ms.
func (e *Engine) DaysInMonth(ms int64, loc *time.Location) int {
	t := wall(ms, loc)
	return daysIn(t.Year(), int(t.Month())-1)
}
