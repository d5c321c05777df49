package calendar

import (
	"fmt"
	"math"
	"time"
)

// Diff returns a - b measured in unit, both read in loc.
//
// Month, quarter and year differences count calendar months with a
// fractional part interpolated inside the last month. Day and week
// differences discount any change in zone offset between the instants, so a
// DST transition does not produce a fractional day. Unless exact is set the
// result is truncated toward zero. Non-unit fields measure milliseconds.
func (e *Engine) Diff(a, b int64, loc *time.Location, unit Field, exact bool) float64 {
	zoneDelta := float64(offsetMillis(b, loc) - offsetMillis(a, loc))
	delta := float64(a - b)

	var out float64
	switch unit {
	case Year:
		out = e.monthDiff(a, b, loc) / 12
	case Quarter:
		out = e.monthDiff(a, b, loc) / 3
	case Month:
		out = e.monthDiff(a, b, loc)
	case Second:
		out = delta / float64(msPerSecond)
	case Minute:
		out = delta / float64(msPerMinute)
	case Hour:
		out = delta / float64(msPerHour)
	case Day:
		out = (delta - zoneDelta) / float64(msPerDay)
	case Week:
		out = (delta - zoneDelta) / float64(msPerWeek)
	default:
		out = delta
	}

	if !exact {
		out = math.Trunc(out)
	}
	if out == 0 {
		return 0 // no negative zero
	}
	return out
}

func (e *Engine) monthDiff(a, b int64, loc *time.Location) float64 {
	if e.Get(a, loc, Date) < e.Get(b, loc, Date) {
		return -e.monthDiff(b, a, loc)
	}

	ta, tb := wall(a, loc), wall(b, loc)
	whole := (tb.Year()-ta.Year())*12 + int(tb.Month()-ta.Month())
	anchor := e.addMonths(a, loc, whole)

	var adjust float64
	if b-anchor < 0 {
		prev := e.addMonths(a, loc, whole-1)
		adjust = float64(b-anchor) / float64(anchor-prev)
	} else {
		next := e.addMonths(a, loc, whole+1)
		adjust = float64(b-anchor) / float64(next-anchor)
	}

	out := -(float64(whole) + adjust)
	if out == 0 {
		return 0
	}
	return out
}

// relativeThresholds are the rounding cut-offs for humanized durations.
var relativeThresholds = struct {
	ss, s, m, h, d, M float64
}{ss: 44, s: 45, m: 45, h: 22, d: 26, M: 11}

// relativeStrings holds the en phrases keyed by magnitude class.
var relativeStrings = map[string]string{
	"s":  "a few seconds",
	"ss": "%d seconds",
	"m":  "a minute",
	"mm": "%d minutes",
	"h":  "an hour",
	"hh": "%d hours",
	"d":  "a day",
	"dd": "%d days",
	"M":  "a month",
	"MM": "%d months",
	"y":  "a year",
	"yy": "%d years",
}

// span is the calendar distance between two instants: whole months plus
// the remaining milliseconds, both carrying the same sign.
type span struct {
	months int
	ms     int64
}

func (e *Engine) spanBetween(from, to int64, loc *time.Location) span {
	if from < to {
		return e.positiveSpan(from, to, loc)
	}
	s := e.positiveSpan(to, from, loc)
	return span{months: -s.months, ms: -s.ms}
}

func (e *Engine) positiveSpan(base, other int64, loc *time.Location) span {
	tb, to := wall(base, loc), wall(other, loc)
	months := int(to.Month()-tb.Month()) + (to.Year()-tb.Year())*12
	if e.addMonths(base, loc, months) > other {
		months--
	}
	return span{months: months, ms: other - e.addMonths(base, loc, months)}
}

func daysToMonths(days float64) float64 { return days * 4800 / 146097 }
func monthsToDays(months float64) float64 { return months * 146097 / 4800 }

// value approximates the span in milliseconds; only its sign is used.
func (s span) value() float64 {
	return float64(s.ms) + float64(s.months%12)*2592e6 + float64(s.months/12)*31536e6
}

func (s span) abs() span {
	if s.months < 0 {
		s.months = -s.months
	}
	if s.ms < 0 {
		s.ms = -s.ms
	}
	return s
}

// in converts the span to a fractional count of unit.
func (s span) in(unit Field) float64 {
	ms := float64(s.ms)
	switch unit {
	case Month, Quarter, Year:
		months := float64(s.months) + daysToMonths(ms/float64(msPerDay))
		switch unit {
		case Quarter:
			return months / 3
		case Year:
			return months / 12
		}
		return months
	}

	days := math.Round(monthsToDays(float64(s.months)))
	switch unit {
	case Week:
		return days/7 + ms/float64(msPerWeek)
	case Day:
		return days + ms/float64(msPerDay)
	case Hour:
		return days*24 + ms/float64(msPerHour)
	case Minute:
		return days*1440 + ms/float64(msPerMinute)
	case Second:
		return days*86400 + ms/float64(msPerSecond)
	}
	return math.Floor(days*float64(msPerDay)) + ms
}

// Humanize describes the distance from one instant to another in words,
// such as "in 3 days" or "a month ago". The phrase is future tense when to
// is after from. noSuffix drops the "in"/"ago" decoration.
func (e *Engine) Humanize(from, to int64, loc *time.Location, noSuffix bool) string {
	s := e.spanBetween(from, to, loc)
	text := relativeText(s.abs())
	if noSuffix {
		return text
	}
	if s.value() > 0 {
		return "in " + text
	}
	return text + " ago"
}

func relativeText(s span) string {
	th := relativeThresholds
	seconds := math.Round(s.in(Second))
	minutes := math.Round(s.in(Minute))
	hours := math.Round(s.in(Hour))
	days := math.Round(s.in(Day))
	months := math.Round(s.in(Month))
	years := math.Round(s.in(Year))

	var key string
	var n float64
	switch {
	case seconds <= th.ss:
		key, n = "s", seconds
	case seconds < th.s:
		key, n = "ss", seconds
	case minutes <= 1:
		key = "m"
	case minutes < th.m:
		key, n = "mm", minutes
	case hours <= 1:
		key = "h"
	case hours < th.h:
		key, n = "hh", hours
	case days <= 1:
		key = "d"
	case days < th.d:
		key, n = "dd", days
	case months <= 1:
		key = "M"
	case months < th.M:
		key, n = "MM", months
	case years <= 1:
		key = "y"
	default:
		key, n = "yy", years
	}

	phrase := relativeStrings[key]
	if len(key) == 2 {
		return fmt.Sprintf(phrase, int64(n))
	}
	return phrase
}

// Calendar format keys.
const (
	SameDay  = "sameDay"
	NextDay  = "nextDay"
	NextWeek = "nextWeek"
	LastDay  = "lastDay"
	LastWeek = "lastWeek"
	SameElse = "sameElse"
)

var calendarFormats = map[string]string{
	SameDay:  "[Today at] LT",
	NextDay:  "[Tomorrow at] LT",
	NextWeek: "dddd [at] LT",
	LastDay:  "[Yesterday at] LT",
	LastWeek: "[Last] dddd [at] LT",
	SameElse: "L",
}

// CalendarKey classifies ms relative to the day containing ref.
func (e *Engine) CalendarKey(ms, ref int64, loc *time.Location) string {
	diff := e.Diff(ms, e.StartOf(ref, loc, Day), loc, Day, true)
	switch {
	case diff < -6:
		return SameElse
	case diff < -1:
		return LastWeek
	case diff < 0:
		return LastDay
	case diff < 1:
		return SameDay
	case diff < 2:
		return NextDay
	case diff < 7:
		return NextWeek
	}
	return SameElse
}

// CalendarText renders ms relative to ref ("Today at 9:00 AM",
// "Last Monday at 2:30 PM"). Entries in formats override the default
// pattern for their key.
func (e *Engine) CalendarText(ms, ref int64, loc *time.Location, formats map[string]string) string {
	key := e.CalendarKey(ms, ref, loc)
	pattern := formats[key]
	if pattern == "" {
		pattern = calendarFormats[key]
	}
	return e.Format(ms, loc, pattern)
}
