package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognized is wrapped by Parse when the text matches no known format.
var ErrUnrecognized = errors.New("unrecognized date/time format")

// ErrOutOfRange is wrapped by Parse when a recognized format carries an
// impossible field value, such as month 13.
var ErrOutOfRange = errors.New("date/time field out of range")

var (
	extendedISO = regexp.MustCompile(`^\s*((?:[+-]\d{6}|\d{4})-(?:\d\d-\d\d|W\d\d-\d|W\d\d|\d\d\d|\d\d))(?:(T| )(\d\d(?::\d\d(?::\d\d(?:[.,]\d+)?)?)?)([+-]\d\d(?::?\d\d)?|\s*Z)?)?$`)
	basicISO    = regexp.MustCompile(`^\s*((?:[+-]\d{6}|\d{4})(?:\d\d\d\d|W\d\d\d|W\d\d|\d\d\d|\d\d|))(?:(T| )(\d\d(?:\d\d(?:\d\d(?:[.,]\d+)?)?)?)([+-]\d\d(?::?\d\d)?|\s*Z)?)?$`)
	rfc2822     = regexp.MustCompile(`^(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun),?\s)?(\d{1,2})\s(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s(\d{2,4})\s(\d\d):(\d\d)(?::(\d\d))?\s(?:(UT|GMT|[ECMP][SD]T)|([Zz])|([+-]\d{4}))$`)

	rfcComments   = regexp.MustCompile(`\([^)]*\)`)
	rfcWhitespace = regexp.MustCompile(`[\n\t]|\s\s+`)
)

var rfcZoneHours = map[string]int{
	"UT": 0, "GMT": 0,
	"EDT": -4, "EST": -5,
	"CDT": -5, "CST": -6,
	"MDT": -6, "MST": -7,
	"PDT": -7, "PST": -8,
}

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Parse reads text as an instant.
//
// Accepted forms are ISO 8601 (extended and basic: calendar dates, week
// dates, ordinal dates, optional time with fraction, optional Z or numeric
// offset) and RFC 2822 dates. Text carrying an offset denotes that exact
// instant; text without one is a wall-clock time in loc.
func (e *Engine) Parse(text string, loc *time.Location) (int64, error) {
	if m := extendedISO.FindStringSubmatch(text); m != nil {
		return parseISO(text, m, loc)
	}
	if m := basicISO.FindStringSubmatch(text); m != nil {
		return parseISO(text, m, loc)
	}
	if ms, ok, err := parseRFC2822(text); ok {
		return ms, err
	}
	return 0, fmt.Errorf("%q: %w", text, ErrUnrecognized)
}

type wallFields struct {
	year, month, day     int // month is 1-based
	hour, minute, second int
	millis               int
}

func parseISO(text string, m []string, loc *time.Location) (int64, error) {
	var w wallFields
	if err := parseISODate(m[1], &w); err != nil {
		return 0, fmt.Errorf("%q: %w", text, err)
	}
	if m[3] != "" {
		if err := parseISOTime(m[3], &w); err != nil {
			return 0, fmt.Errorf("%q: %w", text, err)
		}
	}

	if zone := strings.TrimSpace(m[4]); zone != "" {
		off, err := parseOffset(zone)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", text, err)
		}
		loc = time.FixedZone("", off)
	}
	return w.instant(loc), nil
}

func (w wallFields) instant(loc *time.Location) int64 {
	return localMillis(loc, w.year, time.Month(w.month), w.day, w.hour, w.minute, w.second,
		w.millis*int(time.Millisecond))
}

func parseISODate(s string, w *wallFields) error {
	var rest string
	if s[0] == '+' || s[0] == '-' {
		y, _ := strconv.Atoi(s[1:7])
		if s[0] == '-' {
			y = -y
		}
		w.year, rest = y, s[7:]
	} else {
		w.year, _ = strconv.Atoi(s[:4])
		rest = s[4:]
	}
	rest = strings.ReplaceAll(rest, "-", "")
	w.month, w.day = 1, 1

	switch {
	case rest == "":
	case rest[0] == 'W':
		week, _ := strconv.Atoi(rest[1:3])
		weekday := 1
		if len(rest) > 3 {
			weekday, _ = strconv.Atoi(rest[3:])
		}
		if week < 1 || week > weeksInYear(w.year, isoDow, isoDoy) || weekday < 1 || weekday > 7 {
			return ErrOutOfRange
		}
		year, yday := dayOfYearFromWeeks(w.year, week, weekday, isoDow, isoDoy)
		t := time.Date(year, time.January, yday, 0, 0, 0, 0, time.UTC)
		w.year, w.month, w.day = t.Year(), int(t.Month()), t.Day()
	case len(rest) == 3:
		yday, _ := strconv.Atoi(rest)
		if yday < 1 || yday > daysInYear(w.year) {
			return ErrOutOfRange
		}
		t := time.Date(w.year, time.January, yday, 0, 0, 0, 0, time.UTC)
		w.month, w.day = int(t.Month()), t.Day()
	case len(rest) == 2:
		w.month, _ = strconv.Atoi(rest)
	case len(rest) == 4:
		w.month, _ = strconv.Atoi(rest[:2])
		w.day, _ = strconv.Atoi(rest[2:])
	}

	if w.month < 1 || w.month > 12 || w.day < 1 || w.day > daysIn(w.year, w.month-1) {
		return ErrOutOfRange
	}
	return nil
}

func parseISOTime(s string, w *wallFields) error {
	frac := ""
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		s, frac = s[:i], s[i+1:]
	}
	s = strings.ReplaceAll(s, ":", "")
	w.hour, _ = strconv.Atoi(s[:2])
	if len(s) >= 4 {
		w.minute, _ = strconv.Atoi(s[2:4])
	}
	if len(s) >= 6 {
		w.second, _ = strconv.Atoi(s[4:6])
	}
	if frac != "" {
		// Digits past milliseconds are truncated.
		frac = (frac + "00")[:3]
		w.millis, _ = strconv.Atoi(frac)
	}

	if w.minute > 59 || w.second > 59 {
		return ErrOutOfRange
	}
	switch {
	case w.hour < 24:
	case w.hour == 24 && w.minute == 0 && w.second == 0 && w.millis == 0:
		// 24:00 is midnight at the end of the day; time.Date normalizes it.
	default:
		return ErrOutOfRange
	}
	return nil
}

// parseOffset converts "Z", "+07", "+0700" or "+07:00" to seconds east of UTC.
func parseOffset(s string) (int, error) {
	if s == "Z" {
		return 0, nil
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	h, _ := strconv.Atoi(digits[:2])
	m := 0
	if len(digits) >= 4 {
		m, _ = strconv.Atoi(digits[2:4])
	}
	if m > 59 {
		return 0, ErrOutOfRange
	}
	return sign * (h*3600 + m*60), nil
}

// parseRFC2822 reports ok=false when text is not RFC 2822 shaped.
func parseRFC2822(text string) (int64, bool, error) {
	cleaned := rfcComments.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(rfcWhitespace.ReplaceAllString(cleaned, " "))
	m := rfc2822.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false, nil
	}

	day, _ := strconv.Atoi(m[2])
	month := 0
	for i, name := range shortMonths {
		if name == m[3] {
			month = i + 1
		}
	}
	year, _ := strconv.Atoi(m[4])
	switch {
	case year <= 49:
		year += 2000
	case year <= 999:
		year += 1900
	}
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])
	second := 0
	if m[7] != "" {
		second, _ = strconv.Atoi(m[7])
	}

	off := 0
	switch {
	case m[8] != "":
		off = rfcZoneHours[m[8]] * 3600
	case m[10] != "":
		hh, _ := strconv.Atoi(m[10][1:3])
		mm, _ := strconv.Atoi(m[10][3:5])
		off = hh*3600 + mm*60
		if m[10][0] == '-' {
			off = -off
		}
	}

	if month < 1 || day < 1 || day > daysIn(year, month-1) || hour > 23 || minute > 59 || second > 59 {
		return 0, true, fmt.Errorf("%q: %w", text, ErrOutOfRange)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.FixedZone("", off))
	if m[1] != "" && m[1] != t.Weekday().String()[:3] {
		return 0, true, fmt.Errorf("%q: weekday %s does not match date: %w", text, m[1], ErrOutOfRange)
	}
	return t.UnixMilli(), true, nil
}
