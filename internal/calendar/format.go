package calendar

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultFormat    = "YYYY-MM-DDTHH:mm:ssZ"
	defaultFormatUTC = "YYYY-MM-DDTHH:mm:ss[Z]"
)

var (
	longMonths  = [...]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	longDays    = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	shortDays   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	minimalDays = [...]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
)

// longDateFormats are the localized shorthand tokens.
var longDateFormats = map[string]string{
	"LTS":  "h:mm:ss A",
	"LT":   "h:mm A",
	"L":    "MM/DD/YYYY",
	"LL":   "MMMM D, YYYY",
	"LLL":  "MMMM D, YYYY h:mm A",
	"LLLL": "dddd, MMMM D, YYYY h:mm A",
	"l":    "M/D/YYYY",
	"ll":   "MMM D, YYYY",
	"lll":  "MMM D, YYYY h:mm A",
	"llll": "ddd, MMM D, YYYY h:mm A",
}

var longDateTokens = []string{"LTS", "LT", "LLLL", "LLL", "LL", "L", "llll", "lll", "ll", "l"}

// formatTokens is sorted longest first so matching is greedy.
var formatTokens = func() []string {
	toks := []string{
		"Hmmss", "Hmm", "hmmss", "hmm",
		"M", "Mo", "MM", "MMM", "MMMM",
		"D", "Do", "DD", "DDD", "DDDo", "DDDD",
		"d", "do", "dd", "ddd", "dddd",
		"e", "E",
		"w", "wo", "ww", "W", "Wo", "WW",
		"Q", "Qo",
		"N", "NN", "NNN", "NNNN", "NNNNN",
		"Y", "YY", "YYYY", "YYYYY", "YYYYYY",
		"y", "yo", "yy", "yyy", "yyyy",
		"gg", "gggg", "ggggg", "GG", "GGGG", "GGGGG",
		"a", "A",
		"H", "HH", "h", "hh", "k", "kk",
		"m", "mm", "s", "ss",
		"S", "SS", "SSS", "SSSS", "SSSSS", "SSSSSS", "SSSSSSS", "SSSSSSSS", "SSSSSSSSS",
		"x", "X", "z", "zz", "Z", "ZZ",
	}
	sort.SliceStable(toks, func(i, j int) bool { return len(toks[i]) > len(toks[j]) })
	return toks
}()

// Format renders ms in loc using a moment-style pattern.
//
// Text inside [brackets] is copied verbatim and a backslash escapes the
// following token. An empty pattern selects an ISO 8601 layout.
func (e *Engine) Format(ms int64, loc *time.Location, pattern string) string {
	t := wall(ms, loc)
	if pattern == "" {
		pattern = defaultFormat
		if _, off := t.Zone(); off == 0 {
			pattern = defaultFormatUTC
		}
	}
	pattern = expandLongDates(pattern)

	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '[':
			if j := strings.IndexByte(pattern[i+1:], ']'); j >= 0 && !strings.Contains(pattern[i+1:i+1+j], "[") {
				b.WriteString(pattern[i+1 : i+1+j])
				i += j + 2
				continue
			}
		case '\\':
			if i+1 < len(pattern) {
				lit := matchToken(pattern[i+1:])
				if lit == "" {
					_, size := utf8.DecodeRuneInString(pattern[i+1:])
					lit = pattern[i+1 : i+1+size]
				}
				b.WriteString(lit)
				i += 1 + len(lit)
				continue
			}
		}
		if tok := matchToken(pattern[i:]); tok != "" {
			b.WriteString(renderToken(tok, t))
			i += len(tok)
			continue
		}
		_, size := utf8.DecodeRuneInString(pattern[i:])
		b.WriteString(pattern[i : i+size])
		i += size
	}
	return b.String()
}

func matchToken(s string) string {
	for _, tok := range formatTokens {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

// expandLongDates replaces L-family shorthands outside brackets and escapes.
// Expansion repeats because a shorthand may expand to another.
func expandLongDates(pattern string) string {
	for range 5 {
		var b strings.Builder
		changed := false
		for i := 0; i < len(pattern); {
			switch pattern[i] {
			case '[':
				if j := strings.IndexByte(pattern[i+1:], ']'); j >= 0 {
					b.WriteString(pattern[i : i+j+2])
					i += j + 2
					continue
				}
			case '\\':
				if i+1 < len(pattern) {
					b.WriteString(pattern[i : i+2])
					i += 2
					continue
				}
			}
			matched := false
			for _, tok := range longDateTokens {
				if strings.HasPrefix(pattern[i:], tok) {
					b.WriteString(longDateFormats[tok])
					i += len(tok)
					matched, changed = true, true
					break
				}
			}
			if !matched {
				b.WriteByte(pattern[i])
				i++
			}
		}
		pattern = b.String()
		if !changed {
			break
		}
	}
	return pattern
}

func renderToken(tok string, t time.Time) string {
	switch tok {
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "Mo":
		return ordinal(int(t.Month()))
	case "MM":
		return zeroFill(int(t.Month()), 2, false)
	case "MMM":
		return shortMonths[t.Month()-1]
	case "MMMM":
		return longMonths[t.Month()-1]

	case "Q":
		return strconv.Itoa(getField(t, Quarter))
	case "Qo":
		return ordinal(getField(t, Quarter))

	case "D":
		return strconv.Itoa(t.Day())
	case "Do":
		return ordinal(t.Day())
	case "DD":
		return zeroFill(t.Day(), 2, false)
	case "DDD":
		return strconv.Itoa(t.YearDay())
	case "DDDo":
		return ordinal(t.YearDay())
	case "DDDD":
		return zeroFill(t.YearDay(), 3, false)

	case "d":
		return strconv.Itoa(int(t.Weekday()))
	case "do":
		return ordinal(int(t.Weekday()))
	case "dd":
		return minimalDays[t.Weekday()]
	case "ddd":
		return shortDays[t.Weekday()]
	case "dddd":
		return longDays[t.Weekday()]
	case "e":
		return strconv.Itoa(getField(t, Weekday))
	case "E":
		return strconv.Itoa(getField(t, IsoWeekday))

	case "w":
		return strconv.Itoa(getField(t, Week))
	case "wo":
		return ordinal(getField(t, Week))
	case "ww":
		return zeroFill(getField(t, Week), 2, false)
	case "W":
		return strconv.Itoa(getField(t, IsoWeek))
	case "Wo":
		return ordinal(getField(t, IsoWeek))
	case "WW":
		return zeroFill(getField(t, IsoWeek), 2, false)

	case "N", "NN", "NNN", "NNNNN":
		if t.Year() < 1 {
			return "BC"
		}
		return "AD"
	case "NNNN":
		if t.Year() < 1 {
			return "Before Christ"
		}
		return "Anno Domini"

	case "Y":
		if y := t.Year(); y > 9999 {
			return "+" + strconv.Itoa(y)
		}
		return zeroFill(t.Year(), 4, false)
	case "YY":
		return zeroFill(floorMod(t.Year(), 100), 2, false)
	case "YYYY":
		return zeroFill(t.Year(), 4, false)
	case "YYYYY":
		return zeroFill(t.Year(), 5, false)
	case "YYYYYY":
		return zeroFill(t.Year(), 6, true)

	case "y":
		return strconv.Itoa(eraYear(t.Year()))
	case "yo":
		return ordinal(eraYear(t.Year()))
	case "yy":
		return zeroFill(eraYear(t.Year()), 2, false)
	case "yyy":
		return zeroFill(eraYear(t.Year()), 3, false)
	case "yyyy":
		return zeroFill(eraYear(t.Year()), 4, false)

	case "gg":
		return zeroFill(floorMod(getField(t, WeekYear), 100), 2, false)
	case "gggg":
		return zeroFill(getField(t, WeekYear), 4, false)
	case "ggggg":
		return zeroFill(getField(t, WeekYear), 5, false)
	case "GG":
		return zeroFill(floorMod(getField(t, IsoWeekYear), 100), 2, false)
	case "GGGG":
		return zeroFill(getField(t, IsoWeekYear), 4, false)
	case "GGGGG":
		return zeroFill(getField(t, IsoWeekYear), 5, false)

	case "a":
		if t.Hour() > 11 {
			return "pm"
		}
		return "am"
	case "A":
		if t.Hour() > 11 {
			return "PM"
		}
		return "AM"

	case "H":
		return strconv.Itoa(t.Hour())
	case "HH":
		return zeroFill(t.Hour(), 2, false)
	case "h":
		return strconv.Itoa(hour12(t))
	case "hh":
		return zeroFill(hour12(t), 2, false)
	case "k":
		return strconv.Itoa(hour24(t))
	case "kk":
		return zeroFill(hour24(t), 2, false)
	case "hmm":
		return strconv.Itoa(hour12(t)) + zeroFill(t.Minute(), 2, false)
	case "hmmss":
		return strconv.Itoa(hour12(t)) + zeroFill(t.Minute(), 2, false) + zeroFill(t.Second(), 2, false)
	case "Hmm":
		return strconv.Itoa(t.Hour()) + zeroFill(t.Minute(), 2, false)
	case "Hmmss":
		return strconv.Itoa(t.Hour()) + zeroFill(t.Minute(), 2, false) + zeroFill(t.Second(), 2, false)

	case "m":
		return strconv.Itoa(t.Minute())
	case "mm":
		return zeroFill(t.Minute(), 2, false)
	case "s":
		return strconv.Itoa(t.Second())
	case "ss":
		return zeroFill(t.Second(), 2, false)

	case "x":
		return strconv.FormatInt(t.UnixMilli(), 10)
	case "X":
		return strconv.FormatInt(floorDiv64(t.UnixMilli(), 1000), 10)
	case "z", "zz":
		name, _ := t.Zone()
		return name
	case "Z":
		return formatOffset(t, ":")
	case "ZZ":
		return formatOffset(t, "")
	}

	if tok[0] == 'S' {
		return fractional(t, len(tok))
	}
	return tok
}

// fractional renders the sub-second part with n digits of precision.
func fractional(t time.Time, n int) string {
	ms := t.Nanosecond() / int(time.Millisecond)
	switch n {
	case 1:
		return strconv.Itoa(ms / 100)
	case 2:
		return zeroFill(ms/10, 2, false)
	}
	return zeroFill(ms, 3, false) + strings.Repeat("0", n-3)
}

func formatOffset(t time.Time, sep string) string {
	_, off := t.Zone()
	off /= 60
	sign := "+"
	if off < 0 {
		off = -off
		sign = "-"
	}
	return sign + zeroFill(off/60, 2, false) + sep + zeroFill(off%60, 2, false)
}

func hour12(t time.Time) int {
	if h := t.Hour() % 12; h != 0 {
		return h
	}
	return 12
}

func hour24(t time.Time) int {
	if h := t.Hour(); h != 0 {
		return h
	}
	return 24
}

func eraYear(y int) int {
	if y < 1 {
		return 1 - y
	}
	return y
}

func ordinal(n int) string {
	suffix := "th"
	if (n%100)/10 != 1 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func zeroFill(n, width int, forceSign bool) string {
	sign := ""
	switch {
	case n < 0:
		sign, n = "-", -n
	case forceSign:
		sign = "+"
	}
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return sign + s
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
