package temporal

import (
	"maps"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Format renders the instant with a moment-style pattern such as
// "YYYY-MM-DD HH:mm". An empty pattern yields ISO 8601 with offset.
func Format(pattern string) Getter[string] {
	return func(i Instant, z *Zone) string {
		return z.engine.Format(int64(i), z.loc, pattern)
	}
}

// DiffOptions configures Diff.
type DiffOptions struct {
	// Unit to measure in; nil measures milliseconds.
	Unit *Unit

	// Exact keeps the fractional part instead of truncating toward zero.
	Exact bool
}

// Diff measures the instant minus other.
func Diff(other Instant, opts DiffOptions) Getter[float64] {
	unit := calendar.Millisecond
	if opts.Unit != nil {
		unit = opts.Unit.field
	}
	return func(i Instant, z *Zone) float64 {
		return z.engine.Diff(int64(i), int64(other), z.loc, unit, opts.Exact)
	}
}

// RelativeOptions configures the humanizing getters.
type RelativeOptions struct {
	// NoSuffix drops "in" and "ago" ("3 months" instead of "3 months ago").
	NoSuffix bool
}

// From describes the instant relative to other: "3 months ago" when the
// instant is three months before other.
func From(other Instant, opts RelativeOptions) Getter[string] {
	return func(i Instant, z *Zone) string {
		return z.engine.Humanize(int64(other), int64(i), z.loc, opts.NoSuffix)
	}
}

// To describes other relative to the instant: "in 3 months" when other is
// three months after.
func To(other Instant, opts RelativeOptions) Getter[string] {
	return func(i Instant, z *Zone) string {
		return z.engine.Humanize(int64(i), int64(other), z.loc, opts.NoSuffix)
	}
}

// FromNow is From with the engine's current time.
func FromNow(opts RelativeOptions) Getter[string] {
	return func(i Instant, z *Zone) string {
		return From(z.Now(), opts)(i, z)
	}
}

// ToNow is To with the engine's current time.
func ToNow(opts RelativeOptions) Getter[string] {
	return func(i Instant, z *Zone) string {
		return To(z.Now(), opts)(i, z)
	}
}

// CalendarOptions configures Calendar.
type CalendarOptions struct {
	// Reference is the instant "today" is taken from; nil means now.
	Reference *Instant

	// Formats overrides patterns by key: sameDay, nextDay, nextWeek,
	// lastDay, lastWeek, sameElse.
	Formats map[string]string
}

// Calendar renders the instant relative to a reference day, e.g.
// "Tomorrow at 9:00 AM" or "Last Monday at 2:30 PM".
func Calendar(opts CalendarOptions) Getter[string] {
	formats := maps.Clone(opts.Formats)
	var ref *Instant
	if opts.Reference != nil {
		r := *opts.Reference
		ref = &r
	}
	return func(i Instant, z *Zone) string {
		at := z.Now()
		if ref != nil {
			at = *ref
		}
		return z.engine.CalendarText(int64(i), int64(at), z.loc, formats)
	}
}

// WeeksInYear counts the locale weeks of the instant's year.
func WeeksInYear() Getter[int] {
	return func(i Instant, z *Zone) int {
		return z.engine.WeeksInYear(int64(i), z.loc)
	}
}

// IsoWeeksInYear counts the ISO weeks of the instant's year.
func IsoWeeksInYear() Getter[int] {
	return func(i Instant, z *Zone) int {
		return z.engine.IsoWeeksInYear(int64(i), z.loc)
	}
}

// DaysInMonth returns the length of the instant's month.
func DaysInMonth() Getter[int] {
	return func(i Instant, z *Zone) int {
		return z.engine.DaysInMonth(int64(i), z.loc)
	}
}
