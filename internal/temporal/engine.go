package temporal

import (
	"time"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Engine is the calendar computation backend a Registry delegates to.
// *calendar.Engine implements it.
type Engine interface {
	LoadZone(id string) (*time.Location, error)
	GuessLocalZoneID() string
	Now() int64

	Parse(text string, loc *time.Location) (int64, error)
	Format(ms int64, loc *time.Location, pattern string) string

	Get(ms int64, loc *time.Location, f calendar.Field) int
	Set(ms int64, loc *time.Location, f calendar.Field, v int) int64
	Add(ms int64, loc *time.Location, f calendar.Field, n int) int64
	Subtract(ms int64, loc *time.Location, f calendar.Field, n int) int64
	StartOf(ms int64, loc *time.Location, f calendar.Field) int64
	EndOf(ms int64, loc *time.Location, f calendar.Field) int64

	Diff(a, b int64, loc *time.Location, unit calendar.Field, exact bool) float64
	Humanize(from, to int64, loc *time.Location, noSuffix bool) string
	CalendarText(ms, ref int64, loc *time.Location, formats map[string]string) string

	WeeksInYear(ms int64, loc *time.Location) int
	IsoWeeksInYear(ms int64, loc *time.Location) int
	DaysInMonth(ms int64, loc *time.Location) int
}

var _ Engine = (*calendar.Engine)(nil)

// Observer receives notifications about zone activity. Implementations
// must be safe for concurrent use.
type Observer interface {
	ZoneCreated(zone string)
	Parsed(zone string, err error)
	Operated(zone string, stages int)
	Extracted(zone string)
}

type nopObserver struct{}

func (nopObserver) ZoneCreated(string)   {}
func (nopObserver) Parsed(string, error) {}
func (nopObserver) Operated(string, int) {}
func (nopObserver) Extracted(string)     {}
