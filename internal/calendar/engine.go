// Package calendar implements calendar arithmetic over the IANA time zone
// database: field access, assignment with rollover, unit arithmetic,
// start/end-of-unit truncation, moment-style formatting and humanized
// relative text.
//
// Instants are int64 milliseconds since the Unix epoch. Every operation
// reads the instant as a wall clock in a *time.Location and returns a new
// instant; nothing is mutated.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrEmptyZone is returned by LoadZone for an empty identifier.
var ErrEmptyZone = errors.New("empty zone identifier")

// Engine performs calendar computations. Its zone cache is safe for
// concurrent use; all other methods are pure.
type Engine struct {
	mu    sync.RWMutex
	zones map[string]*time.Location

	now   func() time.Time
	local string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the wall clock used by Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocalZone fixes the identifier returned by GuessLocalZoneID.
func WithLocalZone(id string) Option {
	return func(e *Engine) {
		e.local = id
	}
}

// New creates an Engine using the system clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		zones: make(map[string]*time.Location),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current instant in milliseconds.
func (e *Engine) Now() int64 {
	return e.now().UnixMilli()
}

// LoadZone resolves an IANA zone identifier, caching the result.
func (e *Engine) LoadZone(id string) (*time.Location, error) {
	if id == "" {
		return nil, ErrEmptyZone
	}

	e.mu.RLock()
	loc, ok := e.zones[id]
	e.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.zones[id]; ok {
		return cached, nil
	}
	e.zones[id] = loc
	return loc, nil
}

// GuessLocalZoneID returns the IANA identifier of the host's zone.
//
// Lookup order: WithLocalZone, $TZ, the /etc/localtime symlink target,
// time.Local's name. Falls back to "UTC".
func (e *Engine) GuessLocalZoneID() string {
	if e.local != "" {
		return e.local
	}
	if tz, ok := os.LookupEnv("TZ"); ok {
		tz = strings.TrimPrefix(tz, ":")
		if tz == "" {
			return "UTC"
		}
		if _, err := e.LoadZone(tz); err == nil {
			return tz
		}
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.LastIndex(target, "zoneinfo/"); i >= 0 {
			id := target[i+len("zoneinfo/"):]
			if _, err := e.LoadZone(id); err == nil {
				return id
			}
		}
	}
	if name := time.Local.String(); name != "Local" && name != "" {
		return name
	}
	return "UTC"
}

func wall(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

// offsetMillis returns the zone offset at ms, east of UTC.
func offsetMillis(ms int64, loc *time.Location) int64 {
	_, off := wall(ms, loc).Zone()
	return int64(off) * 1000
}

// localMillis resolves a wall-clock reading in loc to an instant. Fields
// out of range are normalized as time.Date does. A reading that occurs
// twice resolves to the earlier instant; one skipped by a forward
// transition is pushed forward by the length of the gap.
//
// Offsets are sampled a day either side, so transitions closer together
// than two days are not resolved exactly.
func localMillis(loc *time.Location, year int, month time.Month, day, hour, minute, sec, nsec int) int64 {
	naive := time.Date(year, month, day, hour, minute, sec, nsec, time.UTC).UnixMilli()
	before := offsetMillis(naive-msPerDay, loc)
	after := offsetMillis(naive+msPerDay, loc)

	early, late := naive-before, naive-after
	earlyOff := before
	if early > late {
		early, late = late, early
		earlyOff = after
	}
	if offsetMillis(early, loc) == earlyOff {
		return early
	}
	return late
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod64(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysInYear(y int) int {
	if isLeapYear(y) {
		return 366
	}
	return 365
}

// daysIn returns the length of month (0-based, may overflow) in year.
func daysIn(year, month int) int {
	m := month % 12
	if m < 0 {
		m += 12
	}
	year += floorDiv(month-m, 12)
	if m == 1 {
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 31 - (m%7)%2
}
