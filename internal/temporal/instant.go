package temporal

import "time"

// isoLayout renders instants the way they travel in scenarios and journals.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Instant is a point in time: milliseconds since the Unix epoch. It carries
// no zone; the zone is always supplied by the caller.
type Instant int64

// InstantOf converts t, truncating to millisecond precision.
func InstantOf(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// UnixMilli returns i as milliseconds since the epoch.
func (i Instant) UnixMilli() int64 {
	return int64(i)
}

// Time returns i as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(int64(i)).UTC()
}

// String renders i in UTC with millisecond precision,
// e.g. 2020-03-07T13:00:00.000Z.
func (i Instant) String() string {
	return i.Time().Format(isoLayout)
}

// Before reports whether i is earlier than other.
func (i Instant) Before(other Instant) bool {
	return i < other
}
