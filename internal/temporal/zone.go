package temporal

import (
	"time"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Zone is an immutable handle bound to one zone identifier. Obtain zones
// from a Registry; the zero value is not usable.
type Zone struct {
	id       string
	loc      *time.Location
	engine   Engine
	observer Observer
}

// ID returns the zone identifier, e.g. "America/New_York".
func (z *Zone) ID() string { return z.id }

// Location returns the zone's location.
func (z *Zone) Location() *time.Location { return z.loc }

// Parse reads text as an instant. Text without an explicit offset is
// interpreted as wall-clock time in z.
func (z *Zone) Parse(text string) (Instant, error) {
	ms, err := z.engine.Parse(text, z.loc)
	z.observer.Parsed(z.id, err)
	if err != nil {
		return 0, unparsableError(text, z.id, err)
	}
	return Instant(ms), nil
}

// Operate applies ops to i left to right and returns the final instant.
func (z *Zone) Operate(i Instant, ops ...Operator) Instant {
	out := Compose(ops...)(i, z)
	z.observer.Operated(z.id, len(ops))
	return out
}

// Get reads a registry entry's field of i in z.
func (z *Zone) Get(i Instant, f FieldGetter) int {
	return Extract[int](z, i, f.Getter())
}

// Now returns the engine's current instant.
func (z *Zone) Now() Instant {
	return Instant(z.engine.Now())
}

func (z *Zone) field(i Instant, f calendar.Field) int {
	return z.engine.Get(int64(i), z.loc, f)
}

// Extractor reads a value of type T from an instant in a zone. Units,
// Setters and Getters are Extractors.
type Extractor[T any] interface {
	Extract(i Instant, z *Zone) T
}

// Getter is a free-standing extractor function.
type Getter[T any] func(i Instant, z *Zone) T

// Extract calls g.
func (g Getter[T]) Extract(i Instant, z *Zone) T {
	return g(i, z)
}

// Extract reads a value from i in z. It is a package function rather than
// a Zone method because methods cannot take type parameters.
func Extract[T any](z *Zone, i Instant, e Extractor[T]) T {
	v := e.Extract(i, z)
	z.observer.Extracted(z.id)
	return v
}
