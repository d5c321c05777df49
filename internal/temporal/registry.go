package temporal

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Registry creates zones on first request and keeps them for its lifetime.
// It is safe for concurrent use.
type Registry struct {
	engine   Engine
	logger   *slog.Logger
	observer Observer

	mu    sync.RWMutex
	zones map[string]*Zone
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for zone lifecycle messages.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithObserver installs an observer notified of parse, operate and extract
// activity on every zone the registry creates.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates a registry backed by engine.
func NewRegistry(engine Engine, opts ...RegistryOption) *Registry {
	r := &Registry{
		engine:   engine,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
		zones:    make(map[string]*Zone),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the registry's calendar engine.
func (r *Registry) Engine() Engine {
	return r.engine
}

// Zone returns the zone for id, creating it on first use. Repeated calls
// with the same id return the same *Zone.
func (r *Registry) Zone(id string) (*Zone, error) {
	r.mu.RLock()
	z, ok := r.zones[id]
	r.mu.RUnlock()
	if ok {
		return z, nil
	}

	loc, err := r.engine.LoadZone(id)
	if err != nil {
		r.logger.Debug("zone lookup failed", "zone", id, "error", err)
		return nil, invalidZoneError(id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if z, ok := r.zones[id]; ok {
		return z, nil
	}
	z = &Zone{id: id, loc: loc, engine: r.engine, observer: r.observer}
	r.zones[id] = z
	r.logger.Debug("zone created", "zone", id)
	r.observer.ZoneCreated(id)
	return z, nil
}

// MustZone is like Zone but panics if id is invalid. Use it only for
// identifiers known at compile time.
func (r *Registry) MustZone(id string) *Zone {
	z, err := r.Zone(id)
	if err != nil {
		panic(err)
	}
	return z
}

// UTC returns the "UTC" zone.
func (r *Registry) UTC() *Zone {
	return r.MustZone("UTC")
}

// Local returns the zone of the host as guessed by the engine, or UTC when
// the guess cannot be loaded.
func (r *Registry) Local() *Zone {
	id := r.engine.GuessLocalZoneID()
	z, err := r.Zone(id)
	if err != nil {
		r.logger.Warn("local zone unavailable, using UTC", "zone", id, "error", err)
		return r.UTC()
	}
	return z
}

// ZoneIDs lists the identifiers of every zone created so far, sorted.
func (r *Registry) ZoneIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.zones))
	for id := range r.zones {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(calendar.New())
})

// Default returns the process-wide registry backing GetZone, UTC and Local.
func Default() *Registry {
	return defaultRegistry()
}

// GetZone returns the zone for id from the default registry.
func GetZone(id string) (*Zone, error) {
	return Default().Zone(id)
}

// UTC returns the default registry's UTC zone.
func UTC() *Zone {
	return Default().UTC()
}

// Local returns the default registry's host zone.
func Local() *Zone {
	return Default().Local()
}
