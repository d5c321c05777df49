package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/twozhakes/internal/calendar"
	"github.com/roach88/twozhakes/internal/pipeline"
	"github.com/roach88/twozhakes/internal/recipe"
	"github.com/roach88/twozhakes/internal/temporal"
	"github.com/roach88/twozhakes/internal/testutil"
)

// ErrCodePipelineSyntax is reported for malformed step or getter text.
const ErrCodePipelineSyntax = "PIPELINE_SYNTAX"

// ErrCodeUnknown is reported for errors without a more specific code.
const ErrCodeUnknown = "ERROR"

// Option configures a scenario run.
type Option func(*Harness)

// WithRecipes makes the recipe set available to scenarios naming a recipe.
func WithRecipes(set *recipe.Set) Option {
	return func(h *Harness) {
		h.recipes = set
	}
}

// WithLogger replaces the discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithObserver installs a temporal observer on the scenario's registry.
func WithObserver(o temporal.Observer) Option {
	return func(h *Harness) {
		h.observer = o
	}
}

// Harness is the scenario execution context.
type Harness struct {
	recipes  *recipe.Set
	logger   *slog.Logger
	observer temporal.Observer
	clock    *testutil.FixedClock
	registry *temporal.Registry
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh zone registry with a frozen clock.
// Scenario-level failures (bad zone, unparsable input, bad step) are
// reported in the result and checked against expect.error; Run itself
// only fails when the scenario cannot be executed at all.
//
// Execution flow:
//  1. Resolve the recipe, if any, and the zone
//  2. Parse the input (or take the clock's now)
//  3. Apply recipe steps then scenario steps, recording each stage
//  4. Evaluate getters on the final instant
//  5. Compare against the expectations
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("nil scenario")
	}
	now, err := scenario.NowTime()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  testutil.NewFixedClock(now),
	}
	for _, opt := range opts {
		opt(h)
	}

	regOpts := []temporal.RegistryOption{temporal.WithLogger(h.logger)}
	if h.observer != nil {
		regOpts = append(regOpts, temporal.WithObserver(h.observer))
	}
	h.registry = temporal.NewRegistry(calendar.New(calendar.WithClock(h.clock.Now)), regOpts...)

	result := NewResult()
	if err := h.execute(scenario, result); err != nil {
		result.ErrorCode = ErrorCodeOf(err)
		result.ErrorMessage = err.Error()
		h.logger.Info("scenario stopped", "scenario", scenario.Name, "code", result.ErrorCode, "error", err)
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(s *Scenario, result *Result) error {
	var steps, getters []string

	zoneID := s.Zone
	if s.Recipe != "" {
		r, err := h.recipes.Get(s.Recipe)
		if err != nil {
			return err
		}
		if zoneID == "" {
			zoneID = r.Zone
		}
		steps = append(steps, r.Steps...)
		getters = append(getters, r.Getters...)
	}
	if zoneID == "" {
		zoneID = "UTC"
	}
	steps = append(steps, s.Steps...)
	getters = append(getters, s.Getters...)
	if s.Expect != nil {
		for g := range s.Expect.Extract {
			getters = append(getters, g)
		}
	}
	result.Zone = zoneID

	z, err := h.registry.Zone(zoneID)
	if err != nil {
		return err
	}

	p, err := pipeline.Compile(steps)
	if err != nil {
		return err
	}
	compiled, err := pipeline.ParseGetters(dedupe(getters))
	if err != nil {
		return err
	}

	var i temporal.Instant
	if s.Input == "" || s.Input == "now" {
		i = z.Now()
	} else if i, err = z.Parse(s.Input); err != nil {
		return err
	}
	result.InputInstant = i.String()
	h.logger.Info("input parsed", "scenario", s.Name, "zone", zoneID, "instant", i)

	for _, stage := range p.Trace(i, z) {
		result.AddStage(stage.Step, stage.Instant.String())
		h.logger.Info("stage applied", "scenario", s.Name, "step", stage.Step, "instant", stage.Instant)
		i = stage.Instant
	}
	result.Instant = i.String()

	for _, g := range compiled {
		v, err := g.Extract(i, z)
		if err != nil {
			return fmt.Errorf("getter %s: %w", g, err)
		}
		result.Extract[g.String()] = v
	}
	return nil
}

// ErrorCodeOf maps an error to the code scenarios name in expect.error.
func ErrorCodeOf(err error) string {
	if err == nil {
		return ""
	}
	if code := temporal.CodeOf(err); code != "" {
		return string(code)
	}
	if errors.Is(err, pipeline.ErrSyntax) {
		return ErrCodePipelineSyntax
	}
	var le *recipe.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeUnknown
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
