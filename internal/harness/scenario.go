package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultNow is the scenario clock when a scenario sets no now:
// 2020-03-07T13:00:00Z, a Saturday, the day before US spring-forward.
var DefaultNow = time.UnixMilli(1583586000000).UTC()

// Scenario is one parse → operate → extract case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Zone is the zone identifier. Empty falls back to the recipe's zone,
	// then UTC.
	Zone string `yaml:"zone,omitempty"`

	// Now freezes the scenario clock (RFC 3339). Empty means DefaultNow.
	Now string `yaml:"now,omitempty"`

	// Input is parsed in Zone. Empty or "now" starts from the clock.
	Input string `yaml:"input,omitempty"`

	// Recipe names a recipe whose steps run before Steps.
	Recipe string `yaml:"recipe,omitempty"`

	// Steps are pipeline step expressions, applied in order.
	Steps []string `yaml:"steps,omitempty"`

	// Getters are evaluated on the final instant in addition to the
	// recipe's getters and the keys of Expect.Extract.
	Getters []string `yaml:"getters,omitempty"`

	// Expect describes the required outcome.
	Expect *Expect `yaml:"expect"`
}

// Expect is a scenario's expected outcome.
type Expect struct {
	// Instant is the expected final instant.
	Instant string `yaml:"instant,omitempty"`

	// Extract maps getter expressions to their expected rendered values.
	// Subset match: getters not listed are not checked.
	Extract map[string]string `yaml:"extract,omitempty"`

	// Error is the error code the scenario must fail with.
	Error string `yaml:"error,omitempty"`
}

// NowTime returns the frozen clock time for s.
func (s *Scenario) NowTime() (time.Time, error) {
	if s.Now == "" {
		return DefaultNow, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t.UTC(), nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos like "step:" for "steps:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := s.NowTime(); err != nil {
		return err
	}

	for i, step := range s.Steps {
		if step == "" {
			return fmt.Errorf("steps[%d]: must be non-empty", i)
		}
	}
	for i, g := range s.Getters {
		if g == "" {
			return fmt.Errorf("getters[%d]: must be non-empty", i)
		}
	}

	if s.Expect == nil {
		return fmt.Errorf("expect is required")
	}
	return validateExpect(s.Expect)
}

func validateExpect(e *Expect) error {
	if e.Instant == "" && len(e.Extract) == 0 && e.Error == "" {
		return fmt.Errorf("expect: one of instant, extract or error is required")
	}
	if e.Error != "" && (e.Instant != "" || len(e.Extract) > 0) {
		return fmt.Errorf("expect: error cannot be combined with instant or extract")
	}
	if e.Instant != "" {
		if _, err := parseExpectedInstant(e.Instant); err != nil {
			return fmt.Errorf("expect.instant: %w", err)
		}
	}
	return nil
}

func parseExpectedInstant(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
