package harness

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/twozhakes/internal/canon"
)

// Snapshot is the canonical JSON form of a scenario run, compared
// against golden files.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	return canon.Marshal(snapshotMap(scenario, result))
}

// SnapshotDigest is a domain-separated hash of the snapshot, useful for
// comparing runs without storing the full trace.
func SnapshotDigest(scenario *Scenario, result *Result) (string, error) {
	return canon.Digest(canon.DomainTrace, snapshotMap(scenario, result))
}

func snapshotMap(scenario *Scenario, result *Result) map[string]any {
	trace := make([]any, len(result.Trace))
	for i, stage := range result.Trace {
		trace[i] = map[string]any{
			"step":    stage.Step,
			"instant": stage.Instant,
		}
	}

	snap := map[string]any{
		"name":    scenario.Name,
		"zone":    result.Zone,
		"input":   scenario.Input,
		"trace":   trace,
		"extract": result.Extract,
	}
	if scenario.Recipe != "" {
		snap["recipe"] = scenario.Recipe
	}
	if result.InputInstant != "" {
		snap["input_instant"] = result.InputInstant
	}
	if result.Instant != "" {
		snap["instant"] = result.Instant
	}
	if result.ErrorCode != "" {
		snap["error"] = result.ErrorCode
	}
	return snap
}

// GoldenDir returns the directory holding golden files for the scenarios
// next to scenarioFile: a golden/ directory beside it.
func GoldenDir(scenarioFile string) string {
	return filepath.Join(filepath.Dir(scenarioFile), "golden")
}

// RunWithGolden executes a scenario and compares the snapshot against
// {dir}/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, dir string, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, dir, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file in dir
// without re-running the scenario.
func AssertGolden(t *testing.T, dir string, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
