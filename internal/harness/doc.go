// Package harness runs date scenarios: parse an input in a zone, apply a
// pipeline of operators, evaluate getters, and check the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: la-dst-day
//	description: "Adding a day across spring-forward keeps wall time"
//	zone: America/Los_Angeles
//	now: "2020-03-07T13:00:00Z"
//	input: "2020-03-07T05:00:00"
//	steps:
//	  - add:day:1
//	  - startOf:day
//	getters:
//	  - isoWeekday
//	expect:
//	  instant: "2020-03-08T08:00:00.000Z"
//	  extract:
//	    hour: "0"
//	    format:YYYY-MM-DD: "2020-03-08"
//
// A scenario may name a recipe instead of (or before) its steps; the
// recipe's steps run first and its getters are evaluated too. The zone
// defaults to the recipe's zone, then UTC. An input of "now" or an empty
// input starts from the scenario clock.
//
// # Expectations
//
//   - instant: the final instant, any RFC 3339 form
//   - extract: getter expression → rendered value, subset match
//   - error: the error code the scenario must fail with
//     (INVALID_ZONE_IDENTIFIER, UNPARSABLE_TEMPORAL,
//     UNKNOWN_TEMPORAL_NAME, PIPELINE_SYNTAX, or a recipe E1xx code)
//
// # Deterministic Testing
//
// Every scenario gets a fresh zone registry whose wall clock is frozen at
// the scenario's now (default DefaultNow), so relative getters such as
// fromNow and calendar render identically on every run. The resulting
// trace is serialized as canonical JSON for golden comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/la-dst-day.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario, harness.WithRecipes(set))
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
