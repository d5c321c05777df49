package harness

import (
	"fmt"
	"sort"
	"strings"
)

// Expectation kinds, used in AssertionError.Type.
const (
	ExpectInstant = "instant"
	ExpectExtract = "extract"
	ExpectError   = "error"
)

// AssertionError is returned when an expectation fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []Stage
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for i, stage := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s\n", i+1, stage.Step, stage.Instant)
		}
	}
	return buf.String()
}

// EvaluateExpectations checks result against expect and returns one
// message per failure, in a stable order.
func EvaluateExpectations(result *Result, expect *Expect) []string {
	if expect == nil {
		expect = &Expect{}
	}

	var errs []error
	if expect.Error != "" {
		if err := assertError(result, expect.Error); err != nil {
			errs = append(errs, err)
		}
	} else if result.ErrorCode != "" {
		errs = append(errs, &AssertionError{
			Type:     ExpectError,
			Expected: "no error",
			Actual:   fmt.Sprintf("%s: %s", result.ErrorCode, result.ErrorMessage),
			Trace:    result.Trace,
		})
	} else {
		if expect.Instant != "" {
			if err := assertInstant(result, expect.Instant); err != nil {
				errs = append(errs, err)
			}
		}
		errs = append(errs, assertExtract(result, expect.Extract)...)
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

// assertInstant compares instants by value, so any RFC 3339 rendering of
// the expected instant matches.
func assertInstant(result *Result, expected string) error {
	want, err := parseExpectedInstant(expected)
	if err != nil {
		return fmt.Errorf("invalid expected instant %q: %w", expected, err)
	}
	got, err := parseExpectedInstant(result.Instant)
	if err != nil || got != want {
		return &AssertionError{
			Type:     ExpectInstant,
			Expected: expected,
			Actual:   result.Instant,
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertExtract checks each expected getter value (subset semantics).
func assertExtract(result *Result, expected map[string]string) []error {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		got, ok := result.Extract[k]
		if !ok {
			errs = append(errs, &AssertionError{
				Type:     ExpectExtract,
				Expected: fmt.Sprintf("%s = %q", k, expected[k]),
				Actual:   "getter not evaluated",
			})
			continue
		}
		if got != expected[k] {
			errs = append(errs, &AssertionError{
				Type:     ExpectExtract,
				Expected: fmt.Sprintf("%s = %q", k, expected[k]),
				Actual:   fmt.Sprintf("%s = %q", k, got),
				Trace:    result.Trace,
			})
		}
	}
	return errs
}

func assertError(result *Result, code string) error {
	if result.ErrorCode == code {
		return nil
	}
	actual := "no error"
	if result.ErrorCode != "" {
		actual = fmt.Sprintf("%s: %s", result.ErrorCode, result.ErrorMessage)
	}
	return &AssertionError{
		Type:     ExpectError,
		Expected: code,
		Actual:   actual,
		Trace:    result.Trace,
	}
}
