// Package pipeline compiles the textual step notation used by recipes,
// scenarios and the command line into temporal operators and getters.
//
// A step is a colon-separated word list:
//
//	add:days:1  subtract:hour:3  set:date:31  startOf:month  endOf:year
//	next:day:4  nextInclusive:month:3  election
//
// A getter names what to read from the resulting instant:
//
//	hour  isoWeekday  format:YYYY-MM-DD HH:mm  diff:2020-01-01:days:exact
//	from:now  to:2021-06-01  fromNow  toNow!  calendar  daysInMonth
package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/twozhakes/internal/demo"
	"github.com/roach88/twozhakes/internal/temporal"
)

// Step is one compiled pipeline stage.
type Step struct {
	Text string
	Op   temporal.Operator
}

// Pipeline is an ordered list of compiled steps.
type Pipeline struct {
	steps []Step
}

// Stage records the instant produced by one step.
type Stage struct {
	Step    string
	Instant temporal.Instant
}

// Compile parses every step, failing on the first bad one.
func Compile(steps []string) (*Pipeline, error) {
	p := &Pipeline{steps: make([]Step, 0, len(steps))}
	for idx, text := range steps {
		op, err := ParseStep(text)
		if err != nil {
			return nil, &Error{Index: idx, Text: text, Err: err}
		}
		p.steps = append(p.steps, Step{Text: text, Op: op})
	}
	return p, nil
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// Steps returns the step texts in order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for idx, s := range p.steps {
		out[idx] = s.Text
	}
	return out
}

// Operators returns the compiled operators in order.
func (p *Pipeline) Operators() []temporal.Operator {
	ops := make([]temporal.Operator, len(p.steps))
	for idx, s := range p.steps {
		ops[idx] = s.Op
	}
	return ops
}

// Apply runs the pipeline on i in z.
func (p *Pipeline) Apply(i temporal.Instant, z *temporal.Zone) temporal.Instant {
	return z.Operate(i, p.Operators()...)
}

// Trace runs the pipeline one step at a time and records every
// intermediate instant. The last stage's instant equals Apply's result.
func (p *Pipeline) Trace(i temporal.Instant, z *temporal.Zone) []Stage {
	stages := make([]Stage, 0, len(p.steps))
	for _, s := range p.steps {
		i = z.Operate(i, s.Op)
		stages = append(stages, Stage{Step: s.Text, Instant: i})
	}
	return stages
}

// ParseStep compiles a single step.
func ParseStep(text string) (temporal.Operator, error) {
	parts := strings.Split(text, ":")
	verb, args := parts[0], parts[1:]

	switch verb {
	case "add", "subtract":
		if len(args) != 2 {
			return nil, syntaxError(text, verb+":<unit>:<amount>")
		}
		q, err := quantity(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if verb == "add" {
			return temporal.Add(q), nil
		}
		return temporal.Subtract(q), nil

	case "set":
		if len(args) != 2 {
			return nil, syntaxError(text, "set:<setter>:<amount>")
		}
		s, err := temporal.ResolveSetter(args[0])
		if err != nil {
			return nil, err
		}
		n, err := amount(args[1])
		if err != nil {
			return nil, err
		}
		return temporal.Set(s.Of(n)), nil

	case "startOf", "endOf":
		if len(args) != 1 {
			return nil, syntaxError(text, verb+":<unit>")
		}
		u, err := temporal.ResolveUnit(args[0])
		if err != nil {
			return nil, err
		}
		if verb == "startOf" {
			return temporal.StartOf(u), nil
		}
		return temporal.EndOf(u), nil

	case "next", "nextInclusive":
		if len(args) != 2 {
			return nil, syntaxError(text, verb+":<day|month>:<n>")
		}
		n, err := amount(args[1])
		if err != nil {
			return nil, err
		}
		inclusive := verb == "nextInclusive"
		u, err := temporal.ResolveUnit(args[0])
		if err != nil {
			return nil, err
		}
		switch u {
		case temporal.Units.Day:
			return demo.NextDayOfWeek(n, inclusive), nil
		case temporal.Units.Month:
			return demo.NextMonth(n, inclusive), nil
		}
		return nil, syntaxError(text, verb+":<day|month>:<n>")

	case "election":
		if len(args) != 0 {
			return nil, syntaxError(text, "election")
		}
		return demo.NextElectionDay, nil
	}

	return nil, fmt.Errorf("%w: unknown step %q", ErrSyntax, verb)
}

func quantity(unit, n string) (temporal.Quantity, error) {
	u, err := temporal.ResolveUnit(unit)
	if err != nil {
		return temporal.Quantity{}, err
	}
	v, err := amount(n)
	if err != nil {
		return temporal.Quantity{}, err
	}
	return u.Of(v), nil
}

func amount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not an integer", ErrSyntax, s)
	}
	return n, nil
}
