// Package demo builds calendar questions out of temporal operators alone:
// "when is next Thursday?", "when is next April?", "when is the next US
// federal election?".
package demo

import "github.com/roach88/twozhakes/internal/temporal"

// StartOfNext moves an instant to the first millisecond of the following u.
func StartOfNext(u *temporal.Unit) temporal.Operator {
	return temporal.Compose(temporal.StartOf(u), temporal.Add(u.Of(1)))
}

// next answers "when is the next time smaller equals n?", rolling over into
// the following larger period when this one has already passed n.
func next(smaller, larger *temporal.Unit) func(n int, inclusive bool) temporal.Operator {
	return func(n int, inclusive bool) temporal.Operator {
		assign := temporal.Set(smaller.Of(n))
		truncate := temporal.StartOf(smaller)
		rollover := StartOfNext(larger)
		return func(i temporal.Instant, z *temporal.Zone) temporal.Instant {
			current := temporal.Extract(z, i, smaller)
			advance := temporal.Operator(temporal.Identity)
			if current > n || (current == n && !inclusive) {
				advance = rollover
			}
			return z.Operate(i, advance, assign, truncate)
		}
	}
}

var (
	nextDayOfWeek = next(temporal.Units.Day, temporal.Units.Week)
	nextMonth     = next(temporal.Units.Month, temporal.Units.Year)
)

// NextDayOfWeek moves to the start of the next day whose weekday is n
// (0 = Sunday). When the instant already falls on n, inclusive keeps
// today; otherwise the answer is a week later.
func NextDayOfWeek(n int, inclusive bool) temporal.Operator {
	return nextDayOfWeek(n, inclusive)
}

// NextMonth moves to the start of the next month numbered n (0 = January).
// When the instant already falls in n, inclusive keeps this month;
// otherwise the answer is a year later.
func NextMonth(n int, inclusive bool) temporal.Operator {
	return nextMonth(n, inclusive)
}
