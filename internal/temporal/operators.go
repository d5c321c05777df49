package temporal

// Operator transforms an instant within a zone. Operators are pure: they
// return a new instant and never retain the one they were given.
type Operator func(i Instant, z *Zone) Instant

// Identity returns its instant unchanged.
func Identity(i Instant, _ *Zone) Instant { return i }

// Add moves an instant forward by q (backward for negative amounts).
// Hours and smaller units are absolute durations; days and larger follow
// the zone's calendar, so one day is not always 24 hours.
func Add(q Quantity) Operator {
	return func(i Instant, z *Zone) Instant {
		return Instant(z.engine.Add(int64(i), z.loc, q.field, q.amount))
	}
}

// Subtract moves an instant backward by q.
func Subtract(q Quantity) Operator {
	return func(i Instant, z *Zone) Instant {
		return Instant(z.engine.Subtract(int64(i), z.loc, q.field, q.amount))
	}
}

// Set assigns a field. Out-of-range amounts roll over into the next or
// previous period; setting the date to 31 in April yields May 1st.
func Set(a Assignment) Operator {
	v := a.assigned()
	return func(i Instant, z *Zone) Instant {
		return Instant(z.engine.Set(int64(i), z.loc, v.field, v.amount))
	}
}

// StartOf truncates an instant to the first millisecond of its unit.
func StartOf(u *Unit) Operator {
	return func(i Instant, z *Zone) Instant {
		return Instant(z.engine.StartOf(int64(i), z.loc, u.field))
	}
}

// EndOf moves an instant to the last millisecond of its unit.
func EndOf(u *Unit) Operator {
	return func(i Instant, z *Zone) Instant {
		return Instant(z.engine.EndOf(int64(i), z.loc, u.field))
	}
}

// Compose chains ops into a single operator applied left to right.
// Each stage receives the previous stage's result by value.
func Compose(ops ...Operator) Operator {
	stages := make([]Operator, len(ops))
	copy(stages, ops)
	return func(i Instant, z *Zone) Instant {
		for _, op := range stages {
			i = op(i, z)
		}
		return i
	}
}
