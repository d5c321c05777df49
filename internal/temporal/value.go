package temporal

import (
	"fmt"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Value pairs a setter's field with an amount. Values are comparable and
// equal when both parts are equal.
type Value struct {
	field  calendar.Field
	amount int
}

// Quantity is a Value whose field is a unit, so it can also be added or
// subtracted.
type Quantity struct {
	Value
}

// Assignment is anything Set accepts: a Value or a Quantity.
type Assignment interface {
	assigned() Value
}

func (v Value) assigned() Value { return v }

// Name returns the field's canonical name.
func (v Value) Name() string { return v.field.String() }

// Field returns the calendar field.
func (v Value) Field() calendar.Field { return v.field }

// Amount returns the numeric payload.
func (v Value) Amount() int { return v.amount }

func (v Value) String() string {
	return fmt.Sprintf("%s(%d)", v.Name(), v.amount)
}

// Negate returns the same quantity with its amount negated.
func (q Quantity) Negate() Quantity {
	return Quantity{Value{field: q.field, amount: -q.amount}}
}
