package temporal

import (
	"strings"

	"github.com/roach88/twozhakes/internal/calendar"
)

// Unit is a calendar granularity. It builds Quantities for Add and
// Subtract, names the boundary for StartOf and EndOf, and reads its own
// field when used as an Extractor.
//
// Units are only created by this package; compare them by pointer.
type Unit struct {
	field  calendar.Field
	setter *Setter
}

// Setter is an assignable calendar field. Every Unit has a canonical
// Setter; Date, DayOfYear and the week fields exist only as Setters.
//
// Setters are only created by this package; compare them by pointer.
type Setter struct {
	field calendar.Field
}

// FieldGetter is implemented by every registry entry. The returned getter
// reads the entry's calendar field of an instant in a zone.
type FieldGetter interface {
	Getter() Getter[int]
}

// Name returns the canonical singular name, e.g. "day".
func (u *Unit) Name() string { return u.field.String() }

// Field returns the calendar field u stands for.
func (u *Unit) Field() calendar.Field { return u.field }

// Setter returns u's canonical setter; ResolveSetter(u.Name()) returns it too.
func (u *Unit) Setter() *Setter { return u.setter }

// Of builds the quantity n of u, e.g. Units.Hour.Of(3).
func (u *Unit) Of(n int) Quantity {
	return Quantity{Value{field: u.field, amount: n}}
}

// Getter reads u's field.
func (u *Unit) Getter() Getter[int] { return fieldGetter(u.field) }

// Extract reads u's field of i in z.
func (u *Unit) Extract(i Instant, z *Zone) int { return z.field(i, u.field) }

func (u *Unit) String() string { return u.Name() }

// Name returns the canonical name, e.g. "dayOfYear".
func (s *Setter) Name() string { return s.field.String() }

// Field returns the calendar field s stands for.
func (s *Setter) Field() calendar.Field { return s.field }

// Of builds the assignment of n to s, e.g. Setters.Date.Of(7).
func (s *Setter) Of(n int) Value {
	return Value{field: s.field, amount: n}
}

// Getter reads s's field.
func (s *Setter) Getter() Getter[int] { return fieldGetter(s.field) }

// Extract reads s's field of i in z.
func (s *Setter) Extract(i Instant, z *Zone) int { return z.field(i, s.field) }

func (s *Setter) String() string { return s.Name() }

func fieldGetter(f calendar.Field) Getter[int] {
	return func(i Instant, z *Zone) int {
		return z.field(i, f)
	}
}

var (
	unitsByName   = make(map[string]*Unit)
	settersByName = make(map[string]*Setter)
	unitOrder     []*Unit
	setterOrder   []*Setter
)

func newUnit(f calendar.Field) *Unit {
	u := &Unit{field: f, setter: &Setter{field: f}}
	unitsByName[u.Name()] = u
	settersByName[u.Name()] = u.setter
	unitOrder = append(unitOrder, u)
	setterOrder = append(setterOrder, u.setter)
	return u
}

func newSetter(f calendar.Field) *Setter {
	s := &Setter{field: f}
	settersByName[s.Name()] = s
	setterOrder = append(setterOrder, s)
	return s
}

// Units holds the canonical unit entries.
var Units = struct {
	Millisecond, Second, Minute, Hour, Day, Week, Month, Quarter, Year *Unit
}{
	Millisecond: newUnit(calendar.Millisecond),
	Second:      newUnit(calendar.Second),
	Minute:      newUnit(calendar.Minute),
	Hour:        newUnit(calendar.Hour),
	Day:         newUnit(calendar.Day),
	Week:        newUnit(calendar.Week),
	Month:       newUnit(calendar.Month),
	Quarter:     newUnit(calendar.Quarter),
	Year:        newUnit(calendar.Year),
}

// Setters holds the canonical setter entries. The unit-named setters are
// the units' own canonical setters.
var Setters = struct {
	Millisecond, Second, Minute, Hour, Day, Week, Month, Quarter, Year *Setter

	Date, DayOfYear, IsoWeek, IsoWeekYear, IsoWeekday, WeekYear, Weekday *Setter
}{
	Millisecond: Units.Millisecond.setter,
	Second:      Units.Second.setter,
	Minute:      Units.Minute.setter,
	Hour:        Units.Hour.setter,
	Day:         Units.Day.setter,
	Week:        Units.Week.setter,
	Month:       Units.Month.setter,
	Quarter:     Units.Quarter.setter,
	Year:        Units.Year.setter,

	Date:        newSetter(calendar.Date),
	DayOfYear:   newSetter(calendar.DayOfYear),
	IsoWeek:     newSetter(calendar.IsoWeek),
	IsoWeekYear: newSetter(calendar.IsoWeekYear),
	IsoWeekday:  newSetter(calendar.IsoWeekday),
	WeekYear:    newSetter(calendar.WeekYear),
	Weekday:     newSetter(calendar.Weekday),
}

// normalizeName strips a single trailing "s". Matching is case-sensitive.
func normalizeName(name string) string {
	return strings.TrimSuffix(name, "s")
}

// ResolveUnit looks up a unit by name, singular or plural
// ("day" and "days" both return Units.Day).
func ResolveUnit(name string) (*Unit, error) {
	if u, ok := unitsByName[normalizeName(name)]; ok {
		return u, nil
	}
	return nil, unknownNameError("unit", name)
}

// ResolveSetter looks up a setter by name, singular or plural. Unit names
// resolve to the unit's canonical setter.
func ResolveSetter(name string) (*Setter, error) {
	if s, ok := settersByName[normalizeName(name)]; ok {
		return s, nil
	}
	return nil, unknownNameError("setter", name)
}

// UnitNames lists unit names in declaration order.
func UnitNames() []string {
	names := make([]string, len(unitOrder))
	for i, u := range unitOrder {
		names[i] = u.Name()
	}
	return names
}

// SetterNames lists setter names in declaration order, units first.
func SetterNames() []string {
	names := make([]string, len(setterOrder))
	for i, s := range setterOrder {
		names[i] = s.Name()
	}
	return names
}
