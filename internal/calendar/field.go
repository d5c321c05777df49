package calendar

// Field identifies a calendar field of an instant read in a zone.
//
// The first nine fields are units: they can be added, subtracted and used
// as start-of/end-of boundaries. The remaining fields can only be read and
// assigned.
type Field int

const (
	Millisecond Field = iota
	Second
	Minute
	Hour
	Day // weekday, Sunday = 0
	Week
	Month // 0 = January
	Quarter
	Year

	Date // day of month
	DayOfYear
	IsoWeek
	IsoWeekYear
	IsoWeekday // Monday = 1, Sunday = 7
	WeekYear
	Weekday // locale weekday
)

var fieldNames = [...]string{
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Week:        "week",
	Month:       "month",
	Quarter:     "quarter",
	Year:        "year",
	Date:        "date",
	DayOfYear:   "dayOfYear",
	IsoWeek:     "isoWeek",
	IsoWeekYear: "isoWeekYear",
	IsoWeekday:  "isoWeekday",
	WeekYear:    "weekYear",
	Weekday:     "weekday",
}

// String returns the field's canonical name.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// IsUnit reports whether f is usable as a duration unit.
func (f Field) IsUnit() bool {
	return f >= Millisecond && f <= Year
}

// Fields lists every field in declaration order.
func Fields() []Field {
	out := make([]Field, len(fieldNames))
	for i := range fieldNames {
		out[i] = Field(i)
	}
	return out
}
