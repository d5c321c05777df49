package pipeline

import (
	"strconv"
	"strings"

	"github.com/roach88/twozhakes/internal/temporal"
)

// Getter is a compiled getter expression. Its result is always rendered
// as text: integers in base 10, diffs in the shortest exact decimal form.
type Getter struct {
	text string
	eval func(i temporal.Instant, z *temporal.Zone) (string, error)
}

// String returns the source expression.
func (g *Getter) String() string { return g.text }

// Extract evaluates the getter on i in z. Getters with an instant argument
// parse it in z, so they can fail with an unparsable-temporal error.
func (g *Getter) Extract(i temporal.Instant, z *temporal.Zone) (string, error) {
	return g.eval(i, z)
}

// GetterOption configures getter compilation.
type GetterOption func(*getterConfig)

type getterConfig struct {
	calendarFormats map[string]string
}

// WithCalendarFormats overrides the patterns of the calendar getter by
// key (sameDay, nextDay, nextWeek, lastDay, lastWeek, sameElse).
func WithCalendarFormats(formats map[string]string) GetterOption {
	return func(c *getterConfig) {
		c.calendarFormats = formats
	}
}

// ParseGetter compiles a getter expression.
func ParseGetter(text string, opts ...GetterOption) (*Getter, error) {
	var cfg getterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	name, noSuffix := text, false
	if !strings.HasPrefix(text, "format:") {
		name, noSuffix = strings.CutSuffix(text, "!")
	}
	verb, arg, hasArg := strings.Cut(name, ":")
	rel := temporal.RelativeOptions{NoSuffix: noSuffix}

	g := &Getter{text: text}
	switch {
	case verb == "format":
		f := temporal.Format(arg)
		g.eval = constant(f)

	case verb == "diff" && hasArg:
		ref, opts, err := diffArgs(arg)
		if err != nil {
			return nil, err
		}
		g.eval = func(i temporal.Instant, z *temporal.Zone) (string, error) {
			other, err := instantArg(ref, z)
			if err != nil {
				return "", err
			}
			v := temporal.Extract(z, i, temporal.Diff(other, opts))
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}

	case (verb == "from" || verb == "to") && hasArg:
		relative := temporal.From
		if verb == "to" {
			relative = temporal.To
		}
		g.eval = func(i temporal.Instant, z *temporal.Zone) (string, error) {
			other, err := instantArg(arg, z)
			if err != nil {
				return "", err
			}
			return temporal.Extract(z, i, relative(other, rel)), nil
		}

	case hasArg:
		return nil, syntaxError(text, "a getter")

	case verb == "fromNow":
		g.eval = constant(temporal.FromNow(rel))
	case verb == "toNow":
		g.eval = constant(temporal.ToNow(rel))
	case verb == "calendar":
		g.eval = constant(temporal.Calendar(temporal.CalendarOptions{Formats: cfg.calendarFormats}))
	case verb == "weeksInYear":
		g.eval = number(temporal.WeeksInYear())
	case verb == "isoWeeksInYear":
		g.eval = number(temporal.IsoWeeksInYear())
	case verb == "daysInMonth":
		g.eval = number(temporal.DaysInMonth())

	default:
		s, err := temporal.ResolveSetter(verb)
		if err != nil {
			return nil, err
		}
		g.eval = number(s.Getter())
	}

	if noSuffix && !isRelative(verb) {
		return nil, syntaxError(text, "'!' only after from, to, fromNow or toNow")
	}
	return g, nil
}

// ParseGetters compiles each expression, failing on the first bad one.
func ParseGetters(texts []string, opts ...GetterOption) ([]*Getter, error) {
	out := make([]*Getter, 0, len(texts))
	for idx, text := range texts {
		g, err := ParseGetter(text, opts...)
		if err != nil {
			return nil, &Error{Index: idx, Text: text, Err: err}
		}
		out = append(out, g)
	}
	return out, nil
}

func isRelative(verb string) bool {
	switch verb {
	case "from", "to", "fromNow", "toNow":
		return true
	}
	return false
}

func constant(g temporal.Getter[string]) func(temporal.Instant, *temporal.Zone) (string, error) {
	return func(i temporal.Instant, z *temporal.Zone) (string, error) {
		return temporal.Extract(z, i, g), nil
	}
}

func number(g temporal.Getter[int]) func(temporal.Instant, *temporal.Zone) (string, error) {
	return func(i temporal.Instant, z *temporal.Zone) (string, error) {
		return strconv.Itoa(temporal.Extract(z, i, g)), nil
	}
}

// diffArgs splits "<instant>[:<unit>[:exact]]". Instants may contain
// colons, so optional parts are peeled off the end.
func diffArgs(text string) (string, temporal.DiffOptions, error) {
	var opts temporal.DiffOptions
	arg, exact := strings.CutSuffix(text, ":exact")
	opts.Exact = exact
	if idx := strings.LastIndex(arg, ":"); idx >= 0 {
		if u, err := temporal.ResolveUnit(arg[idx+1:]); err == nil {
			opts.Unit = u
			arg = arg[:idx]
		}
	}
	if arg == "" {
		return "", opts, syntaxError("diff:"+text, "diff:<instant>[:<unit>[:exact]]")
	}
	return arg, opts, nil
}

// instantArg resolves "now" or parses text in z.
func instantArg(text string, z *temporal.Zone) (temporal.Instant, error) {
	if text == "now" {
		return z.Now(), nil
	}
	return z.Parse(text)
}
