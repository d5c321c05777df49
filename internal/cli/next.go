package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/demo"
	"github.com/roach88/twozhakes/internal/temporal"
)

// NextResult is the output of the next and election commands.
type NextResult struct {
	Zone    string `json:"zone"`
	From    string `json:"from"`
	Instant string `json:"instant"`
	Local   string `json:"local"`
	Day     string `json:"day"`
}

func (r NextResult) String() string {
	return fmt.Sprintf("%s\t%s", r.Day, r.Instant)
}

// NextOptions holds flags for the next command.
type NextOptions struct {
	*RootOptions
	From      string
	Inclusive bool
}

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NextOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "next <unit> [n]",
		Short: "Find the start of the next day, month or other unit",
		Long: `Without n, move to the start of the next unit (next:week is the
start of next week). With n, find the next day of the week (day, 0 =
Sunday) or month of the year (month, 0 = January). Names such as
thursday or april are accepted in place of n.

Examples:
  twozhakes next week
  twozhakes next day thursday --zone Europe/Paris
  twozhakes next month 3 --inclusive --from 2020-04-15`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "now", "instant to search from")
	cmd.Flags().BoolVar(&opts.Inclusive, "inclusive", false, "accept the current day or month when it already matches")

	return cmd
}

func runNext(opts *NextOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	u, err := temporal.ResolveUnit(args[0])
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	var op temporal.Operator
	if len(args) == 1 {
		op = demo.StartOfNext(u)
	} else {
		op, err = nextOperator(u, args[1], opts.Inclusive)
		if err != nil {
			return f.Fail(ExitCommandError, err)
		}
	}

	z, err := opts.zone()
	if err != nil {
		return f.Fail(ExitFailure, err)
	}
	from, err := opts.instant(z, opts.From)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	return f.Success(nextResult(z, from, z.Operate(from, op)))
}

func nextOperator(u *temporal.Unit, arg string, inclusive bool) (temporal.Operator, error) {
	switch u {
	case temporal.Units.Day:
		n, err := ordinalArg(arg, 7, func(i int) string { return time.Weekday(i).String() })
		if err != nil {
			return nil, err
		}
		return demo.NextDayOfWeek(n, inclusive), nil
	case temporal.Units.Month:
		n, err := ordinalArg(arg, 12, func(i int) string { return time.Month(i + 1).String() })
		if err != nil {
			return nil, err
		}
		return demo.NextMonth(n, inclusive), nil
	}
	return nil, fmt.Errorf("next with n needs day or month, got %s", u)
}

// ordinalArg reads a number in [0, limit) or a name, matched
// case-insensitively on its full name or first three letters.
func ordinalArg(arg string, limit int, name func(int) string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 0 || n >= limit {
			return 0, fmt.Errorf("%d is out of range [0, %d)", n, limit)
		}
		return n, nil
	}
	for i := range limit {
		full := name(i)
		if strings.EqualFold(arg, full) || strings.EqualFold(arg, full[:3]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unrecognized %q", arg)
}

func nextResult(z *temporal.Zone, from, at temporal.Instant) NextResult {
	return NextResult{
		Zone:    z.ID(),
		From:    from.String(),
		Instant: at.String(),
		Local:   temporal.Extract(z, at, temporal.Format("")),
		Day:     temporal.Extract(z, at, temporal.Format("dddd, MMMM Do YYYY")),
	}
}

// ElectionOptions holds flags for the election command.
type ElectionOptions struct {
	*RootOptions
	From string
}

// NewElectionCommand creates the election command.
func NewElectionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ElectionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "election",
		Short: "Find the next US federal election day",
		Long: `Find the next US federal election: the Tuesday after the first Monday
in November of an even year, as observed in America/New_York. On election
day itself the answer stays the same until the polls close at 17:00.

Examples:
  twozhakes election
  twozhakes election --from 2024-11-05T18:00:00-05:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElection(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "now", "instant to search from")

	return cmd
}

func runElection(opts *ElectionOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ny, err := opts.registry.Zone(demo.ElectionZone)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}
	from, err := opts.instant(ny, opts.From)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	return f.Success(nextResult(ny, from, ny.Operate(from, demo.ElectionDay(ny))))
}
