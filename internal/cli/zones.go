package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/temporal"
)

// ZoneInfo describes a zone at an instant.
type ZoneInfo struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Offset       string `json:"offset"`
	Local        string `json:"local"`
}

// ZonesResult is the output of the zones command.
type ZonesResult struct {
	At    string     `json:"at"`
	Zones []ZoneInfo `json:"zones"`
}

func (r ZonesResult) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, z := range r.Zones {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", z.ID, z.Abbreviation, z.Offset, z.Local)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// ZonesOptions holds flags for the zones command.
type ZonesOptions struct {
	*RootOptions
	At string
}

// NewZonesCommand creates the zones command.
func NewZonesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ZonesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "zones [id]...",
		Short: "Describe zones at an instant",
		Long: `Resolve zone identifiers and show each zone's abbreviation, UTC offset
and wall-clock time at an instant (default now). With no identifiers the
selected zone (--zone, or the local zone) is described.

Examples:
  twozhakes zones America/New_York Europe/London Asia/Kolkata
  twozhakes zones America/Los_Angeles --at 2020-03-08T12:00:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZones(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "now", "instant to describe the zones at")

	return cmd
}

func runZones(opts *ZonesOptions, ids []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	zones := make([]*temporal.Zone, 0, max(len(ids), 1))
	if len(ids) == 0 {
		z, err := opts.zone()
		if err != nil {
			return f.Fail(ExitFailure, err)
		}
		zones = append(zones, z)
	}
	for _, id := range ids {
		z, err := opts.zoneByID(id)
		if err != nil {
			return f.Fail(ExitFailure, err)
		}
		zones = append(zones, z)
	}

	// --at is read in the first zone; text with an offset means the same
	// instant everywhere.
	at, err := opts.instant(zones[0], opts.At)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	result := ZonesResult{At: at.String(), Zones: make([]ZoneInfo, 0, len(zones))}
	for _, z := range zones {
		result.Zones = append(result.Zones, ZoneInfo{
			ID:           z.ID(),
			Abbreviation: temporal.Extract(z, at, temporal.Format("z")),
			Offset:       temporal.Extract(z, at, temporal.Format("Z")),
			Local:        temporal.Extract(z, at, temporal.Format("YYYY-MM-DD HH:mm:ss")),
		})
	}
	return f.Success(result)
}
