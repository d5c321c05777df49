package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/calendar"
	"github.com/roach88/twozhakes/internal/config"
	"github.com/roach88/twozhakes/internal/metrics"
	"github.com/roach88/twozhakes/internal/pipeline"
	"github.com/roach88/twozhakes/internal/recipe"
	"github.com/roach88/twozhakes/internal/store"
	"github.com/roach88/twozhakes/internal/temporal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Zone       string // empty means the local zone
	Database   string
	Recipes    string
	Config     string
	MetricsOut string
	Record     bool

	// Clock replaces the wall clock (for testing). Nil means time.Now.
	Clock func() time.Time

	// IDGenerator replaces the journal's UUIDv7 generator (for testing).
	IDGenerator store.IDGenerator

	cfg      *config.Config
	logger   *slog.Logger
	observer *metrics.Observer
	registry *temporal.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the twozhakes CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twozhakes",
		Short: "twozhakes - time zone arithmetic you can read",
		Long: `Parse, shift and read instants in named time zones.

Every command runs in one zone (--zone, default the local zone). Steps
such as add:days:1 or startOf:month operate on wall-clock time in that
zone, so a day is not always 24 hours.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.flushMetrics()
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVarP(&opts.Zone, "zone", "z", "", "zone identifier, e.g. America/New_York (default local zone)")
	pf.StringVar(&opts.Database, "db", "", "path to the SQLite evaluation journal")
	pf.StringVar(&opts.Recipes, "recipes", "", "directory of CUE recipe files")
	pf.StringVar(&opts.Config, "config", "", "TOML config file (default $"+config.EnvVar+")")
	pf.StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")
	pf.BoolVar(&opts.Record, "record", false, "append evaluations to the journal")

	// Add subcommands
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewExtractCommand(opts))
	cmd.AddCommand(NewOperateCommand(opts))
	cmd.AddCommand(NewNextCommand(opts))
	cmd.AddCommand(NewElectionCommand(opts))
	cmd.AddCommand(NewRecipesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewZonesCommand(opts))
	cmd.AddCommand(NewNamesCommand(opts))

	return cmd
}

// setup loads configuration, fills flags the user did not set, and builds
// the logger, metrics observer and zone registry shared by subcommands.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Path != "" {
		o.Format = cfg.Defaults.Output
	}
	if !flags.Changed("zone") && o.Zone == "" {
		o.Zone = cfg.Defaults.Zone
	}
	if !flags.Changed("db") && o.Database == "" {
		o.Database = cfg.Journal.Path
	}
	if !flags.Changed("recipes") && o.Recipes == "" {
		o.Recipes = cfg.Recipes.Dir
	}
	if !flags.Changed("metrics-out") && o.MetricsOut == "" {
		o.MetricsOut = cfg.Metrics.Out
	}
	if !flags.Changed("record") && !o.Record {
		o.Record = cfg.Journal.Record
	}

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	o.logger = newLogger(cmd.ErrOrStderr(), o.Verbose, cfg.Defaults.LogLevel)
	o.observer = metrics.New()

	clock := o.Clock
	if clock == nil {
		clock = time.Now
	}
	o.registry = temporal.NewRegistry(
		calendar.New(calendar.WithClock(clock)),
		temporal.WithLogger(o.logger),
		temporal.WithObserver(o.observer),
	)
	return nil
}

func (o *RootOptions) flushMetrics() error {
	if o.MetricsOut == "" || o.observer == nil {
		return nil
	}
	if err := o.observer.WriteToTextfile(o.MetricsOut); err != nil {
		return WrapExitError(ExitCommandError, "failed to write metrics", err)
	}
	o.logger.Debug("metrics written", "path", o.MetricsOut)
	return nil
}

// zone resolves the --zone flag.
func (o *RootOptions) zone() (*temporal.Zone, error) {
	return o.zoneByID(o.Zone)
}

// zoneByID looks up id in the command's registry; empty means local.
func (o *RootOptions) zoneByID(id string) (*temporal.Zone, error) {
	if id == "" {
		return o.registry.Local(), nil
	}
	return o.registry.Zone(id)
}

// instant parses input in z; "" and "now" mean the current instant.
func (o *RootOptions) instant(z *temporal.Zone, input string) (temporal.Instant, error) {
	if input == "" || input == "now" {
		return z.Now(), nil
	}
	return z.Parse(input)
}

func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// parseGetters compiles getters with the configured calendar formats.
func (o *RootOptions) parseGetters(texts []string) ([]*pipeline.Getter, error) {
	var formats map[string]string
	if o.cfg != nil {
		formats = o.cfg.Calendar.Formats
	}
	return pipeline.ParseGetters(texts, pipeline.WithCalendarFormats(formats))
}

// loadRecipes loads the --recipes directory.
func (o *RootOptions) loadRecipes() (*recipe.Set, error) {
	set, errs := recipe.Load(o.Recipes, recipe.LoadModeCollectAll)
	if len(errs) > 0 {
		return set, joinErrors(errs)
	}
	return set, nil
}

// openStore opens the journal named by --db.
func (o *RootOptions) openStore() (*store.Store, error) {
	if o.Database == "" {
		return nil, NewExitError(ExitCommandError, "no journal configured: pass --db")
	}
	var storeOpts []store.Option
	if o.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.IDGenerator))
	}
	st, err := store.Open(o.Database, storeOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

func newLogger(w io.Writer, verbose bool, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
