package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/pipeline"
	"github.com/roach88/twozhakes/internal/store"
	"github.com/roach88/twozhakes/internal/temporal"
)

// ParseResult is the output of the parse command.
type ParseResult struct {
	Zone    string `json:"zone"`
	Input   string `json:"input"`
	Instant string `json:"instant"`
	Millis  int64  `json:"millis"`
	Local   string `json:"local"`
}

func (r ParseResult) String() string {
	return fmt.Sprintf("%s\t%s\t%s", r.Instant, r.Local, r.Zone)
}

// StageView is one pipeline stage as shown to users.
type StageView struct {
	Step    string `json:"step"`
	Instant string `json:"instant"`
	Local   string `json:"local"`
}

// EvaluationResult is the output of the operate and extract commands.
type EvaluationResult struct {
	Zone         string            `json:"zone"`
	Input        string            `json:"input"`
	InputInstant string            `json:"input_instant"`
	Stages       []StageView       `json:"stages,omitempty"`
	Instant      string            `json:"instant"`
	Local        string            `json:"local"`
	Extract      map[string]string `json:"extract,omitempty"`

	getters    []string
	inputLocal string
}

func (r EvaluationResult) String() string {
	var b strings.Builder

	// A lone getter prints just its value, for shell pipelines.
	if len(r.Stages) == 0 && len(r.getters) == 1 {
		return r.Extract[r.getters[0]]
	}

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	if len(r.Stages) > 0 {
		fmt.Fprintf(w, "input\t%s\t%s\n", r.inputLocal, r.Zone)
		for _, s := range r.Stages {
			fmt.Fprintf(w, "%s\t%s\t\n", s.Step, s.Local)
		}
		fmt.Fprintf(w, "=\t%s\t%s\n", r.Instant, r.Local)
	}
	for _, g := range r.getters {
		fmt.Fprintf(w, "%s\t%s\t\n", g, r.Extract[g])
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <input>",
		Short: "Parse text as an instant in a zone",
		Long: `Parse text as an instant. Text without an offset is wall-clock time
in the selected zone; "now" is the current instant.

Examples:
  twozhakes parse --zone America/Los_Angeles 2020-03-07T05:00:00
  twozhakes parse --zone Asia/Kolkata "2020-03-07 18:30" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
}

func runParse(opts *RootOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	z, err := opts.zone()
	if err != nil {
		return f.Fail(ExitFailure, err)
	}
	i, err := opts.instant(z, input)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	return f.Success(ParseResult{
		Zone:    z.ID(),
		Input:   input,
		Instant: i.String(),
		Millis:  i.UnixMilli(),
		Local:   temporal.Extract(z, i, temporal.Format("")),
	})
}

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "extract <input> <getter>...",
		Short: "Read values from an instant",
		Long: `Evaluate getters on an instant in the selected zone.

Getters are unit or setter names (hour, isoWeekday, dayOfYear), or one of
format:<pattern>, diff:<instant>[:<unit>[:exact]], from:<instant>,
to:<instant>, fromNow, toNow, calendar, weeksInYear, isoWeeksInYear,
daysInMonth. A trailing ! drops the "ago"/"in" of relative text.

Examples:
  twozhakes extract --zone America/New_York now hour
  twozhakes extract 2020-02-05 "format:dddd, MMMM Do YYYY" daysInMonth
  twozhakes extract 2020-02-05 diff:2020-03-01:days fromNow!`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(opts.RootOptions, "extract", args[0], nil, args[1:], cmd)
		},
	}
}

// OperateOptions holds flags for the operate command.
type OperateOptions struct {
	*RootOptions
	Getters []string
}

// NewOperateCommand creates the operate command.
func NewOperateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OperateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "operate <input> <step>...",
		Short: "Apply steps to an instant",
		Long: `Apply steps to an instant in the selected zone, left to right.

Steps:
  add:<unit>:<n>  subtract:<unit>:<n>  set:<setter>:<n>
  startOf:<unit>  endOf:<unit>
  next:<day|month>:<n>  nextInclusive:<day|month>:<n>  election

Examples:
  twozhakes operate --zone America/Los_Angeles 2020-03-07T05:00:00 subtract:day:1 set:hour:3
  twozhakes operate now startOf:month add:months:1 --get "format:YYYY-MM-DD"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(opts.RootOptions, "operate", args[0], args[1:], opts.Getters, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Getters, "get", "g", nil, "getter to evaluate on the result (repeatable)")

	return cmd
}

// runEvaluation is the shared parse → operate → extract path.
func runEvaluation(opts *RootOptions, source, input string, steps, getters []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	p, err := pipeline.Compile(steps)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}
	compiled, err := opts.parseGetters(getters)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	z, err := opts.zone()
	if err != nil {
		return f.Fail(ExitFailure, err)
	}
	return opts.runPipeline(cmd, f, source, z, input, p, compiled)
}

// runPipeline evaluates p and the getters on input in z, journals the
// evaluation when --record is on, and prints the result.
func (o *RootOptions) runPipeline(cmd *cobra.Command, f *OutputFormatter, source string, z *temporal.Zone, input string, p *pipeline.Pipeline, getters []*pipeline.Getter) error {
	i, err := o.instant(z, input)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	result, final, err := evaluate(z, input, i, p, getters)
	if err != nil {
		return f.Fail(ExitFailure, err)
	}

	var recordID string
	if o.Record {
		recordID, err = o.record(cmd.Context(), source, z, input, i, p.Steps(), final, result.Extract)
		if err != nil {
			return err
		}
	}
	return f.SuccessWithRecord(result, recordID)
}

func evaluate(z *temporal.Zone, input string, i temporal.Instant, p *pipeline.Pipeline, getters []*pipeline.Getter) (EvaluationResult, temporal.Instant, error) {
	local := temporal.Format("")

	result := EvaluationResult{
		Zone:         z.ID(),
		Input:        input,
		InputInstant: i.String(),
		inputLocal:   temporal.Extract(z, i, local),
	}
	for _, stage := range p.Trace(i, z) {
		result.Stages = append(result.Stages, StageView{
			Step:    stage.Step,
			Instant: stage.Instant.String(),
			Local:   temporal.Extract(z, stage.Instant, local),
		})
		i = stage.Instant
	}
	result.Instant = i.String()
	result.Local = temporal.Extract(z, i, local)

	if len(getters) > 0 {
		result.Extract = make(map[string]string, len(getters))
	}
	for _, g := range getters {
		v, err := g.Extract(i, z)
		if err != nil {
			return result, i, fmt.Errorf("getter %s: %w", g, err)
		}
		result.Extract[g.String()] = v
		result.getters = append(result.getters, g.String())
	}
	return result, i, nil
}

// record appends an evaluation to the journal and returns its ID.
func (o *RootOptions) record(ctx context.Context, source string, z *temporal.Zone, input string, i temporal.Instant, steps []string, final temporal.Instant, extract map[string]string) (string, error) {
	st, err := o.openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	e, err := st.Append(ctx, store.Evaluation{
		RecordedAt:   o.now().UnixMilli(),
		Source:       source,
		Zone:         z.ID(),
		Input:        input,
		InputInstant: i.UnixMilli(),
		Steps:        steps,
		Extract:      extract,
		Result:       final.UnixMilli(),
	})
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record evaluation", err)
	}
	o.logger.Debug("evaluation recorded", "id", e.ID, "seq", e.Seq, "digest", e.Digest)
	return e.ID, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
