package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/store"
	"github.com/roach88/twozhakes/internal/temporal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	Digest string
	ID     string
}

// HistoryEntry is one journaled evaluation.
type HistoryEntry struct {
	ID           string            `json:"id"`
	Seq          int64             `json:"seq"`
	RecordedAt   string            `json:"recorded_at"`
	Source       string            `json:"source"`
	Zone         string            `json:"zone"`
	Input        string            `json:"input"`
	InputInstant string            `json:"input_instant"`
	Steps        []string          `json:"steps"`
	Extract      map[string]string `json:"extract"`
	Instant      string            `json:"instant"`
	Digest       string            `json:"digest"`
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Total       int            `json:"total"`
	Evaluations []HistoryEntry `json:"evaluations"`
}

func (h HistoryResult) String() string {
	if len(h.Evaluations) == 0 {
		return "No evaluations recorded."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tID\tSOURCE\tZONE\tINPUT\tRESULT")
	for _, e := range h.Evaluations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.Seq, e.ID, e.Source, e.Zone, e.Input, e.Instant)
	}
	w.Flush()
	fmt.Fprintf(&b, "%d of %d evaluations", len(h.Evaluations), h.Total)
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled evaluations",
		Long: `Show evaluations appended to the journal by --record, newest first.

Examples:
  twozhakes history --db twozhakes.db --limit 5
  twozhakes history --id 0192f1c4-...
  twozhakes history --digest 3f9a... --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum evaluations to show (0 for all)")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "show evaluations with this content digest, oldest first")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single evaluation")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Digest != "" && opts.ID != "" {
		return NewExitError(ExitCommandError, "--digest and --id are mutually exclusive")
	}

	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := st.Count(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	var evals []store.Evaluation
	switch {
	case opts.ID != "":
		e, err := st.Get(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			return f.Fail(ExitFailure, err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		evals = []store.Evaluation{e}
	case opts.Digest != "":
		evals, err = st.FindByDigest(ctx, opts.Digest)
	default:
		evals, err = st.Recent(ctx, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := HistoryResult{Total: total, Evaluations: make([]HistoryEntry, 0, len(evals))}
	for _, e := range evals {
		result.Evaluations = append(result.Evaluations, historyEntry(e))
	}
	return f.Success(result)
}

func historyEntry(e store.Evaluation) HistoryEntry {
	return HistoryEntry{
		ID:           e.ID,
		Seq:          e.Seq,
		RecordedAt:   temporal.Instant(e.RecordedAt).String(),
		Source:       e.Source,
		Zone:         e.Zone,
		Input:        e.Input,
		InputInstant: temporal.Instant(e.InputInstant).String(),
		Steps:        e.Steps,
		Extract:      e.Extract,
		Instant:      temporal.Instant(e.Result).String(),
		Digest:       e.Digest,
	}
}
