package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/twozhakes/internal/temporal"
)

// NamesResult is the output of the names command.
type NamesResult struct {
	Units   []string `json:"units"`
	Setters []string `json:"setters"`
}

func (r NamesResult) String() string {
	return "units:   " + strings.Join(r.Units, " ") + "\nsetters: " + strings.Join(r.Setters, " ")
}

// NewNamesCommand creates the names command.
func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List unit and setter names",
		Long: `List the unit names accepted by add, subtract, startOf and endOf, and
the setter names accepted by set and as getters. Plural forms (days,
hours) are accepted everywhere a name is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(NamesResult{
				Units:   temporal.UnitNames(),
				Setters: temporal.SetterNames(),
			})
		},
	}
}
