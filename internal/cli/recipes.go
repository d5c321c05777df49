package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// RecipeSummary describes one recipe.
type RecipeSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Zone        string   `json:"zone,omitempty"`
	Steps       []string `json:"steps"`
	Getters     []string `json:"getters,omitempty"`
}

// RecipeList is the output of recipes list.
type RecipeList struct {
	Dir     string          `json:"dir"`
	Recipes []RecipeSummary `json:"recipes"`
}

func (l RecipeList) String() string {
	if len(l.Recipes) == 0 {
		return "No recipes found."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, r := range l.Recipes {
		zone := r.Zone
		if zone == "" {
			zone = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, zone, r.Description)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewRecipesCommand creates the recipes command group.
func NewRecipesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List and run named pipelines from CUE files",
		Long: `Recipes are named pipelines declared in CUE files under --recipes:

  recipe: nextThursday: {
    description: "Start of the next Thursday"
    steps: ["next:day:4"]
  }

A recipe may pin a zone; --zone overrides it.`,
	}

	cmd.AddCommand(newRecipesListCommand(rootOpts))
	cmd.AddCommand(newRecipesRunCommand(rootOpts))

	return cmd
}

func newRecipesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			set, err := opts.loadRecipes()
			if err != nil {
				return f.Fail(ExitCommandError, err)
			}

			list := RecipeList{Dir: opts.Recipes, Recipes: []RecipeSummary{}}
			for _, name := range set.Names() {
				r, _ := set.Get(name)
				list.Recipes = append(list.Recipes, RecipeSummary{
					Name:        r.Name,
					Description: r.Description,
					Zone:        r.Zone,
					Steps:       r.Steps,
					Getters:     r.Getters,
				})
			}
			return f.Success(list)
		},
	}
}

func newRecipesRunCommand(opts *RootOptions) *cobra.Command {
	var extra []string

	cmd := &cobra.Command{
		Use:   "run <name> [input]",
		Short: "Run a recipe",
		Long: `Run a recipe on input (default now) and print its trace and getters.

Examples:
  twozhakes recipes run nextElection
  twozhakes recipes run pollsClose 2022-06-01 --zone America/Chicago`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			set, err := opts.loadRecipes()
			if err != nil {
				return f.Fail(ExitCommandError, err)
			}
			r, err := set.Get(args[0])
			if err != nil {
				return f.Fail(ExitFailure, err)
			}

			input := "now"
			if len(args) == 2 {
				input = args[1]
			}

			getters, err := opts.parseGetters(slices.Concat(r.Getters, extra))
			if err != nil {
				return f.Fail(ExitFailure, err)
			}

			zoneID := opts.Zone
			if r.Zone != "" && !cmd.Flags().Changed("zone") {
				zoneID = r.Zone
			}
			z, err := opts.zoneByID(zoneID)
			if err != nil {
				return f.Fail(ExitFailure, err)
			}

			return opts.runPipeline(cmd, f, "recipe:"+r.Name, z, input, r.Pipeline, getters)
		},
	}

	cmd.Flags().StringArrayVarP(&extra, "get", "g", nil, "extra getter to evaluate (repeatable)")

	return cmd
}
