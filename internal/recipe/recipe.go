// Package recipe loads named pipelines declared in CUE.
//
// A recipe file declares entries under the top-level "recipe" struct:
//
//	recipe: nextElection: {
//		description: "Start of the next US federal election day"
//		zone:        "America/New_York"
//		steps: ["election"]
//		getters: ["format:dddd, MMMM Do YYYY"]
//	}
//
// Each entry is checked against the #Recipe schema and its steps and
// getters are compiled with the pipeline package.
package recipe

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/twozhakes/internal/pipeline"
)

//go:embed schema.cue
var schemaSource string

// Recipe is a compiled, named pipeline.
type Recipe struct {
	Name        string
	Description string

	// Zone is the recipe's preferred zone; empty means the caller decides.
	Zone string

	Steps   []string
	Getters []string

	Pipeline *pipeline.Pipeline
	Pos      token.Pos
}

// CompileError is a recipe that failed validation, with the CUE position
// of the offending field when one is known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile validates a single recipe value, e.g. the value at
// "recipe.nextElection", and compiles its steps.
func Compile(v cue.Value) (*Recipe, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	r := &Recipe{Pos: v.Pos()}
	if sels := v.Path().Selectors(); len(sels) > 0 {
		r.Name = sels[len(sels)-1].String()
	}

	schema := v.Context().CompileString(schemaSource, cue.Filename("recipe/schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	checked := schema.LookupPath(cue.ParsePath("#Recipe")).Unify(v)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var err error
	if r.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if r.Zone, err = optionalString(v, "zone"); err != nil {
		return nil, err
	}
	if r.Steps, err = stringList(v, "steps"); err != nil {
		return nil, err
	}
	if r.Getters, err = stringList(v, "getters"); err != nil {
		return nil, err
	}

	r.Pipeline, err = pipeline.Compile(r.Steps)
	if err != nil {
		return nil, &CompileError{
			Field:   "steps",
			Message: err.Error(),
			Pos:     elementPos(v, "steps", err),
			Err:     err,
		}
	}
	if _, err := pipeline.ParseGetters(r.Getters); err != nil {
		return nil, &CompileError{
			Field:   "getters",
			Message: err.Error(),
			Pos:     elementPos(v, "getters", err),
			Err:     err,
		}
	}
	return r, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// elementPos finds the position of the list element a pipeline error
// points at, falling back to the list itself.
func elementPos(v cue.Value, field string, err error) token.Pos {
	list := v.LookupPath(cue.ParsePath(field))
	var pe *pipeline.Error
	if errors.As(err, &pe) {
		if elem := list.LookupPath(cue.MakePath(cue.Index(pe.Index))); elem.Exists() {
			return elem.Pos()
		}
	}
	return list.Pos()
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
			Err:     err,
		}
	}
	return err
}
