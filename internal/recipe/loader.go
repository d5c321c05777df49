package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002"
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"

	ErrCodeInvalidRecipe  = "E101"
	ErrCodeInvalidSteps   = "E102"
	ErrCodeInvalidGetters = "E103"
	ErrCodeUnknownRecipe  = "E104"
)

// LoadError is a loading failure with its CUE position, if any.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Set is a collection of recipes keyed by name.
type Set struct {
	recipes   map[string]*Recipe
	FileCount int
}

// Get returns the named recipe.
func (s *Set) Get(name string) (*Recipe, error) {
	if s != nil {
		if r, ok := s.recipes[name]; ok {
			return r, nil
		}
	}
	return nil, &LoadError{Code: ErrCodeUnknownRecipe, Message: fmt.Sprintf("no recipe named %q", name)}
}

// Names lists recipe names in sorted order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.recipes))
	for name := range s.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recipes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.recipes)
}

// Load reads every CUE file in dir as one package and compiles its
// recipes. In LoadModeCollectAll the returned set holds every recipe that
// compiled, alongside the errors for those that did not.
func Load(dir string, mode LoadMode) (*Set, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("recipes directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing recipes directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	if inst := instances[0]; inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(instances[0])
	set, errs := compileAll(value, mode)
	if set != nil {
		set.FileCount = len(files)
	}
	return set, errs
}

// LoadSource compiles recipes from CUE source text.
func LoadSource(filename, src string, mode LoadMode) (*Set, []error) {
	value := cuecontext.New().CompileString(src, cue.Filename(filename))
	set, errs := compileAll(value, mode)
	if set != nil {
		set.FileCount = 1
	}
	return set, errs
}

func compileAll(value cue.Value, mode LoadMode) (*Set, []error) {
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	set := &Set{recipes: make(map[string]*Recipe)}
	var errs []error

	recipes := value.LookupPath(cue.ParsePath("recipe"))
	if !recipes.Exists() {
		return set, []error{&LoadError{Code: ErrCodeGeneric, Message: "no recipes found"}}
	}
	iter, err := recipes.Fields()
	if err != nil {
		return set, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating recipes: %v", err)}}
	}
	for iter.Next() {
		r, err := Compile(iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err, "recipe."+iter.Selector().String()))
			if mode == LoadModeFailFast {
				return set, errs
			}
			continue
		}
		set.recipes[r.Name] = r
	}
	return set, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func convertCompileError(err error, context string) *LoadError {
	var ce *CompileError
	if errors.As(err, &ce) {
		return &LoadError{
			Code:    fieldErrorCode(ce.Field),
			Message: fmt.Sprintf("%s: %s", context, ce.Message),
			Pos:     ce.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

func fieldErrorCode(field string) string {
	switch field {
	case "cue":
		return ErrCodeInvalidRecipe
	case "steps":
		return ErrCodeInvalidSteps
	case "getters":
		return ErrCodeInvalidGetters
	default:
		return ErrCodeGeneric
	}
}
