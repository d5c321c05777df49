package pipeline

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every malformed step or getter.
var ErrSyntax = errors.New("pipeline syntax error")

// Error locates a failure within a step list.
type Error struct {
	Index int
	Text  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("step %d (%q): %v", e.Index+1, e.Text, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func syntaxError(text, usage string) error {
	return fmt.Errorf("%w: %q, want %s", ErrSyntax, text, usage)
}
