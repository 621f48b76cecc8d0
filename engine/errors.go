package engine

import (
	"errors"
	"fmt"
)

// ErrMissingInput indicates Run was not given an image for one of the
// Graph's declared inputs.
var ErrMissingInput = errors.New("engine: missing input buffer")

// MissingInputError names the input Run was not given a buffer for.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingInput, e.Name)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// UnsupportedDefinitionError mirrors lower's backstop: it indicates Run
// encountered a Definition shape with no evaluation case, which
// should be unreachable for any tree built through the pipeline package's
// constructors.
type UnsupportedDefinitionError struct {
	Kind string
}

func (e *UnsupportedDefinitionError) Error() string {
	return fmt.Sprintf("engine: unsupported definition kind %q", e.Kind)
}
