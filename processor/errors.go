package processor

import (
	"errors"
	"fmt"
)

// ErrMissingInput indicates Process was not given an image for one of the
// Graph's declared inputs.
var ErrMissingInput = errors.New("processor: missing input buffer")

// MissingInputError names the input Process was not given a buffer for.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingInput, e.Name)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// ErrShapeMismatch indicates two input images do not share the same
// dimensions. The processor requires every input to match because every
// stage's loop nest is run at a single, shared width and height
// (SPEC_FULL.md §5, point 1).
var ErrShapeMismatch = errors.New("processor: input images have mismatched dimensions")

// ShapeMismatchError names the offending input and the dimensions it was
// expected to match.
type ShapeMismatchError struct {
	Name                string
	WantWidth, WantHeight int
	GotWidth, GotHeight   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%v: %q is %dx%d, want %dx%d",
		ErrShapeMismatch, e.Name, e.GotWidth, e.GotHeight, e.WantWidth, e.WantHeight)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// ErrTracingReentry indicates [Processor.ProcessWithTracing] was called
// while a trace from some other call (on this or another Processor) is
// still installed. Only one tracing pipeline may be in flight at a time;
// see the trace package.
var ErrTracingReentry = errors.New("processor: a trace is already in flight")
