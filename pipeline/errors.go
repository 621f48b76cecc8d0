package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for Graph construction failures. Wrap with fmt.Errorf
// and %w so callers can use errors.Is against these values.
var (
	// ErrDuplicateFunc indicates two Funcs in the same Graph share a name.
	ErrDuplicateFunc = errors.New("pipeline: duplicate func name")

	// ErrDependencyOrder indicates a Func accesses another Func that has
	// not appeared earlier in the Graph's Func list.
	ErrDependencyOrder = errors.New("pipeline: func list is not in dependency order")

	// ErrMissingSchedule indicates the Schedule is missing an entry for a
	// Func or Source the Graph requires.
	ErrMissingSchedule = errors.New("pipeline: schedule missing required entries")

	// ErrEmptyGraph indicates a Graph was constructed with no Funcs.
	ErrEmptyGraph = errors.New("pipeline: graph has no funcs")
)

// MissingScheduleError reports every name the Schedule is missing an entry
// for, so callers can report all of them at once rather than one at a time.
type MissingScheduleError struct {
	Names []string
}

func (e *MissingScheduleError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMissingSchedule, e.Names)
}

func (e *MissingScheduleError) Unwrap() error { return ErrMissingSchedule }

// DependencyOrderError reports which Func violated dependency order and
// which name it referenced too early.
type DependencyOrderError struct {
	Func           string
	ReferencedName string
}

func (e *DependencyOrderError) Error() string {
	return fmt.Sprintf("%v: func %q accesses %q before it is defined",
		ErrDependencyOrder, e.Func, e.ReferencedName)
}

func (e *DependencyOrderError) Unwrap() error { return ErrDependencyOrder }
