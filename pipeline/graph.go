package pipeline

import (
	"fmt"
	"slices"
)

// Graph is a pipeline: an ordered list of Funcs plus the inputs, outputs,
// params and Schedule derived from them.
//
// Graph is immutable once built. [New] is the only validation boundary:
// every invariant the rest of this module relies on (dependency order,
// schedule completeness, stable param/input ordering) is established there
// and never rechecked downstream.
type Graph struct {
	name     string
	funcs    []Func
	inputs   []string // sorted, deduplicated
	outputs  []string // Func names, in construction order
	params   []string // sorted, deduplicated
	schedule Schedule
}

// New builds a Graph from a name, an ordered Func list, and a Schedule.
//
// Construction:
//  1. Collects every source any Func accesses; names that are not
//     themselves Func names become the sorted, deduplicated input list.
//  2. Collects every Param name referenced anywhere; deduplicates and sorts
//     it.
//  3. Sets outputs to the Func names in caller order, then verifies that
//     order is a valid dependency order: every Access a Func makes must
//     resolve to an input or to a Func listed earlier. This is the
//     verification spec.md's §4.2 requires and the original implementation
//     lacked.
//  4. Verifies the Schedule has an entry for every Func and every input
//     name, failing with all missing names at once.
func New(name string, funcs []Func, schedule Schedule) (*Graph, error) {
	if len(funcs) == 0 {
		return nil, ErrEmptyGraph
	}

	if err := checkDuplicateFuncs(funcs); err != nil {
		return nil, err
	}

	funcNames := make(map[string]int, len(funcs)) // name -> index in funcs
	for i, f := range funcs {
		funcNames[f.Name] = i
	}

	inputSet := make(map[string]struct{})
	paramSet := make(map[string]struct{})
	for _, f := range funcs {
		for _, src := range f.Sources() {
			if _, isFunc := funcNames[src]; !isFunc {
				inputSet[src] = struct{}{}
			}
		}
		for _, p := range f.Params() {
			paramSet[p] = struct{}{}
		}
	}

	inputs := setToSortedSlice(inputSet)
	params := setToSortedSlice(paramSet)

	if err := checkDependencyOrder(funcs, inputSet); err != nil {
		return nil, err
	}

	outputs := make([]string, len(funcs))
	for i, f := range funcs {
		outputs[i] = f.Name
	}

	if err := checkScheduleComplete(schedule, funcs, inputs); err != nil {
		return nil, err
	}

	return &Graph{
		name:     name,
		funcs:    slices.Clone(funcs),
		inputs:   inputs,
		outputs:  outputs,
		params:   params,
		schedule: schedule,
	}, nil
}

func checkDuplicateFuncs(funcs []Func) error {
	seen := make(map[string]struct{}, len(funcs))
	for _, f := range funcs {
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateFunc, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// checkDependencyOrder verifies every Access in funcs resolves either to a
// declared input or to a Func listed strictly earlier in funcs.
func checkDependencyOrder(funcs []Func, inputSet map[string]struct{}) error {
	defined := make(map[string]struct{}, len(funcs))
	for _, f := range funcs {
		for _, src := range f.Sources() {
			if _, ok := inputSet[src]; ok {
				continue
			}
			if _, ok := defined[src]; !ok {
				return &DependencyOrderError{Func: f.Name, ReferencedName: src}
			}
		}
		defined[f.Name] = struct{}{}
	}
	return nil
}

func checkScheduleComplete(schedule Schedule, funcs []Func, inputs []string) error {
	var missing []string
	for _, f := range funcs {
		if !schedule.Has(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	for _, in := range inputs {
		if !schedule.Has(in) {
			missing = append(missing, in)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &MissingScheduleError{Names: missing}
	}
	return nil
}

func setToSortedSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Name returns the graph's name; the lowerer uses it as the generated
// function's symbol name.
func (g *Graph) Name() string { return g.name }

// Funcs returns the Funcs in dependency order.
func (g *Graph) Funcs() []Func { return slices.Clone(g.funcs) }

// Func returns the Func with the given name, if present.
func (g *Graph) Func(name string) (Func, bool) {
	for _, f := range g.funcs {
		if f.Name == name {
			return f, true
		}
	}
	return Func{}, false
}

// Inputs returns the required input Source names, sorted lexicographically.
func (g *Graph) Inputs() []string { return slices.Clone(g.inputs) }

// Outputs returns the Func names in graph (dependency) order.
func (g *Graph) Outputs() []string { return slices.Clone(g.outputs) }

// Params returns the required Param names, sorted lexicographically. This
// is the positional layout callers must use for the params array.
func (g *Graph) Params() []string { return slices.Clone(g.params) }

// Schedule returns the graph's Schedule.
func (g *Graph) Schedule() Schedule { return g.schedule }

// BufferOrder returns Inputs() concatenated with Outputs(): the canonical
// buffer ordering the lowerer and processor both use.
func (g *Graph) BufferOrder() []string {
	order := make([]string, 0, len(g.inputs)+len(g.outputs))
	order = append(order, g.inputs...)
	order = append(order, g.outputs...)
	return order
}

// FinalOutput returns the last Func in Outputs(): the stage whose
// dimensions every loop nest borrows, per the documented loop-bound
// limitation (SPEC_FULL.md §5, point 1).
func (g *Graph) FinalOutput() string {
	return g.outputs[len(g.outputs)-1]
}
