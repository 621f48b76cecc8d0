package pipeline

// FuncSchedule is the outer-to-inner iteration order for one Func or
// Source's two loop variables.
type FuncSchedule struct {
	// Order lists the loop variables from outermost to innermost. Must
	// contain exactly VarY, VarX or VarX, VarY.
	Order [2]Var
}

// YOuter iterates Y in the outer loop and X in the inner loop (row-major).
func YOuter() FuncSchedule { return FuncSchedule{Order: [2]Var{VarY, VarX}} }

// XOuter iterates X in the outer loop and Y in the inner loop
// (column-major).
func XOuter() FuncSchedule { return FuncSchedule{Order: [2]Var{VarX, VarY}} }

// Outer returns the outer loop variable.
func (s FuncSchedule) Outer() Var { return s.Order[0] }

// Inner returns the inner loop variable.
func (s FuncSchedule) Inner() Var { return s.Order[1] }

// Schedule maps every Func and Source name in a Graph to its FuncSchedule.
type Schedule struct {
	entries map[string]FuncSchedule
}

// NewSchedule builds a Schedule from a name->FuncSchedule map.
func NewSchedule(entries map[string]FuncSchedule) Schedule {
	cp := make(map[string]FuncSchedule, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return Schedule{entries: cp}
}

// Get returns the FuncSchedule for name, and whether it was present.
func (s Schedule) Get(name string) (FuncSchedule, bool) {
	fs, ok := s.entries[name]
	return fs, ok
}

// Has reports whether name has an entry.
func (s Schedule) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}
