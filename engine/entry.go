package engine

import (
	"fmt"
	"log/slog"

	"github.com/theotherphil/prism/imagebuf"
	"github.com/theotherphil/prism/pipeline"
	"github.com/theotherphil/prism/trace"
)

// Entry is this module's stand-in for a JIT-compiled function pointer: a
// compiled Graph ready to be run against concrete buffers and params.
type Entry struct {
	graph  *pipeline.Graph
	logger *slog.Logger
}

// Compile prepares graph for execution. Compile never fails for any Graph
// returned by [pipeline.New] — its signature returns an error to mirror
// [lower.Module]'s and to leave room for a future compiled representation
// that can.
func Compile(graph *pipeline.Graph, opts ...Option) (*Entry, error) {
	cfg := applyOptions(opts)
	return &Entry{graph: graph, logger: cfg.logger}, nil
}

// Run evaluates every Func in e's Graph, in dependency order, writing each
// pixel into buffers[f.Name].
//
// buffers must contain an already-populated image for every declared input
// and an already-allocated (any contents) image for every Func name, each
// the dimensions the caller wants the pipeline run at. Every stage's loop
// bounds are taken from buffers[graph.FinalOutput()]'s dimensions
// (SPEC_FULL.md §5, point 1). params must contain an int32 for every
// declared Param name; a missing Param reads as 0.
func (e *Entry) Run(buffers map[string]*imagebuf.Image, params map[string]int32) error {
	for _, name := range e.graph.Inputs() {
		if _, ok := buffers[name]; !ok {
			return &MissingInputError{Name: name}
		}
	}
	finalOut, ok := buffers[e.graph.FinalOutput()]
	if !ok {
		return &MissingInputError{Name: e.graph.FinalOutput()}
	}
	width, height := int32(finalOut.Width), int32(finalOut.Height)

	if e.logger != nil {
		e.logger.Debug("engine: running graph", "graph", e.graph.Name(), "width", width, "height", height)
	}

	for _, f := range e.graph.Funcs() {
		out, ok := buffers[f.Name]
		if !ok {
			return &MissingInputError{Name: f.Name}
		}
		sched, ok := e.graph.Schedule().Get(f.Name)
		if !ok {
			return fmt.Errorf("engine: no schedule entry for func %q", f.Name)
		}
		r := &runner{buffers: buffers, params: params, width: width, height: height}
		r.runFunc(f, sched, out)
	}
	return nil
}

// runner holds the state shared across one Func's full pixel sweep.
type runner struct {
	buffers map[string]*imagebuf.Image
	params  map[string]int32
	width   int32
	height  int32
}

// runFunc sweeps every pixel of out in the order sched specifies: its outer
// axis varies slowest, matching the loop nest [lower] emits for the same
// Func (SPEC_FULL.md §4, point 4).
func (r *runner) runFunc(f pipeline.Func, sched pipeline.FuncSchedule, out *imagebuf.Image) {
	boundFor := func(v pipeline.Var) int32 {
		if v == pipeline.VarX {
			return r.width
		}
		return r.height
	}
	outer, inner := sched.Outer(), sched.Inner()
	outerBound, innerBound := boundFor(outer), boundFor(inner)

	coords := func(outerV, innerV int32) (x, y int32) {
		if outer == pipeline.VarX {
			return outerV, innerV
		}
		return innerV, outerV
	}

	for o := int32(0); o < outerBound; o++ {
		for i := int32(0); i < innerBound; i++ {
			x, y := coords(o, i)
			val := r.evalDefinition(f.Definition, x, y)
			v := byte(val)
			trace.LogWrite(f.Name, x, y, v)
			out.Set(int(x), int(y), v)
		}
	}
}

// evalDefinition evaluates def at (x, y), dispatching on Op for the same
// reason lower does: defConst, defParam and defBin are unexported.
func (r *runner) evalDefinition(def pipeline.Definition, x, y int32) int32 {
	switch d := def.(type) {
	case pipeline.Access:
		return r.evalAccess(d, x, y)
	case pipeline.Condition:
		return r.evalCondition(d, x, y)
	}

	switch def.Op() {
	case "const":
		return def.Literal().(int32)
	case "param":
		return r.params[def.Literal().(string)]
	case "+", "-", "*", "/":
		children := def.Children()
		lv := r.evalDefinition(children[0], x, y)
		rv := r.evalDefinition(children[1], x, y)
		switch def.Op() {
		case "+":
			return lv + rv
		case "-":
			return lv - rv
		case "*":
			return lv * rv
		default:
			return lv / rv
		}
	default:
		panic(&UnsupportedDefinitionError{Kind: fmt.Sprintf("%s (%T)", def.Op(), def)})
	}
}

// evalAccess reads the pixel at (access.XExpr, access.YExpr) evaluated at
// (x, y), yielding 0 for an out-of-bounds coordinate without touching the
// trace.
func (r *runner) evalAccess(access pipeline.Access, x, y int32) int32 {
	ax := evalVarExpr(access.XExpr, x, y)
	ay := evalVarExpr(access.YExpr, x, y)

	src := r.buffers[access.Source]
	if ax < 0 || ax >= int32(src.Width) || ay < 0 || ay >= int32(src.Height) {
		return 0
	}

	trace.LogRead(access.Source, ax, ay)
	return int32(src.At(int(ax), int(ay)))
}

func (r *runner) evalCondition(cond pipeline.Condition, x, y int32) int32 {
	lhs := r.evalDefinition(cond.Lhs, x, y)
	rhs := r.evalDefinition(cond.Rhs, x, y)
	if compare(cond.Cmp, lhs, rhs) {
		return r.evalDefinition(cond.IfTrue, x, y)
	}
	return r.evalDefinition(cond.IfFalse, x, y)
}

func compare(cmp pipeline.CompareKind, lhs, rhs int32) bool {
	switch cmp {
	case pipeline.CompareEQ:
		return lhs == rhs
	case pipeline.CompareGT:
		return lhs > rhs
	case pipeline.CompareGTE:
		return lhs >= rhs
	case pipeline.CompareLT:
		return lhs < rhs
	case pipeline.CompareLTE:
		return lhs <= rhs
	default:
		panic(fmt.Sprintf("engine: unsupported compare kind %v", cmp))
	}
}

// evalVarExpr evaluates coordinate arithmetic. VarExpr already exposes
// Eval, so engine reuses it directly rather than re-deriving the same
// recursion lower needs Op/Children/Literal for.
func evalVarExpr(expr pipeline.VarExpr, x, y int32) int32 {
	return expr.Eval(x, y)
}
