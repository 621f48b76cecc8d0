package pipeline

import (
	"fmt"
	"slices"
)

// CompareKind is the comparison operator a [Condition] tests.
type CompareKind uint8

const (
	CompareEQ CompareKind = iota
	CompareGT
	CompareGTE
	CompareLT
	CompareLTE
)

func (k CompareKind) String() string {
	switch k {
	case CompareEQ:
		return "=="
	case CompareGT:
		return ">"
	case CompareGTE:
		return ">="
	case CompareLT:
		return "<"
	case CompareLTE:
		return "<="
	default:
		return "?"
	}
}

// Definition is a pixel-value expression: a constant, a runtime parameter, a
// read from another stage, arithmetic over other Definitions, or a
// conditional choice between two Definitions.
//
// Definition nodes are immutable after construction; composite nodes own
// their children exclusively. Build trees with the constructor functions in
// this file rather than implementing this interface directly.
type Definition interface {
	// Sources returns the Source/Func names referenced by any Access in the
	// tree, deduplicated, in first-encountered order.
	Sources() []string

	// Params returns the Param names referenced anywhere in the tree,
	// deduplicated, in first-encountered order.
	Params() []string

	// PrettyPrint renders the expression in canonical infix form. Leaves
	// (Const, Param, Access) are never parenthesized; every composite node
	// wraps non-leaf children in parentheses.
	PrettyPrint() string

	// Op returns a node's tag: "const", "param", "access", "+", "-", "*",
	// "/", or "if". Callers outside this package (lower, engine) use
	// Op/Children/Literal to walk a Definition tree structurally without
	// needing access to its unexported concrete types.
	Op() string

	// Children returns a composite node's operands. Access's coordinate
	// expressions are VarExprs, not Definitions, so Access reports no
	// Children; callers type-assert to Access to reach them. Always empty
	// for Const and Param.
	Children() []Definition

	// Literal returns a leaf node's wrapped value: an int32 for Const, a
	// string name for Param. A Condition returns its CompareKind. Always
	// nil for the arithmetic nodes and Access.
	Literal() any

	// definition seals the interface to this package's implementations.
	definition()
}

// Access is a read of one pixel from a named source at a coordinate
// computed from X and Y.
type Access struct {
	Source string
	XExpr  VarExpr
	YExpr  VarExpr
}

// ReadAt builds a Definition that reads source at (xe, ye).
func ReadAt(source string, xe, ye VarExpr) Definition {
	return Access{Source: source, XExpr: xe, YExpr: ye}
}

func (a Access) Sources() []string { return []string{a.Source} }
func (a Access) Params() []string  { return nil }
func (a Access) PrettyPrint() string {
	return fmt.Sprintf("%s.at(%s, %s)", a.Source, a.XExpr.PrettyPrint(), a.YExpr.PrettyPrint())
}
func (a Access) Op() string            { return "access" }
func (a Access) Children() []Definition { return nil }
func (a Access) Literal() any          { return nil }
func (Access) definition()             {}

// defConst is an i32 constant pixel value.
type defConst struct{ c int32 }

// DefConst builds a constant Definition.
func DefConst(c int32) Definition { return defConst{c: c} }

func (d defConst) Sources() []string    { return nil }
func (d defConst) Params() []string     { return nil }
func (d defConst) PrettyPrint() string  { return fmt.Sprintf("%d", d.c) }
func (d defConst) Op() string           { return "const" }
func (d defConst) Children() []Definition { return nil }
func (d defConst) Literal() any         { return d.c }
func (defConst) definition()            {}

// defParam is a reference to a runtime-supplied scalar parameter.
type defParam struct{ name string }

// Param builds a Definition referencing a named runtime parameter.
func Param(name string) Definition { return defParam{name: name} }

func (d defParam) Sources() []string    { return nil }
func (d defParam) Params() []string     { return []string{d.name} }
func (d defParam) PrettyPrint() string  { return d.name }
func (d defParam) Op() string           { return "param" }
func (d defParam) Children() []Definition { return nil }
func (d defParam) Literal() any         { return d.name }
func (defParam) definition()            {}

// defOp identifies the arithmetic operator of a composite Definition node.
type defOp uint8

const (
	defOpAdd defOp = iota
	defOpSub
	defOpMul
	defOpDiv
)

func (o defOp) String() string {
	switch o {
	case defOpAdd:
		return "+"
	case defOpSub:
		return "-"
	case defOpMul:
		return "*"
	case defOpDiv:
		return "/"
	default:
		return "?"
	}
}

// defBin is a binary arithmetic node: Add, Sub, Mul, or Div.
type defBin struct {
	op   defOp
	l, r Definition
}

// DefAdd builds l + r.
func DefAdd(l, r Definition) Definition { return defBin{op: defOpAdd, l: l, r: r} }

// DefSub builds l - r.
func DefSub(l, r Definition) Definition { return defBin{op: defOpSub, l: l, r: r} }

// DefMul builds l * r.
func DefMul(l, r Definition) Definition { return defBin{op: defOpMul, l: l, r: r} }

// DefDiv builds l / r. Division by zero is a runtime condition, not a
// construction error; see the engine package.
func DefDiv(l, r Definition) Definition { return defBin{op: defOpDiv, l: l, r: r} }

func (b defBin) Sources() []string { return mergeNames(b.l.Sources(), b.r.Sources()) }
func (b defBin) Params() []string  { return mergeNames(b.l.Params(), b.r.Params()) }

func (b defBin) PrettyPrint() string {
	return wrapDef(b.l) + " " + b.op.String() + " " + wrapDef(b.r)
}
func (b defBin) Op() string            { return b.op.String() }
func (b defBin) Children() []Definition { return []Definition{b.l, b.r} }
func (b defBin) Literal() any          { return nil }
func (defBin) definition()             {}

// Condition compares two Definitions and picks between two further
// Definitions based on the result.
type Condition struct {
	Cmp            CompareKind
	Lhs, Rhs       Definition
	IfTrue, IfFalse Definition
}

// Cond builds a conditional Definition: if cmp(lhs, rhs) then ifTrue else
// ifFalse.
func Cond(cmp CompareKind, lhs, rhs, ifTrue, ifFalse Definition) Definition {
	return Condition{Cmp: cmp, Lhs: lhs, Rhs: rhs, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (c Condition) Sources() []string {
	return mergeNames(
		mergeNames(c.Lhs.Sources(), c.Rhs.Sources()),
		mergeNames(c.IfTrue.Sources(), c.IfFalse.Sources()),
	)
}

func (c Condition) Params() []string {
	return mergeNames(
		mergeNames(c.Lhs.Params(), c.Rhs.Params()),
		mergeNames(c.IfTrue.Params(), c.IfFalse.Params()),
	)
}

func (c Condition) PrettyPrint() string {
	return fmt.Sprintf("if %s %s %s then %s else %s",
		wrapDef(c.Lhs), c.Cmp.String(), wrapDef(c.Rhs),
		wrapDef(c.IfTrue), wrapDef(c.IfFalse))
}

func (c Condition) Op() string { return "if" }
func (c Condition) Children() []Definition {
	return []Definition{c.Lhs, c.Rhs, c.IfTrue, c.IfFalse}
}
func (c Condition) Literal() any { return c.Cmp }
func (Condition) definition()    {}

// isDefLeaf reports whether d is a Const, Param, or Access node, which
// pretty-printing never parenthesizes.
func isDefLeaf(d Definition) bool {
	switch d.(type) {
	case defConst, defParam, Access:
		return true
	default:
		return false
	}
}

// wrapDef renders a child Definition, adding parentheses around non-leaf
// children per the pretty-print precedence contract.
func wrapDef(d Definition) string {
	if isDefLeaf(d) {
		return d.PrettyPrint()
	}
	return "(" + d.PrettyPrint() + ")"
}

// mergeNames concatenates a and b, deduplicating while preserving
// first-encountered order.
func mergeNames(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return slices.Clip(out)
}
