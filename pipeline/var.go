package pipeline

import "fmt"

// Var identifies one of the two free coordinate variables a [VarExpr] can
// reference.
type Var uint8

const (
	// VarX is the horizontal coordinate.
	VarX Var = iota
	// VarY is the vertical coordinate.
	VarY
)

// String returns "x" or "y".
func (v Var) String() string {
	switch v {
	case VarX:
		return "x"
	case VarY:
		return "y"
	default:
		return fmt.Sprintf("Var(%d)", uint8(v))
	}
}

// VarExpr is an integer coordinate expression over the two free variables
// X and Y, built from constants and +, -, x.
//
// VarExpr nodes are immutable after construction; composite nodes own their
// children exclusively. Build trees with [X], [Y], [Const], [Add], [Sub] and
// [Mul] rather than implementing this interface directly.
type VarExpr interface {
	// Sources returns the Source/Func names referenced by any Access in the
	// tree. VarExpr trees never contain an Access, so this is always empty;
	// the method exists so VarExpr and [Definition] share a uniform contract
	// per the specification.
	Sources() []string

	// Params returns the Param names referenced by any Param in the tree.
	// Always empty for VarExpr, for the same reason as Sources.
	Params() []string

	// PrettyPrint renders the expression in canonical infix form. Leaves
	// (Var, Const) are never parenthesized; every composite node wraps
	// non-leaf children in parentheses.
	PrettyPrint() string

	// Eval evaluates the expression at a concrete (x, y), for testing.
	Eval(x, y int32) int32

	// Op returns a node's operator: "var", "const", "+", "-", or "*".
	// Callers outside this package (lower, engine) use Op/Children/Literal
	// to walk a VarExpr tree structurally without needing access to its
	// unexported concrete types.
	Op() string

	// Children returns a composite node's operands, in evaluation order.
	// Always empty for leaves (Var, Const).
	Children() []VarExpr

	// Literal returns a leaf node's wrapped value: a Var for a variable
	// reference, or an int32 for a constant. Always nil for composite
	// nodes.
	Literal() any

	// varExpr seals the interface to this package's implementations.
	varExpr()
}

// varLeaf references one of the two loop variables.
type varLeaf struct{ v Var }

// X builds a VarExpr referencing the horizontal coordinate.
func X() VarExpr { return varLeaf{v: VarX} }

// Y builds a VarExpr referencing the vertical coordinate.
func Y() VarExpr { return varLeaf{v: VarY} }

func (l varLeaf) Sources() []string   { return nil }
func (l varLeaf) Params() []string    { return nil }
func (l varLeaf) PrettyPrint() string { return l.v.String() }
func (l varLeaf) Eval(x, y int32) int32 {
	if l.v == VarX {
		return x
	}
	return y
}
func (l varLeaf) Op() string        { return "var" }
func (l varLeaf) Children() []VarExpr { return nil }
func (l varLeaf) Literal() any      { return l.v }
func (varLeaf) varExpr()            {}

// constLeaf is an i32 constant.
type constLeaf struct{ c int32 }

// Const builds a VarExpr constant.
func Const(c int32) VarExpr { return constLeaf{c: c} }

func (l constLeaf) Sources() []string       { return nil }
func (l constLeaf) Params() []string        { return nil }
func (l constLeaf) PrettyPrint() string     { return fmt.Sprintf("%d", l.c) }
func (l constLeaf) Eval(int32, int32) int32 { return l.c }
func (l constLeaf) Op() string              { return "const" }
func (l constLeaf) Children() []VarExpr     { return nil }
func (l constLeaf) Literal() any            { return l.c }
func (constLeaf) varExpr()                  {}

// varOp identifies the arithmetic operator of a composite VarExpr node.
type varOp uint8

const (
	varOpAdd varOp = iota
	varOpSub
	varOpMul
)

func (o varOp) String() string {
	switch o {
	case varOpAdd:
		return "+"
	case varOpSub:
		return "-"
	case varOpMul:
		return "*"
	default:
		return "?"
	}
}

// varBin is a binary arithmetic node: Add, Sub, or Mul.
type varBin struct {
	op   varOp
	l, r VarExpr
}

// Add builds l + r.
func Add(l, r VarExpr) VarExpr { return varBin{op: varOpAdd, l: l, r: r} }

// Sub builds l - r.
func Sub(l, r VarExpr) VarExpr { return varBin{op: varOpSub, l: l, r: r} }

// Mul builds l * r.
func Mul(l, r VarExpr) VarExpr { return varBin{op: varOpMul, l: l, r: r} }

func (b varBin) Sources() []string { return nil }
func (b varBin) Params() []string  { return nil }

func (b varBin) PrettyPrint() string {
	return wrap(b.l) + " " + b.op.String() + " " + wrap(b.r)
}

func (b varBin) Eval(x, y int32) int32 {
	lv, rv := b.l.Eval(x, y), b.r.Eval(x, y)
	switch b.op {
	case varOpAdd:
		return lv + rv
	case varOpSub:
		return lv - rv
	case varOpMul:
		return lv * rv
	default:
		panic("pipeline: unreachable varOp")
	}
}

func (b varBin) Op() string          { return b.op.String() }
func (b varBin) Children() []VarExpr { return []VarExpr{b.l, b.r} }
func (b varBin) Literal() any        { return nil }
func (varBin) varExpr()              {}

// isLeaf reports whether e is a Var or Const node, which pretty-printing
// never parenthesizes.
func isLeaf(e VarExpr) bool {
	switch e.(type) {
	case varLeaf, constLeaf:
		return true
	default:
		return false
	}
}

// wrap renders a child expression, adding parentheses around non-leaf
// children per the pretty-print precedence contract.
func wrap(e VarExpr) string {
	if isLeaf(e) {
		return e.PrettyPrint()
	}
	return "(" + e.PrettyPrint() + ")"
}
