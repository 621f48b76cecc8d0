package lower

import (
	"fmt"
	"log/slog"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/theotherphil/prism/pipeline"
)

var (
	i8    = types.I8
	i32   = types.I32
	i64   = types.I64
	voidT = types.Void

	i8ptr  = types.NewPointer(i8)
	i8pptr = types.NewPointer(i8ptr)
	i64ptr = types.NewPointer(i64)
	i32ptr = types.NewPointer(i32)
)

// Module lowers graph to an LLVM IR module named after the graph.
//
// The generated function has the signature
//
//	void @<graph.Name()>(i8** buffers, i64* widths, i64* heights, i32* params)
//
// buffers, widths and heights are indexed by graph.BufferOrder(); params is
// indexed by graph.Params(). Every stage's loop nest is bounded by the
// FinalOutput buffer's width and height (SPEC_FULL.md §5, point 1: this
// module does not support stages with differing dimensions).
func Module(graph *pipeline.Graph, opts ...Option) (*ir.Module, error) {
	cfg := applyOptions(opts)
	logger := cfg.logger

	funcs := graph.Funcs()
	if len(funcs) == 0 {
		return nil, ErrNoFuncs
	}

	m := ir.NewModule()
	syms := newSymbolTable()

	logRead := m.NewFunc("log_read", voidT,
		ir.NewParam("name", i8ptr), ir.NewParam("x", i32), ir.NewParam("y", i32))
	logWrite := m.NewFunc("log_write", voidT,
		ir.NewParam("name", i8ptr), ir.NewParam("x", i32), ir.NewParam("y", i32), ir.NewParam("v", i8))
	syms.add("log_read", logRead)
	syms.add("log_write", logWrite)

	bufferOrder := graph.BufferOrder()

	fn := m.NewFunc(graph.Name(), voidT,
		ir.NewParam("buffers", i8pptr),
		ir.NewParam("widths", i64ptr),
		ir.NewParam("heights", i64ptr),
		ir.NewParam("params", i32ptr),
	)
	buffersArg, widthsArg, heightsArg, paramsArg := fn.Params[0], fn.Params[1], fn.Params[2], fn.Params[3]

	entry := fn.NewBlock("entry")

	for i, name := range bufferOrder {
		elemPtr := entry.NewGetElementPtr(i8ptr, buffersArg, constant.NewInt(i64, int64(i)))
		ptr := entry.NewLoad(i8ptr, elemPtr)
		syms.add(name, ptr)

		strPtr := globalString(m, name+".name", name)
		syms.add(bufferStringName(name), strPtr)
	}

	for i, name := range graph.Params() {
		elemPtr := entry.NewGetElementPtr(i32, paramsArg, constant.NewInt(i64, int64(i)))
		syms.add(name, entry.NewLoad(i32, elemPtr))
	}

	finalIdx := indexOf(bufferOrder, graph.FinalOutput())
	widthPtr := entry.NewGetElementPtr(i64, widthsArg, constant.NewInt(i64, int64(finalIdx)))
	heightPtr := entry.NewGetElementPtr(i64, heightsArg, constant.NewInt(i64, int64(finalIdx)))
	width := entry.NewTrunc(entry.NewLoad(i64, widthPtr), i32)
	height := entry.NewTrunc(entry.NewLoad(i64, heightPtr), i32)

	cur := entry
	for _, f := range funcs {
		f := f
		sched, ok := graph.Schedule().Get(f.Name)
		if !ok {
			return nil, fmt.Errorf("lower: no schedule entry for func %q", f.Name)
		}
		if logger != nil {
			logger.Debug("lower: lowering func", "graph", graph.Name(), "func", f.Name)
		}
		cur = lowerLoopNest(fn, cur, sched, syms, width, height, logger, func(block *ir.Block, syms *symbolTable) *ir.Block {
			return lowerFunc(block, fn, f, width, height, syms)
		})
	}

	cur.NewRet(nil)

	return m, nil
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	panic(fmt.Sprintf("lower: %q is not a known buffer", target))
}

func bufferStringName(name string) string { return name + "_name" }

func globalString(m *ir.Module, globalName, s string) value.Value {
	data := constant.NewCharArrayFromString(s + "\x00")
	g := m.NewGlobalDef(globalName, data)
	zero := constant.NewInt(i64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}

// lowerLoopNest builds the two-deep loop nest for a single Func, outer and
// inner order taken from sched (SPEC_FULL.md §4, point 4: a Func's Schedule
// entry picks Y-outer/X-inner row-major order or X-outer/Y-inner
// column-major order), and returns the block execution continues in once
// both loops exit.
//
// Every loop is built from three blocks (header, body, after) joined by an
// integer phi induction variable, mirroring the block shape the original
// code generator used.
func lowerLoopNest(fn *ir.Func, pred *ir.Block, sched pipeline.FuncSchedule, syms *symbolTable, width, height value.Value, logger *slog.Logger, body func(*ir.Block, *symbolTable) *ir.Block) *ir.Block {
	boundFor := func(v pipeline.Var) value.Value {
		if v == pipeline.VarX {
			return width
		}
		return height
	}
	outerName, outerBound := sched.Outer().String(), boundFor(sched.Outer())
	innerName, innerBound := sched.Inner().String(), boundFor(sched.Inner())

	if logger != nil {
		logger.Debug("lower: entering loop nest", "outer", outerName, "inner", innerName)
	}

	innerBody := func(block *ir.Block, syms *symbolTable) *ir.Block {
		return lowerLoop(fn, block, innerName, innerBound, syms, body)
	}
	return lowerLoop(fn, pred, outerName, outerBound, syms, innerBody)
}

// lowerLoop builds a single counted loop from 0 (inclusive) to bound
// (exclusive), binding name to the induction variable in syms for the
// duration of body, and returns the block control flow continues in after
// the loop.
func lowerLoop(fn *ir.Func, pred *ir.Block, name string, bound value.Value, syms *symbolTable, body func(*ir.Block, *symbolTable) *ir.Block) *ir.Block {
	header := fn.NewBlock(name + ".header")
	loopBody := fn.NewBlock(name + ".body")
	after := fn.NewBlock(name + ".after")

	pred.NewBr(header)

	header.NewCondBr(header.NewICmp(enum.IPredEQ, bound, constant.NewInt(i32, 0)), after, loopBody)

	phi := loopBody.NewPhi(ir.NewIncoming(constant.NewInt(i32, 0), header))
	syms.add(name, phi)

	bodyEnd := body(loopBody, syms)

	next := bodyEnd.NewAdd(phi, constant.NewInt(i32, 1))
	phi.Incs = append(phi.Incs, ir.NewIncoming(next, bodyEnd))
	bodyEnd.NewCondBr(bodyEnd.NewICmp(enum.IPredSLT, next, bound), loopBody, after)

	return after
}

// lowerFunc lowers a single Func's Definition at the current (x, y) and
// stores the truncated result into its output buffer, logging the write.
func lowerFunc(block *ir.Block, fn *ir.Func, f pipeline.Func, width, height value.Value, syms *symbolTable) *ir.Block {
	val, block := lowerDefinition(block, fn, f.Definition, width, height, syms)

	x, y := syms.get("x"), syms.get("y")
	offset := block.NewAdd(block.NewMul(y, width), x)
	ptr := block.NewGetElementPtr(i8, syms.get(f.Name), offset)
	truncated := block.NewTrunc(val, i8)

	block.NewCall(syms.get("log_write"), syms.get(bufferStringName(f.Name)), x, y, truncated)
	block.NewStore(truncated, ptr)

	return block
}

// lowerDefinition lowers a Definition to an i32 value, returning the block
// subsequent instructions should be appended to (branching instructions
// inside Condition move the insertion point).
func lowerDefinition(block *ir.Block, fn *ir.Func, def pipeline.Definition, width, height value.Value, syms *symbolTable) (value.Value, *ir.Block) {
	switch d := def.(type) {
	case pipeline.Access:
		return lowerAccess(block, fn, d, width, height, syms)
	default:
		return lowerDefinitionNonAccess(block, fn, def, width, height, syms)
	}
}

func lowerDefinitionNonAccess(block *ir.Block, fn *ir.Func, def pipeline.Definition, width, height value.Value, syms *symbolTable) (value.Value, *ir.Block) {
	switch d := def.(type) {
	case pipeline.Condition:
		return lowerCondition(block, fn, d, width, height, syms)
	default:
		return lowerArithmeticOrLeaf(block, fn, def, width, height, syms)
	}
}

// lowerArithmeticOrLeaf handles every Definition shape except Access and
// Condition (which need their own block-branching logic): const and param
// leaves, and the four binary arithmetic operators. It dispatches on Op
// rather than a type switch because defConst, defParam and defBin are
// unexported; Op/Children/Literal is the structural-recursion contract
// Definition exposes for exactly this.
func lowerArithmeticOrLeaf(block *ir.Block, fn *ir.Func, def pipeline.Definition, width, height value.Value, syms *symbolTable) (value.Value, *ir.Block) {
	switch def.Op() {
	case "const":
		return constant.NewInt(i32, int64(def.Literal().(int32))), block
	case "param":
		return syms.get(def.Literal().(string)), block
	case "+", "-", "*", "/":
		children := def.Children()
		lv, block := lowerDefinition(block, fn, children[0], width, height, syms)
		rv, block := lowerDefinition(block, fn, children[1], width, height, syms)
		switch def.Op() {
		case "+":
			return block.NewAdd(lv, rv), block
		case "-":
			return block.NewSub(lv, rv), block
		case "*":
			return block.NewMul(lv, rv), block
		default:
			return block.NewSDiv(lv, rv), block
		}
	default:
		panic(&UnsupportedDefinitionError{Kind: fmt.Sprintf("%s (%T)", def.Op(), def)})
	}
}

// lowerAccess reads the pixel at (access.XExpr, access.YExpr) evaluated at
// the current (x, y), guarding the read with a bounds check: in-bounds
// reads are logged and zero-extended to i32; out-of-bounds reads yield the
// i32 zero without touching memory or the trace.
func lowerAccess(block *ir.Block, fn *ir.Func, access pipeline.Access, width, height value.Value, syms *symbolTable) (value.Value, *ir.Block) {
	x, y := syms.get("x"), syms.get("y")
	ax := lowerVarExpr(block, access.XExpr, x, y)
	ay := lowerVarExpr(block, access.YExpr, x, y)

	result := block.NewAlloca(i32)

	xPositive := block.NewICmp(enum.IPredSGE, ax, constant.NewInt(i32, 0))
	xInBounds := block.NewICmp(enum.IPredSLT, ax, width)
	yPositive := block.NewICmp(enum.IPredSGE, ay, constant.NewInt(i32, 0))
	yInBounds := block.NewICmp(enum.IPredSLT, ay, height)
	xValid := block.NewAnd(xPositive, xInBounds)
	yValid := block.NewAnd(yPositive, yInBounds)
	cond := block.NewAnd(xValid, yValid)

	thenBlock := fn.NewBlock("access.then")
	elseBlock := fn.NewBlock("access.else")
	after := fn.NewBlock("access.after")
	block.NewCondBr(cond, thenBlock, elseBlock)

	offset := thenBlock.NewAdd(thenBlock.NewMul(ay, width), ax)
	ptr := thenBlock.NewGetElementPtr(i8, syms.get(access.Source), offset)
	loaded := thenBlock.NewLoad(i8, ptr)
	thenBlock.NewCall(syms.get("log_read"), syms.get(bufferStringName(access.Source)), ax, ay)
	ext := thenBlock.NewZExt(loaded, i32)
	thenBlock.NewStore(ext, result)
	thenBlock.NewBr(after)

	elseBlock.NewStore(constant.NewInt(i32, 0), result)
	elseBlock.NewBr(after)

	return after.NewLoad(i32, result), after
}

func lowerCondition(block *ir.Block, fn *ir.Func, cond pipeline.Condition, width, height value.Value, syms *symbolTable) (value.Value, *ir.Block) {
	lhs, block := lowerDefinition(block, fn, cond.Lhs, width, height, syms)
	rhs, block := lowerDefinition(block, fn, cond.Rhs, width, height, syms)

	pred := comparePredicate(cond.Cmp)
	test := block.NewICmp(pred, lhs, rhs)

	thenBlock := fn.NewBlock("cond.then")
	elseBlock := fn.NewBlock("cond.else")
	after := fn.NewBlock("cond.after")
	result := block.NewAlloca(i32)
	block.NewCondBr(test, thenBlock, elseBlock)

	thenVal, thenEnd := lowerDefinition(thenBlock, fn, cond.IfTrue, width, height, syms)
	thenEnd.NewStore(thenVal, result)
	thenEnd.NewBr(after)

	elseVal, elseEnd := lowerDefinition(elseBlock, fn, cond.IfFalse, width, height, syms)
	elseEnd.NewStore(elseVal, result)
	elseEnd.NewBr(after)

	return after.NewLoad(i32, result), after
}

func comparePredicate(cmp pipeline.CompareKind) enum.IPred {
	switch cmp {
	case pipeline.CompareEQ:
		return enum.IPredEQ
	case pipeline.CompareGT:
		return enum.IPredSGT
	case pipeline.CompareGTE:
		return enum.IPredSGE
	case pipeline.CompareLT:
		return enum.IPredSLT
	case pipeline.CompareLTE:
		return enum.IPredSLE
	default:
		panic(fmt.Sprintf("lower: unsupported compare kind %v", cmp))
	}
}

// lowerVarExpr lowers coordinate arithmetic, which never branches and so
// never needs to thread a current block through its recursion. Dispatches
// on Op for the same reason lowerArithmeticOrLeaf does: varLeaf, constLeaf
// and varBin are unexported.
func lowerVarExpr(block *ir.Block, expr pipeline.VarExpr, x, y value.Value) value.Value {
	switch expr.Op() {
	case "const":
		return constant.NewInt(i32, int64(expr.Literal().(int32)))
	case "var":
		if expr.Literal().(pipeline.Var) == pipeline.VarX {
			return x
		}
		return y
	case "+", "-", "*":
		children := expr.Children()
		lv := lowerVarExpr(block, children[0], x, y)
		rv := lowerVarExpr(block, children[1], x, y)
		switch expr.Op() {
		case "+":
			return block.NewAdd(lv, rv)
		case "-":
			return block.NewSub(lv, rv)
		default:
			return block.NewMul(lv, rv)
		}
	default:
		panic(&UnsupportedDefinitionError{Kind: fmt.Sprintf("%s (%T)", expr.Op(), expr)})
	}
}
