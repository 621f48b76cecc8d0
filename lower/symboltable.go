package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/value"
)

// symbolTable maps names (buffers, loop variables, params, tracing
// functions, global strings) to the LLVM value currently bound to them
// during lowering. It is scoped to a single lowering pass and is not safe
// for concurrent use.
//
// get panics on a missing key. Every name it is asked for is introduced
// earlier in the same lowering pass by code this package controls; a miss
// means lower has a bug, not that the caller supplied bad input, so there is
// nothing a returned error would let a caller recover from.
type symbolTable struct {
	values map[string]value.Value
}

func newSymbolTable() *symbolTable {
	return &symbolTable{values: make(map[string]value.Value)}
}

func (s *symbolTable) add(name string, v value.Value) {
	s.values[name] = v
}

func (s *symbolTable) get(name string) value.Value {
	v, ok := s.values[name]
	if !ok {
		panic(fmt.Sprintf("lower: symbol table has no entry for %q", name))
	}
	return v
}
