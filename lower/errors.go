package lower

import (
	"errors"
	"fmt"
)

// ErrNoFuncs indicates a Graph with no Funcs was passed to Module; New on
// pipeline.Graph already rejects this, so seeing it here means a Graph was
// constructed some other way.
var ErrNoFuncs = errors.New("lower: graph has no funcs")

// UnsupportedDefinitionError indicates the lowerer encountered a
// Definition variant it does not know how to lower. This should be
// unreachable for any Definition built through the pipeline package's
// constructors; it exists as a defensive backstop against a future
// Definition variant added without a matching lowering case.
type UnsupportedDefinitionError struct {
	Kind string
}

func (e *UnsupportedDefinitionError) Error() string {
	return fmt.Sprintf("lower: unsupported definition kind %q", e.Kind)
}
