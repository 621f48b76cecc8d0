package pipeline

// Func is a named stage: a Definition that produces one output image.
type Func struct {
	Name       string
	Definition Definition
}

// NewFunc builds a Func.
func NewFunc(name string, def Definition) Func {
	return Func{Name: name, Definition: def}
}

// Sources returns the Source/Func names this Func's Definition reads from.
func (f Func) Sources() []string { return f.Definition.Sources() }

// Params returns the Param names this Func's Definition references.
func (f Func) Params() []string { return f.Definition.Params() }

// Source is a named, externally-supplied input image.
type Source struct {
	Name string
}

// NewSource builds a Source.
func NewSource(name string) Source { return Source{Name: name} }
