package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theotherphil/prism/pipeline"
)

func identitySchedule(names ...string) pipeline.Schedule {
	entries := make(map[string]pipeline.FuncSchedule, len(names))
	for _, n := range names {
		entries[n] = pipeline.YOuter()
	}
	return pipeline.NewSchedule(entries)
}

func TestGraphDerivesInputsOutputsParams(t *testing.T) {
	bright := pipeline.NewFunc("bright", pipeline.DefAdd(
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.Param("p"),
	))

	g, err := pipeline.New("test", []pipeline.Func{bright}, identitySchedule("in", "bright"))
	require.NoError(t, err)

	assert.Equal(t, []string{"in"}, g.Inputs())
	assert.Equal(t, []string{"bright"}, g.Outputs())
	assert.Equal(t, []string{"p"}, g.Params())
	assert.Equal(t, []string{"in", "bright"}, g.BufferOrder())
}

func TestGraphChainedFuncsSortInputsAndParams(t *testing.T) {
	f := pipeline.NewFunc("f", pipeline.DefAdd(pipeline.ReadAt("in", pipeline.X(), pipeline.Y()), pipeline.Param("zeta")))
	gStage := pipeline.NewFunc("g", pipeline.DefMul(pipeline.ReadAt("f", pipeline.X(), pipeline.Y()), pipeline.Param("alpha")))

	graph, err := pipeline.New("chain", []pipeline.Func{f, gStage}, identitySchedule("in", "f", "g"))
	require.NoError(t, err)

	assert.Equal(t, []string{"in"}, graph.Inputs())
	assert.Equal(t, []string{"f", "g"}, graph.Outputs())
	assert.Equal(t, []string{"alpha", "zeta"}, graph.Params())
}

func TestGraphRejectsDependencyOrderViolation(t *testing.T) {
	// g reads f, but f is listed after g: invalid dependency order.
	g := pipeline.NewFunc("g", pipeline.ReadAt("f", pipeline.X(), pipeline.Y()))
	f := pipeline.NewFunc("f", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))

	_, err := pipeline.New("bad", []pipeline.Func{g, f}, identitySchedule("in", "f", "g"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrDependencyOrder))
}

func TestGraphRejectsMissingScheduleEntries(t *testing.T) {
	f := pipeline.NewFunc("f", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))

	_, err := pipeline.New("bad", []pipeline.Func{f}, identitySchedule("in")) // missing "f"
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrMissingSchedule))

	var missingErr *pipeline.MissingScheduleError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"f"}, missingErr.Names)
}

func TestGraphRejectsDuplicateFuncNames(t *testing.T) {
	a := pipeline.NewFunc("f", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	b := pipeline.NewFunc("f", pipeline.DefConst(1))

	_, err := pipeline.New("dup", []pipeline.Func{a, b}, identitySchedule("in", "f"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrDuplicateFunc))
}

func TestGraphRejectsEmptyFuncList(t *testing.T) {
	_, err := pipeline.New("empty", nil, identitySchedule())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrEmptyGraph))
}

func TestGraphFinalOutputIsLastFunc(t *testing.T) {
	f := pipeline.NewFunc("f", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	g := pipeline.NewFunc("g", pipeline.ReadAt("f", pipeline.X(), pipeline.Y()))

	graph, err := pipeline.New("two-stage", []pipeline.Func{f, g}, identitySchedule("in", "f", "g"))
	require.NoError(t, err)
	assert.Equal(t, "g", graph.FinalOutput())
}
