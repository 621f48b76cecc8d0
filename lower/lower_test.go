package lower_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theotherphil/prism/lower"
	"github.com/theotherphil/prism/pipeline"
)

func yOuterSchedule(names ...string) pipeline.Schedule {
	entries := make(map[string]pipeline.FuncSchedule, len(names))
	for _, n := range names {
		entries[n] = pipeline.YOuter()
	}
	return pipeline.NewSchedule(entries)
}

func TestModuleEmitsEntryFunctionAndTracingDeclarations(t *testing.T) {
	bright := pipeline.NewFunc("bright", pipeline.DefAdd(
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.Param("amount"),
	))
	graph, err := pipeline.New("bright", []pipeline.Func{bright}, yOuterSchedule("in", "bright"))
	require.NoError(t, err)

	m, err := lower.Module(graph)
	require.NoError(t, err)

	ir := m.String()
	assert.Contains(t, ir, "define void @bright(")
	assert.Contains(t, ir, "i8** ")
	assert.Contains(t, ir, "declare void @log_read(")
	assert.Contains(t, ir, "declare void @log_write(")
}

func TestModuleEmitsLoopBlocksWithPhiNodes(t *testing.T) {
	identity := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	graph, err := pipeline.New("identity", []pipeline.Func{identity}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	m, err := lower.Module(graph)
	require.NoError(t, err)

	ir := m.String()
	assert.Contains(t, ir, "y.header")
	assert.Contains(t, ir, "y.body")
	assert.Contains(t, ir, "y.after")
	assert.Contains(t, ir, "x.header")
	assert.Contains(t, ir, "x.body")
	assert.Contains(t, ir, "x.after")
	assert.Equal(t, 2, strings.Count(ir, "= phi i32 "))
}

func TestModuleHonorsXOuterSchedule(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	entries := map[string]pipeline.FuncSchedule{"in": pipeline.XOuter(), "out": pipeline.XOuter()}
	graph, err := pipeline.New("columnwise", []pipeline.Func{f}, pipeline.NewSchedule(entries))
	require.NoError(t, err)

	m, err := lower.Module(graph)
	require.NoError(t, err)

	ir := m.String()
	outerHeaderIdx := strings.Index(ir, "x.header")
	innerHeaderIdx := strings.Index(ir, "y.header")
	require.NotEqual(t, -1, outerHeaderIdx)
	require.NotEqual(t, -1, innerHeaderIdx)
	assert.Less(t, outerHeaderIdx, innerHeaderIdx)
}

func TestModuleEmitsAccessBoundsCheckBlocks(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	graph, err := pipeline.New("bounds", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	m, err := lower.Module(graph)
	require.NoError(t, err)

	ir := m.String()
	assert.Contains(t, ir, "access.then")
	assert.Contains(t, ir, "access.else")
	assert.Contains(t, ir, "access.after")
}

func TestModuleEmitsConditionBranchBlocks(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.Cond(
		pipeline.CompareGT,
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.DefConst(100),
		pipeline.DefConst(250),
		pipeline.DefConst(0),
	))
	graph, err := pipeline.New("threshold", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	m, err := lower.Module(graph)
	require.NoError(t, err)

	ir := m.String()
	assert.Contains(t, ir, "cond.then")
	assert.Contains(t, ir, "cond.else")
	assert.Contains(t, ir, "cond.after")
}

func TestModuleRejectsEmptyFuncs(t *testing.T) {
	_, err := lower.Module(&pipeline.Graph{})
	require.Error(t, err)
}
