package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theotherphil/prism/imagebuf"
	"github.com/theotherphil/prism/pipeline"
	"github.com/theotherphil/prism/processor"
	"github.com/theotherphil/prism/trace"
)

func yOuterSchedule(names ...string) pipeline.Schedule {
	entries := make(map[string]pipeline.FuncSchedule, len(names))
	for _, n := range names {
		entries[n] = pipeline.YOuter()
	}
	return pipeline.NewSchedule(entries)
}

func identityGraph(t *testing.T) *pipeline.Graph {
	t.Helper()
	f := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	graph, err := pipeline.New("identity", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)
	return graph
}

func TestProcessorIdentity(t *testing.T) {
	p, err := processor.New(identityGraph(t))
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{1, 2}, {3, 4}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	require.Contains(t, outputs, "out")
	assert.Equal(t, in.Rows(), outputs["out"].Rows())
	assert.NotNil(t, p.Module())
}

func TestProcessorAddConstant(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.DefAdd(pipeline.ReadAt("in", pipeline.X(), pipeline.Y()), pipeline.DefConst(10)))
	graph, err := pipeline.New("brighten", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{1, 2}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{11, 12}}, outputs["out"].Rows())
}

func TestProcessorChainOfTwoStages(t *testing.T) {
	stage1 := pipeline.NewFunc("mid", pipeline.DefAdd(pipeline.ReadAt("in", pipeline.X(), pipeline.Y()), pipeline.DefConst(1)))
	stage2 := pipeline.NewFunc("out", pipeline.DefMul(pipeline.ReadAt("mid", pipeline.X(), pipeline.Y()), pipeline.DefConst(2)))
	graph, err := pipeline.New("chain", []pipeline.Func{stage1, stage2}, yOuterSchedule("in", "mid", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{1, 2}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{2, 3}}, outputs["mid"].Rows())
	assert.Equal(t, [][]byte{{4, 6}}, outputs["out"].Rows())
}

func TestProcessorBrightenWithParam(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.DefAdd(pipeline.ReadAt("in", pipeline.X(), pipeline.Y()), pipeline.Param("amount")))
	graph, err := pipeline.New("param-brighten", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{5}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, map[string]int32{"amount": 20})
	require.NoError(t, err)

	assert.Equal(t, byte(25), outputs["out"].At(0, 0))
}

func TestProcessorThreshold(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.Cond(
		pipeline.CompareGT,
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.DefConst(100),
		pipeline.DefConst(250),
		pipeline.DefConst(0),
	))
	graph, err := pipeline.New("threshold", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{50, 200}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{0, 250}}, outputs["out"].Rows())
}

func TestProcessorOutOfBoundsAccessReadsZero(t *testing.T) {
	f := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.Sub(pipeline.X(), pipeline.Const(1)), pipeline.Y()))
	graph, err := pipeline.New("shift-left", []pipeline.Func{f}, yOuterSchedule("in", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{9, 8, 7}})
	outputs, err := p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{0, 9, 8}}, outputs["out"].Rows())
}

func TestProcessorMissingInput(t *testing.T) {
	p, err := processor.New(identityGraph(t))
	require.NoError(t, err)

	_, err = p.Process(map[string]*imagebuf.Image{}, nil)
	require.Error(t, err)
	var missing *processor.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "in", missing.Name)
}

func TestProcessorShapeMismatch(t *testing.T) {
	stage1 := pipeline.NewFunc("mid", pipeline.ReadAt("a", pipeline.X(), pipeline.Y()))
	stage2 := pipeline.NewFunc("out", pipeline.DefAdd(
		pipeline.ReadAt("mid", pipeline.X(), pipeline.Y()),
		pipeline.ReadAt("b", pipeline.X(), pipeline.Y()),
	))
	graph, err := pipeline.New("two-inputs", []pipeline.Func{stage1, stage2}, yOuterSchedule("a", "b", "mid", "out"))
	require.NoError(t, err)

	p, err := processor.New(graph)
	require.NoError(t, err)

	a := imagebuf.New(2, 2)
	b := imagebuf.New(3, 3)
	_, err = p.Process(map[string]*imagebuf.Image{"a": a, "b": b}, nil)
	require.Error(t, err)
	var mismatch *processor.ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "b", mismatch.Name)
}

func TestProcessorWithTracingRecordsReadsAndWrites(t *testing.T) {
	p, err := processor.New(identityGraph(t))
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{1, 2}})
	outputs, tr, err := p.ProcessWithTracing(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)
	require.NotNil(t, tr)

	assert.Equal(t, [][]byte{{1, 2}}, outputs["out"].Rows())
	assert.NotEmpty(t, tr.Actions())
}

func TestProcessorProcessDoesNotInstallATrace(t *testing.T) {
	p, err := processor.New(identityGraph(t))
	require.NoError(t, err)

	in := imagebuf.FromRows([][]byte{{1}})
	_, err = p.Process(map[string]*imagebuf.Image{"in": in}, nil)
	require.NoError(t, err)

	tr := trace.New()
	session, err := trace.Install(tr, map[string]trace.TraceId{})
	require.NoError(t, err)
	defer func() { _ = trace.Release(session) }()
	assert.Empty(t, tr.Actions())
}

func TestProcessorWithTracingReentryFails(t *testing.T) {
	p, err := processor.New(identityGraph(t))
	require.NoError(t, err)

	tr := trace.New()
	session, err := trace.Install(tr, map[string]trace.TraceId{})
	require.NoError(t, err)
	defer func() { _ = trace.Release(session) }()

	in := imagebuf.FromRows([][]byte{{1}})
	_, _, err = p.ProcessWithTracing(map[string]*imagebuf.Image{"in": in}, nil)
	require.ErrorIs(t, err, processor.ErrTracingReentry)
}
