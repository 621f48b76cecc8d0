package trace_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theotherphil/prism/imagebuf"
	"github.com/theotherphil/prism/trace"
)

func TestTraceRecordsActionsInOrder(t *testing.T) {
	tr := trace.New()
	id := tr.CreateTraceID(imagebuf.New(2, 2))

	tr.Get(id, 0, 0)
	tr.Set(id, 0, 0, 42)
	tr.Clear(id)
	tr.Active(id, trace.ActiveRegion{X: 0, Y: 0, Width: 1, Height: 1})

	actions := tr.Actions()
	require.Len(t, actions, 4)
	assert.Equal(t, trace.ActionRead, actions[0].Kind)
	assert.Equal(t, trace.ActionWrite, actions[1].Kind)
	assert.Equal(t, byte(42), actions[1].Value)
	assert.Equal(t, trace.ActionClear, actions[2].Kind)
	assert.Equal(t, trace.ActionActive, actions[3].Kind)
	assert.Equal(t, trace.ActiveRegion{X: 0, Y: 0, Width: 1, Height: 1}, actions[3].Region)
}

func TestCreateTraceIDSnapshotsIndependently(t *testing.T) {
	tr := trace.New()
	img := imagebuf.New(1, 1)
	img.Set(0, 0, 7)
	id := tr.CreateTraceID(img)

	img.Set(0, 0, 99) // mutate after snapshot

	snapshots := tr.InitialImages()
	require.Len(t, snapshots, 1)
	assert.Equal(t, byte(7), snapshots[id].At(0, 0))
}

func TestInstallFailsWhenAlreadyInstalled(t *testing.T) {
	session, err := trace.Install(trace.New(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, trace.Release(session)) }()

	_, err = trace.Install(trace.New(), nil)
	assert.ErrorIs(t, err, trace.ErrAlreadyTracing)
}

func TestReleaseFailsWithWrongSession(t *testing.T) {
	session, err := trace.Install(trace.New(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, trace.Release(session)) }()

	err = trace.Release(uuid.UUID{})
	assert.ErrorIs(t, err, trace.ErrNotInstalled)
}

func TestLogReadAndWriteDispatchToInstalledTrace(t *testing.T) {
	tr := trace.New()
	id := tr.CreateTraceID(imagebuf.New(4, 4))
	session, err := trace.Install(tr, map[string]trace.TraceId{"in": id})
	require.NoError(t, err)
	defer func() { require.NoError(t, trace.Release(session)) }()

	trace.LogRead("in", 1, 2)
	trace.LogWrite("in", 1, 2, 55)
	trace.LogRead("unknown-buffer", 0, 0) // no-op: not registered

	actions := tr.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, trace.ActionRead, actions[0].Kind)
	assert.Equal(t, trace.ActionWrite, actions[1].Kind)
}

func TestLogReadIsNoOpWithNothingInstalled(t *testing.T) {
	assert.NotPanics(t, func() {
		trace.LogRead("in", 0, 0)
		trace.LogWrite("in", 0, 0, 1)
	})
}
