package trace

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrAlreadyTracing indicates [Install] was called while another trace is
// already installed. Only one tracing pipeline may be in flight at a time.
var ErrAlreadyTracing = errors.New("trace: a trace is already installed")

// ErrNotInstalled indicates [Release] was called with a session that does
// not match the currently installed trace, or while no trace is installed.
var ErrNotInstalled = errors.New("trace: no trace installed for this session")

var global struct {
	mu      sync.Mutex
	trace   *Trace
	ids     map[string]TraceId
	session uuid.UUID
}

// Install registers tr as the trace every subsequent call to [LogRead] and
// [LogWrite] reports to, with ids mapping buffer name to the TraceId those
// calls should use. It returns a session token that must be passed to
// [Release] to uninstall tr.
//
// Install fails with [ErrAlreadyTracing] if a trace is already installed;
// callers must Release the existing session first. This mirrors the
// original implementation's single set of process-wide globals
// (SPEC_FULL.md §3), made fail-fast instead of silently clobbering
// whatever was there.
func Install(tr *Trace, ids map[string]TraceId, opts ...Option) (uuid.UUID, error) {
	cfg := applyOptions(opts)

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.trace != nil {
		return uuid.UUID{}, ErrAlreadyTracing
	}

	session := uuid.New()
	global.trace = tr
	global.ids = ids
	global.session = session

	if cfg.logger != nil {
		cfg.logger.Debug("trace: installed", "session", session, "buffers", len(ids))
	}
	return session, nil
}

// Release uninstalls the trace registered under session. Returns
// [ErrNotInstalled] if session does not match the currently installed
// session (including when nothing is installed).
func Release(session uuid.UUID, opts ...Option) error {
	cfg := applyOptions(opts)

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.trace == nil || global.session != session {
		return ErrNotInstalled
	}
	global.trace = nil
	global.ids = nil
	global.session = uuid.UUID{}

	if cfg.logger != nil {
		cfg.logger.Debug("trace: released", "session", session)
	}
	return nil
}

// LogRead reports a read of (x, y) from the buffer named name to the
// installed trace, if any. It is a no-op if no trace is installed or name
// has no registered TraceId.
func LogRead(name string, x, y int32) {
	tr, id, ok := lookup(name)
	if !ok {
		return
	}
	tr.Get(id, int(x), int(y))
}

// LogWrite reports a write of v to (x, y) in the buffer named name to the
// installed trace, if any.
func LogWrite(name string, x, y int32, v byte) {
	tr, id, ok := lookup(name)
	if !ok {
		return
	}
	tr.Set(id, int(x), int(y), v)
}

func lookup(name string) (*Trace, TraceId, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.trace == nil {
		return nil, 0, false
	}
	id, ok := global.ids[name]
	if !ok {
		return nil, 0, false
	}
	return global.trace, id, true
}
