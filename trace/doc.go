// Package trace records every pixel read, write, clear and active-region
// marker a running pipeline performs, for debugging and for generating
// animated replays.
//
// A [Trace] is an append-only log. Generated code and [engine.Entry] never
// hold a reference to one directly — instead they call the package-level
// [LogRead] and [LogWrite] hooks, which dispatch to whichever Trace is
// currently installed via [Install], or do nothing if none is. This mirrors
// the original implementation's global-state hack (SPEC_FULL.md §3): the
// lowered IR's log_read/log_write calls and engine's tree-walking
// interpreter both need a side channel that does not appear in the
// pipeline's own ABI.
//
// Exactly one Trace may be installed at a time: [Install] returns an
// opaque session token, and only the holder of that token can [Release]
// it. A second Install before the first Release fails fast rather than
// silently replacing the in-flight trace.
//
// # Basic Usage
//
//	tr := trace.New()
//	ids := map[string]trace.TraceId{"in": tr.CreateTraceID(in)}
//	session, err := trace.Install(tr, ids, trace.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer trace.Release(session)
package trace
