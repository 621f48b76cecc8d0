// Package engine evaluates a validated [pipeline.Graph] directly, pixel by
// pixel, without going through machine code.
//
// [lower.Module] and this package implement the identical lowering and
// evaluation rules (SPEC_FULL.md §1) against two different targets: lower
// emits LLVM IR for inspection, engine walks the same AST at call time. An
// Entry built by [Compile] is this module's stand-in for the JIT entry
// point spec.md §1 describes; see SPEC_FULL.md §1 for why running real
// machine code is out of scope here.
//
// Every pixel read and write an Entry performs is reported to whatever
// [trace.Trace] is currently installed, exactly as the generated IR's calls
// to log_read/log_write would be.
//
// # Basic Usage
//
//	entry, err := engine.Compile(graph, engine.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = entry.Run(buffers, params)
package engine
