// Package processor is the harness that runs a compiled [pipeline.Graph]
// against concrete images: it validates the inputs a caller supplies,
// allocates the output buffers, and drives [engine.Entry] to fill them.
//
// New also lowers the Graph to an LLVM IR module via [lower.Module] for
// inspection (Processor.Module), even though [Process] itself executes
// through engine rather than through that IR — see SPEC_FULL.md §1 for why.
//
// This package's contract replaces the original implementation's
// processor.rs, which hand-unrolled one function-pointer signature per
// (input count, output count) pair. The array-based ABI spec.md redesigns
// makes that unrolling unnecessary; Processor needs only one code path
// regardless of how many inputs or outputs a Graph has.
//
// # Basic Usage
//
//	p, err := processor.New(graph, processor.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	outputs, err := p.Process(inputs, params)
package processor
