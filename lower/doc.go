// Package lower translates a validated [pipeline.Graph] into an LLVM IR
// module using github.com/llir/llvm.
//
// The generated module exposes a single function taking the array-based ABI
// documented on [Module]: a pointer to an array of buffer pointers,
// a pointer to an array of widths, a pointer to an array of heights, and a
// pointer to an array of i32 params. Buffers are ordered [pipeline.Graph.BufferOrder];
// params are ordered [pipeline.Graph.Params].
//
// Every Func body is lowered into nested y/x loops built from basic blocks
// joined by phi nodes, following the same block-per-loop, phi-for-induction-
// variable shape as the original implementation's code generator. Every
// pixel read goes through a bounds check that branches to either a genuine
// load (logged via a call to log_read) or a zero constant; every pixel
// write is logged via a call to log_write before the truncated byte is
// stored.
//
// # Basic Usage
//
//	mod, err := lower.Module(graph, lower.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(mod) // a valid LLVM IR text module
package lower
