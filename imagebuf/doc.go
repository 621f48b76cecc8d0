// Package imagebuf holds the 8-bit grayscale image container shared by the
// pipeline execution harness and its example programs.
//
// # Basic Usage
//
//	in := imagebuf.FromRows([][]byte{{1, 2}, {3, 4}})
//	out := imagebuf.New(in.Width, in.Height)
//	v := in.At(1, 1) // 4; out-of-bounds reads return 0 rather than panicking
package imagebuf
