// Package pipeline is the language-neutral AST for prism image pipelines:
// coordinate arithmetic ([VarExpr]), pixel-value expressions ([Definition]),
// named stages ([Func]), externally supplied inputs ([Source]), per-stage
// iteration order ([Schedule]), and the graph that ties them together
// ([Graph]).
//
// Every type in this package is immutable once constructed: composite nodes
// own their children exclusively, and construction functions (not operator
// overloading) are the only way to build a tree. [New] is the single
// validation boundary — everything downstream of a successfully constructed
// Graph can assume its invariants hold.
//
// # Building a Graph
//
// A one-stage brighten pipeline, reading "in" and writing "out":
//
//	bright := pipeline.NewFunc("out", pipeline.DefAdd(
//		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
//		pipeline.Param("amount"),
//	))
//	graph, err := pipeline.New("brighten", []pipeline.Func{bright},
//		pipeline.NewSchedule(map[string]pipeline.FuncSchedule{
//			"in":  pipeline.YOuter(),
//			"out": pipeline.YOuter(),
//		}))
//
// The resulting Graph is what [lower.Module] and [engine.Compile] both
// consume.
package pipeline
