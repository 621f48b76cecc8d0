package main

import (
	"github.com/theotherphil/prism/pipeline"
)

// identityPipeline copies "in" to "out" unchanged — spec §8's simplest
// boundary scenario.
func identityPipeline() (*pipeline.Graph, error) {
	out := pipeline.NewFunc("out", pipeline.ReadAt("in", pipeline.X(), pipeline.Y()))
	return pipeline.New("identity", []pipeline.Func{out}, yOuter("in", "out"))
}

// brightenPipeline adds a runtime "amount" param to every pixel of "in".
func brightenPipeline() (*pipeline.Graph, error) {
	out := pipeline.NewFunc("out", pipeline.DefAdd(
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.Param("amount"),
	))
	return pipeline.New("brighten", []pipeline.Func{out}, yOuter("in", "out"))
}

// thresholdPipeline is a two-stage pipeline: brighten "in" by a constant,
// then replace every pixel above 128 with 255 and everything else with 0.
func thresholdPipeline() (*pipeline.Graph, error) {
	brightened := pipeline.NewFunc("brightened", pipeline.DefAdd(
		pipeline.ReadAt("in", pipeline.X(), pipeline.Y()),
		pipeline.DefConst(10),
	))
	out := pipeline.NewFunc("out", pipeline.Cond(
		pipeline.CompareGT,
		pipeline.ReadAt("brightened", pipeline.X(), pipeline.Y()),
		pipeline.DefConst(128),
		pipeline.DefConst(255),
		pipeline.DefConst(0),
	))
	return pipeline.New("threshold", []pipeline.Func{brightened, out},
		yOuter("in", "brightened", "out"))
}

// blur3Pipeline is the two-pass 3x3 box blur from the original's
// blur3_intermediate: a horizontal mean of three neighbours, stored, then a
// vertical mean of three neighbours of that intermediate. Pixels read
// outside the image bounds read as 0, per spec §7's out-of-bounds
// convention — this is a deliberate difference from the original, which
// left blur-edge handling to whatever storage happened to contain.
func blur3Pipeline() (*pipeline.Graph, error) {
	mean3 := func(source string, xOffsets [3]int32, y pipeline.VarExpr) pipeline.Definition {
		read := func(dx int32) pipeline.Definition {
			x := pipeline.X()
			if dx != 0 {
				x = pipeline.Add(pipeline.X(), pipeline.Const(dx))
			}
			return pipeline.ReadAt(source, x, y)
		}
		sum := pipeline.DefAdd(read(xOffsets[0]), read(xOffsets[1]))
		sum = pipeline.DefAdd(sum, read(xOffsets[2]))
		return pipeline.DefDiv(sum, pipeline.DefConst(3))
	}

	horizontal := pipeline.NewFunc("horizontal", mean3("in", [3]int32{-1, 0, 1}, pipeline.Y()))

	vMean := func(dy int32) pipeline.Definition {
		y := pipeline.Y()
		if dy != 0 {
			y = pipeline.Add(pipeline.Y(), pipeline.Const(dy))
		}
		return pipeline.ReadAt("horizontal", pipeline.X(), y)
	}
	vSum := pipeline.DefAdd(vMean(-1), vMean(0))
	vSum = pipeline.DefAdd(vSum, vMean(1))
	out := pipeline.NewFunc("out", pipeline.DefDiv(vSum, pipeline.DefConst(3)))

	return pipeline.New("blur3", []pipeline.Func{horizontal, out},
		yOuter("in", "horizontal", "out"))
}

func yOuter(names ...string) pipeline.Schedule {
	entries := make(map[string]pipeline.FuncSchedule, len(names))
	for _, n := range names {
		entries[n] = pipeline.YOuter()
	}
	return pipeline.NewSchedule(entries)
}

// builtinPipelines returns every canonical demo pipeline, keyed by the name
// the manifest and the -pipeline flag use to select one.
func builtinPipelines() (map[string]*pipeline.Graph, error) {
	builders := map[string]func() (*pipeline.Graph, error){
		"identity":  identityPipeline,
		"brighten":  brightenPipeline,
		"threshold": thresholdPipeline,
		"blur3":     blur3Pipeline,
	}
	graphs := make(map[string]*pipeline.Graph, len(builders))
	for name, build := range builders {
		g, err := build()
		if err != nil {
			return nil, err
		}
		graphs[name] = g
	}
	return graphs, nil
}
