package processor

import (
	"log/slog"

	"github.com/llir/llvm/ir"

	"github.com/theotherphil/prism/engine"
	"github.com/theotherphil/prism/imagebuf"
	"github.com/theotherphil/prism/lower"
	"github.com/theotherphil/prism/pipeline"
	"github.com/theotherphil/prism/trace"
)

// Processor runs a [pipeline.Graph] against concrete input images.
type Processor struct {
	graph  *pipeline.Graph
	module *ir.Module
	entry  *engine.Entry
	logger *slog.Logger
}

// New compiles graph: it lowers graph to an LLVM IR module (for
// inspection) and builds an [engine.Entry] (for execution).
func New(graph *pipeline.Graph, opts ...Option) (*Processor, error) {
	cfg := applyOptions(opts)

	lowerOpts := []lower.Option{}
	if cfg.logger != nil {
		lowerOpts = append(lowerOpts, lower.WithLogger(cfg.logger))
	}
	module, err := lower.Module(graph, lowerOpts...)
	if err != nil {
		return nil, err
	}

	entryOpts := []engine.Option{}
	if cfg.logger != nil {
		entryOpts = append(entryOpts, engine.WithLogger(cfg.logger))
	}
	entry, err := engine.Compile(graph, entryOpts...)
	if err != nil {
		return nil, err
	}

	return &Processor{graph: graph, module: module, entry: entry, logger: cfg.logger}, nil
}

// Module returns the LLVM IR module New generated, for inspection
// (printing, structural assertions in tests) — it is not executed by
// Process.
func (p *Processor) Module() *ir.Module { return p.module }

// Process runs the Graph against inputs and params, returning every
// declared output as a freshly allocated image.
//
// Every input the Graph declares must be present in inputs, and every
// input image must share the same dimensions; the shared dimensions become
// every output's dimensions and every stage's loop bounds (SPEC_FULL.md §5,
// point 1).
func (p *Processor) Process(inputs map[string]*imagebuf.Image, params map[string]int32) (map[string]*imagebuf.Image, error) {
	return p.process(inputs, params)
}

// ProcessWithTracing runs the Graph exactly as Process does, additionally
// recording every pixel read and write to a [trace.Trace] that is
// returned alongside the outputs.
//
// It installs that Trace as the global sink for the duration of the run
// and releases it before returning, even on error. A second concurrent
// call — on this Processor or any other — fails with [ErrTracingReentry]
// rather than silently interleaving with this run's trace.
func (p *Processor) ProcessWithTracing(inputs map[string]*imagebuf.Image, params map[string]int32) (map[string]*imagebuf.Image, *trace.Trace, error) {
	width, height, err := p.validateInputs(inputs)
	if err != nil {
		return nil, nil, err
	}

	buffers := p.allocateBuffers(inputs, width, height)

	tr := trace.New()
	ids := make(map[string]trace.TraceId, len(buffers))
	for _, name := range p.graph.BufferOrder() {
		ids[name] = tr.CreateTraceID(buffers[name])
	}

	traceOpts := []trace.Option{}
	if p.logger != nil {
		traceOpts = append(traceOpts, trace.WithLogger(p.logger))
	}
	session, err := trace.Install(tr, ids, traceOpts...)
	if err != nil {
		return nil, nil, ErrTracingReentry
	}
	defer func() { _ = trace.Release(session, traceOpts...) }()

	if err := p.entry.Run(buffers, params); err != nil {
		return nil, nil, err
	}

	return p.outputsOnly(buffers), tr, nil
}

func (p *Processor) process(inputs map[string]*imagebuf.Image, params map[string]int32) (map[string]*imagebuf.Image, error) {
	width, height, err := p.validateInputs(inputs)
	if err != nil {
		return nil, err
	}

	buffers := p.allocateBuffers(inputs, width, height)

	if p.logger != nil {
		p.logger.Debug("processor: running graph", "graph", p.graph.Name(), "width", width, "height", height)
	}

	if err := p.entry.Run(buffers, params); err != nil {
		return nil, err
	}

	return p.outputsOnly(buffers), nil
}

// validateInputs checks every declared input is present and that all
// inputs share one set of dimensions, returning that shared width/height.
func (p *Processor) validateInputs(inputs map[string]*imagebuf.Image) (width, height int, err error) {
	graphInputs := p.graph.Inputs()
	if len(graphInputs) == 0 {
		return 0, 0, nil
	}

	first, ok := inputs[graphInputs[0]]
	if !ok {
		return 0, 0, &MissingInputError{Name: graphInputs[0]}
	}
	width, height = first.Width, first.Height

	for _, name := range graphInputs {
		img, ok := inputs[name]
		if !ok {
			return 0, 0, &MissingInputError{Name: name}
		}
		if img.Width != width || img.Height != height {
			return 0, 0, &ShapeMismatchError{
				Name:       name,
				WantWidth:  width,
				WantHeight: height,
				GotWidth:   img.Width,
				GotHeight:  img.Height,
			}
		}
	}
	return width, height, nil
}

// allocateBuffers builds the full buffer set [engine.Entry.Run] needs: the
// caller's input images plus a freshly zeroed image, at the shared
// dimensions, for every declared output.
func (p *Processor) allocateBuffers(inputs map[string]*imagebuf.Image, width, height int) map[string]*imagebuf.Image {
	buffers := make(map[string]*imagebuf.Image, len(p.graph.BufferOrder()))
	for _, name := range p.graph.Inputs() {
		buffers[name] = inputs[name]
	}
	for _, name := range p.graph.Outputs() {
		buffers[name] = imagebuf.New(width, height)
	}
	return buffers
}

func (p *Processor) outputsOnly(buffers map[string]*imagebuf.Image) map[string]*imagebuf.Image {
	outputs := make(map[string]*imagebuf.Image, len(p.graph.Outputs()))
	for _, name := range p.graph.Outputs() {
		outputs[name] = buffers[name]
	}
	return outputs
}
