// Command prism-demo runs one of the canonical example pipelines (identity,
// brighten, threshold, blur3) against a synthetic test image and prints a
// one-line summary of the result, or with -out writes it as a PGM file.
//
// This command is not part of the library's specification (spec §6: "CLI
// surface: none for the core"); it restores the runnable-example layer the
// original implementation shipped as examples/jit.rs and src/blur3.rs.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theotherphil/prism/imagebuf"
	"github.com/theotherphil/prism/processor"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "prism-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("prism-demo", flag.ContinueOnError)

	var (
		name         = fs.String("pipeline", "identity", "pipeline to run: identity|brighten|threshold|blur3")
		manifestPath = fs.String("manifest", "", "JSONC manifest file describing pipeline defaults (optional)")
		width        = fs.Int("width", 16, "synthetic input image width")
		height       = fs.Int("height", 16, "synthetic input image height")
		outPath      = fs.String("out", "", "write the output image to this PGM file (default: stdout summary only)")
		traceOut     = fs.Bool("trace", false, "record and summarize a pixel-access trace")
		logLevel     = fs.String("log-level", "info", "log level: error|warn|info|debug")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: prism-demo [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	logger, err := setupLogger(*logLevel)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	m := defaultManifest()
	if *manifestPath != "" {
		loaded, err := loadManifest(*manifestPath)
		if err != nil {
			return err
		}
		m = loaded
	}

	entry, ok := m.Pipelines[*name]
	if !ok {
		return fmt.Errorf("unknown pipeline %q", *name)
	}

	graphs, err := builtinPipelines()
	if err != nil {
		return fmt.Errorf("build pipelines: %w", err)
	}
	graph, ok := graphs[*name]
	if !ok {
		return fmt.Errorf("unknown pipeline %q", *name)
	}

	logger.Info("running pipeline", "name", *name, "description", entry.Description,
		"width", *width, "height", *height)

	p, err := processor.New(graph, processor.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("compile pipeline: %w", err)
	}

	inputs := make(map[string]*imagebuf.Image, len(entry.Inputs))
	for _, in := range entry.Inputs {
		inputs[in] = syntheticImage(*width, *height)
	}

	var outputs map[string]*imagebuf.Image
	if *traceOut {
		out, tr, err := p.ProcessWithTracing(inputs, entry.Params)
		if err != nil {
			return fmt.Errorf("run pipeline: %w", err)
		}
		outputs = out
		logger.Info("trace recorded", "actions", len(tr.Actions()))
	} else {
		out, err := p.Process(inputs, entry.Params)
		if err != nil {
			return fmt.Errorf("run pipeline: %w", err)
		}
		outputs = out
	}

	result := outputs[graph.FinalOutput()]

	if *outPath == "" {
		fmt.Printf("pipeline %q produced a %dx%d image (pass -out to write a PGM file)\n",
			*name, result.Width, result.Height)
		return nil
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := writePGM(f, result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("wrote output", "path", *outPath)
	return nil
}

// syntheticImage generates a deterministic test pattern: (x+y) mod 17,
// matching the original's own blur3 benchmark fixture.
func syntheticImage(width, height int) *imagebuf.Image {
	img := imagebuf.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, byte((x+y)%17))
		}
	}
	return img
}

// writePGM writes img as a binary (P5) portable graymap.
func writePGM(w io.Writer, img *imagebuf.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	if _, err := bw.Write(img.Pix); err != nil {
		return err
	}
	return bw.Flush()
}

func setupLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "error":
		slogLevel = slog.LevelError
	case "warn":
		slogLevel = slog.LevelWarn
	case "info":
		slogLevel = slog.LevelInfo
	case "debug":
		slogLevel = slog.LevelDebug
	default:
		return nil, fmt.Errorf("invalid log level: %q", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler), nil
}
