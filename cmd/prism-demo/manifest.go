package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// manifestPipeline describes what a named pipeline needs to run: its input
// buffer names, its param defaults, and a human-readable blurb.
type manifestPipeline struct {
	Description string           `json:"description"`
	Inputs      []string         `json:"inputs"`
	Params      map[string]int32 `json:"params"`
}

// manifest is the demo-pipeline manifest: metadata about the builtin
// pipelines, loaded from a JSON-with-comments file so example values can
// carry inline explanations.
type manifest struct {
	Pipelines map[string]manifestPipeline `json:"pipelines"`
}

// loadManifest reads a JSONC manifest file, stripping comments and trailing
// commas the way the teacher's adapter/json package preprocesses instance
// documents before handing them to encoding/json.
func loadManifest(path string) (*manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	stripped := jsonc.ToJSON(raw)

	var m manifest
	if err := json.Unmarshal(stripped, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// defaultManifest is used when -manifest is not given: it documents the
// builtin pipelines with no example-specific overrides.
func defaultManifest() *manifest {
	return &manifest{
		Pipelines: map[string]manifestPipeline{
			"identity": {
				Description: "copies the input image unchanged",
				Inputs:      []string{"in"},
			},
			"brighten": {
				Description: "adds a constant \"amount\" param to every pixel",
				Inputs:      []string{"in"},
				Params:      map[string]int32{"amount": 20},
			},
			"threshold": {
				Description: "brightens by 10 then thresholds at 128",
				Inputs:      []string{"in"},
			},
			"blur3": {
				Description: "two-pass 3x3 box blur (horizontal mean, then vertical mean)",
				Inputs:      []string{"in"},
			},
		},
	}
}
