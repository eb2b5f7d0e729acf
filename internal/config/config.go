// Package config loads the optional HCL settings file. Expressions in the
// file can reference process environment variables through the `env` map,
// so deployments can inject listen addresses and asset hosts without
// templating.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

// File is the settings document. Every field is optional; zero values defer
// to flag or built-in defaults.
type File struct {
	ListenAddr     string   `hcl:"listen_addr,optional"`
	TickIntervalMS int      `hcl:"tick_interval_ms,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	LogFormat      string   `hcl:"log_format,optional"`
	SampleRate     int      `hcl:"sample_rate,optional"`
	Assets         []string `hcl:"assets,optional"`
	GraphFile      string   `hcl:"graph_file,optional"`
}

// Load parses the HCL file at path.
func Load(path string) (*File, error) {
	var f File
	if err := hclsimple.DecodeFile(path, evalContext(), &f); err != nil {
		return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
	}
	return &f, nil
}

// evalContext exposes the process environment as the `env` object.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}

	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}
