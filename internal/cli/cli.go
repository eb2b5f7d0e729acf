// Package cli parses command-line arguments into an app.Config, merging an
// optional HCL settings file underneath explicitly set flags.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/wavekit/wavegraph/internal/app"
	"github.com/wavekit/wavegraph/internal/config"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating the program should exit cleanly (help requested), or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("wavegraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
wavegraph - a declarative audio-graph reconciler.

Serves a socket.io boundary accepting graph and asset-list updates and
pushing back clock ticks and asset-load progress.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL settings file.")
	cFlag := flagSet.String("c", "", "Path to an HCL settings file (shorthand).")
	listenFlag := flagSet.String("listen", "", "Listen address for the host boundary.")
	graphFlag := flagSet.String("graph", "", "Wire-format JSON graph applied at startup.")
	tickFlag := flagSet.Int("tick-interval", 0, "Tick interval in milliseconds. 0 uses the default (40).")
	sampleRateFlag := flagSet.Int("sample-rate", 0, "Audio context sample rate. 0 uses the runtime default.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{}

	path := *configFlag
	if path == "" {
		path = *cFlag
	}
	if path != "" {
		file, err := config.Load(path)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.ListenAddr = file.ListenAddr
		cfg.TickInterval = time.Duration(file.TickIntervalMS) * time.Millisecond
		cfg.LogFormat = file.LogFormat
		cfg.LogLevel = file.LogLevel
		cfg.SampleRate = file.SampleRate
		cfg.Assets = file.Assets
		cfg.GraphFile = file.GraphFile
		slog.Debug("Settings file loaded.", "path", path)
	}

	// Explicit flags override the settings file.
	if *listenFlag != "" {
		cfg.ListenAddr = *listenFlag
	}
	if *graphFlag != "" {
		cfg.GraphFile = *graphFlag
	}
	if *tickFlag > 0 {
		cfg.TickInterval = time.Duration(*tickFlag) * time.Millisecond
	}
	if *sampleRateFlag > 0 {
		cfg.SampleRate = *sampleRateFlag
	}
	if *logFormatFlag != "" {
		cfg.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return validated, false, nil
}
