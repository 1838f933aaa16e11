// Package cmd provides the CLI command implementations for notegen:
// generate, watch, status, verify, labels, notes and config.
package cmd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/dataset"
	"github.com/minicodemonkey/notegen/internal/notes"
)

// loadConfig reads the config file (defaults when it is missing) and
// applies environment overrides. The result is not validated.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()

	return cfg, nil
}

// loadTable resolves the config's note table.
func loadTable(cfg *config.Config) (*notes.Table, error) {
	table, err := notes.Resolve(cfg.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes %q: %w", cfg.Notes, err)
	}
	return table, nil
}

// datasetOptions maps a config onto materializer options.
func datasetOptions(cfg *config.Config) dataset.Options {
	opts := dataset.DefaultOptions(cfg.Output)
	opts.SampleRate = cfg.SampleRate
	opts.Duration = cfg.DurationSeconds
	opts.ReferenceAmplitude = cfg.ReferenceAmplitude
	opts.Variants = cfg.Variants
	opts.AmplitudeMin = cfg.Amplitude.Min
	opts.AmplitudeMax = cfg.Amplitude.Max
	opts.JitterMin = cfg.FreqJitter.Min
	opts.JitterMax = cfg.FreqJitter.Max
	opts.Workers = cfg.Workers
	opts.FailFast = cfg.FailFast
	return opts
}

// newLogger returns the production logger, or the development logger when
// verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
