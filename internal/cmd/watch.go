package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/notes"
	"github.com/minicodemonkey/notegen/internal/watch"
)

// WatchOptions contains configuration for the watch command.
type WatchOptions struct {
	Generate GenerateOptions
	Debounce time.Duration // Quiet period before regenerating (default: 300ms)
}

// RunWatch generates the dataset, then regenerates whenever the config file
// or note table file changes. Notes already on disk are skipped, so each
// pass only adds what is new. It returns when ctx is cancelled.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	gen := opts.Generate
	gen.NoTUI = true
	gen.TUI = false
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	logger := gen.Logger
	if logger == nil {
		var err error
		logger, err = newLogger(gen.Verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		gen.Logger = logger
	}

	cfg, err := generateConfig(gen)
	if err != nil {
		return err
	}
	files := watchedFiles(gen.ConfigPath, cfg)
	if len(files) == 0 {
		return errors.New("nothing to watch: no config file and the notes are a preset")
	}

	w, err := watch.NewWatcher(files...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return err
	}

	regenerate := func() {
		if err := RunGenerate(ctx, gen); err != nil && ctx.Err() == nil {
			logger.Error("generation failed", zap.Error(err))
		}
	}

	regenerate()
	logger.Info("watching for changes", zap.Strings("files", w.Paths()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Error != nil {
				logger.Warn("watch error", zap.Error(ev.Error))
				continue
			}
			logger.Info("change detected", zap.String("file", ev.Path))

			if !drain(ctx, w.Events(), opts.Debounce) {
				return nil
			}
			regenerate()
		}
	}
}

// drain swallows further events until the files have been quiet for d.
// It reports false when ctx is done or the channel closes.
func drain(ctx context.Context, events <-chan watch.Event, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			timer.Reset(d)
		case <-timer.C:
			return true
		}
	}
}

// watchedFiles returns the config file, if it exists, and the note table
// file unless the notes are a preset.
func watchedFiles(configPath string, cfg *config.Config) []string {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	var files []string
	if config.Exists(configPath) {
		files = append(files, configPath)
	}
	if !notes.IsPreset(cfg.Notes) {
		files = append(files, cfg.Notes)
	}
	return files
}
