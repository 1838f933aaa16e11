package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"go.uber.org/zap"

	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/dataset"
	"github.com/minicodemonkey/notegen/internal/metrics"
	"github.com/minicodemonkey/notegen/internal/notes"
	"github.com/minicodemonkey/notegen/internal/runs"
	"github.com/minicodemonkey/notegen/internal/tui"
)

// GenerateOptions contains configuration for the generate command.
// Empty strings and nil pointers leave the config file's value in place.
type GenerateOptions struct {
	ConfigPath string // Config file (default: notegen.yaml)
	Output     string // Dataset root
	Notes      string // Preset name or note table file
	Variants   *int
	Seed       *int64
	Workers    *int
	FailFast   bool

	TUI     bool // Force the progress TUI
	NoTUI   bool // Never use the progress TUI
	Verbose bool // Development logging

	Logger *zap.Logger // Overrides the logger built from Verbose
	Out    io.Writer   // Summary output (default: stdout)
}

// ErrNotesFailed is returned when a run finished but some notes failed.
var ErrNotesFailed = errors.New("some notes failed")

// RunGenerate materializes the dataset described by the config.
func RunGenerate(ctx context.Context, opts GenerateOptions) error {
	cfg, err := generateConfig(opts)
	if err != nil {
		return err
	}

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	useTUI := opts.TUI || (!opts.NoTUI && term.IsTerminal(os.Stdout.Fd()))

	logger := opts.Logger
	switch {
	case logger != nil:
	case useTUI:
		// The TUI owns the terminal.
		logger = zap.NewNop()
	default:
		logger, err = newLogger(opts.Verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	logger.Info("starting run",
		zap.String("output", cfg.Output),
		zap.String("notes", cfg.Notes),
		zap.Int("noteCount", table.Len()),
		zap.Int("variants", cfg.Variants),
		zap.Int64("seed", cfg.Seed),
	)

	reg := metrics.New()
	record := runs.New(*cfg, time.Now())
	rng := rand.New(rand.NewSource(cfg.Seed))

	var res *dataset.Result
	var runErr error
	if useTUI {
		res, runErr = generateWithTUI(ctx, cfg, table, rng, logger, reg)
	} else {
		m := dataset.New(datasetOptions(cfg), logger, reg)
		res, runErr = m.Materialize(ctx, table, rng)
	}

	finishRecord(record, res, runErr)
	if err := runs.Save(cfg.Output, record); err != nil {
		logger.Warn("failed to save run record", zap.Error(err))
	}
	if cfg.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	if res != nil {
		printSummary(stdout(opts.Out), cfg.Output, res)
	}
	if runErr != nil {
		return runErr
	}
	if res != nil && len(res.Failed) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrNotesFailed, len(res.Failed), table.Len())
	}
	return nil
}

// generateConfig loads the config and layers the command-line overrides on top.
func generateConfig(opts GenerateOptions) (*config.Config, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Notes != "" {
		cfg.Notes = opts.Notes
	}
	if opts.Variants != nil {
		cfg.Variants = *opts.Variants
	}
	if opts.Seed != nil {
		cfg.Seed = *opts.Seed
	}
	if opts.Workers != nil {
		cfg.Workers = *opts.Workers
	}
	if opts.FailFast {
		cfg.FailFast = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generateWithTUI(ctx context.Context, cfg *config.Config, table *notes.Table, rng *rand.Rand, logger *zap.Logger, reg *metrics.Metrics) (*dataset.Result, error) {
	events := make(chan dataset.Event, 64)
	dsOpts := datasetOptions(cfg)
	dsOpts.Events = events
	m := dataset.New(dsOpts, logger, reg)

	app := tui.NewApp(ctx, cfg.Output, table.Names(), events, func(runCtx context.Context) (*dataset.Result, error) {
		defer close(events)
		return m.Materialize(runCtx, table, rng)
	})

	p := tea.NewProgram(app, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("failed to run progress view: %w", err)
	}

	if app.Result() == nil && app.Err() == nil {
		// Quit before the run returned.
		return nil, context.Canceled
	}
	return app.Result(), app.Err()
}

func finishRecord(r *runs.Record, res *dataset.Result, err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Error = err.Error()
	}
	if res == nil {
		return
	}
	r.Generated = res.Generated
	r.Skipped = res.Skipped
	r.Files = len(res.Files)
	if len(res.Failed) > 0 {
		r.Failed = make(map[string]string, len(res.Failed))
		for _, f := range res.Failed {
			r.Failed[f.Note] = f.Err.Error()
		}
	}
}

func printSummary(w io.Writer, output string, res *dataset.Result) {
	fmt.Fprintf(w, "%s: %d generated, %d skipped, %d failed (%d files, %s) in %s\n",
		output, len(res.Generated), len(res.Skipped), len(res.Failed),
		len(res.Files), formatBytes(res.Bytes), res.Elapsed.Round(time.Millisecond))
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  %s\n", errorStyle.Render(f.Error()))
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
