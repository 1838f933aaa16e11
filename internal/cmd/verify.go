package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/minicodemonkey/notegen/internal/dataset"
	"github.com/minicodemonkey/notegen/internal/tui"
)

// VerifyOptions contains configuration for the verify command.
type VerifyOptions struct {
	ConfigPath string    // Config file (default: notegen.yaml)
	Out        io.Writer // Report output (default: stdout)
}

// ErrVerifyFailed is returned when verification finds problems.
var ErrVerifyFailed = errors.New("verification failed")

// RunVerify decodes every expected file of every generated note and checks
// its format against the config.
func RunVerify(opts VerifyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	problems, err := dataset.Verify(cfg.Output, table, cfg.Variants, cfg.SampleRate, cfg.DurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", cfg.Output, err)
	}

	w := stdout(opts.Out)
	if len(problems) == 0 {
		fmt.Fprintln(w, successStyle.Render("All generated notes verified"))
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(tui.IconFailed), p)
	}
	return fmt.Errorf("%w: %d problems", ErrVerifyFailed, len(problems))
}
