package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/minicodemonkey/notegen/internal/dataset"
	"github.com/minicodemonkey/notegen/internal/runs"
	"github.com/minicodemonkey/notegen/internal/tui"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.PrimaryColor)
	successStyle = lipgloss.NewStyle().Foreground(tui.SuccessColor)
	warningStyle = lipgloss.NewStyle().Foreground(tui.WarningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(tui.ErrorColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(tui.MutedColor)
)

// StatusOptions contains configuration for the status command.
type StatusOptions struct {
	ConfigPath string    // Config file (default: notegen.yaml)
	Out        io.Writer // Report output (default: stdout)
}

// RunStatus prints which notes of the dataset are complete, incomplete or
// missing, and the latest run.
func RunStatus(opts StatusOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	statuses, err := dataset.Inspect(cfg.Output, table, cfg.Variants)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", cfg.Output, err)
	}

	w := stdout(opts.Out)
	fmt.Fprintln(w, titleStyle.Render(cfg.Output))

	var complete, incomplete, missing []dataset.NoteStatus
	for _, st := range statuses {
		switch st.State {
		case dataset.NoteComplete:
			complete = append(complete, st)
		case dataset.NoteIncomplete:
			incomplete = append(incomplete, st)
		default:
			missing = append(missing, st)
		}
	}

	fmt.Fprintf(w, "%s/%d notes complete\n",
		successStyle.Render(fmt.Sprint(len(complete))), len(statuses))

	if len(incomplete) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warningStyle.Render("Incomplete notes (skipped by generate, delete to regenerate):"))
		for _, st := range incomplete {
			detail := fmt.Sprintf("%d/%d files", len(st.Present), len(st.Present)+len(st.Missing))
			if len(st.Partial) > 0 {
				detail += fmt.Sprintf(", %d interrupted", len(st.Partial))
			}
			fmt.Fprintf(w, "  %s: %s\n", st.Note, detail)
		}
	}

	if len(missing) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, mutedStyle.Render("Missing notes:"))
		for _, st := range missing {
			fmt.Fprintf(w, "  %s\n", st.Note)
		}
	}

	if len(incomplete) == 0 && len(missing) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, successStyle.Render("All notes generated!"))
	}

	last, err := runs.Latest(cfg.Output)
	if err != nil {
		return err
	}
	if last != nil {
		fmt.Fprintf(w, "\nLast run %s at %s: %d generated, %d skipped, %d failed\n",
			last.ID, last.StartedAt.Format("2006-01-02 15:04:05"),
			len(last.Generated), len(last.Skipped), len(last.Failed))
		if last.Error != "" {
			fmt.Fprintf(w, "  %s\n", errorStyle.Render(last.Error))
		}
	}

	return nil
}
