package cmd

import (
	"fmt"
	"io"

	"github.com/minicodemonkey/notegen/internal/notes"
)

// NotesOptions contains configuration for the notes command.
type NotesOptions struct {
	ConfigPath string    // Config file (default: notegen.yaml)
	Notes      string    // Preset or table file overriding the config
	YAML       bool      // Print the table as a loadable YAML file
	Out        io.Writer // Output (default: stdout)
}

// RunNotes prints the resolved note table in generation order. With YAML
// the output can be edited and used as a custom table.
func RunNotes(opts NotesOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Notes != "" {
		cfg.Notes = opts.Notes
	}

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	w := stdout(opts.Out)
	if opts.YAML {
		data, err := notes.Marshal(table)
		if err != nil {
			return fmt.Errorf("failed to marshal notes: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "%s (%d notes)\n", titleStyle.Render(cfg.Notes), table.Len())
	fmt.Fprint(w, table.Format())
	return nil
}
