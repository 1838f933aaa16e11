package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/minicodemonkey/notegen/internal/dataset"
)

// LabelsOptions contains configuration for the labels command.
type LabelsOptions struct {
	ConfigPath string    // Config file (default: notegen.yaml)
	Output     string    // Mapping file to write (default: print to Out)
	Out        io.Writer // Default output (default: stdout)
}

// RunLabels writes the class mapping used by the downstream classifiers.
// Class i is the note directory at position i of the table.
func RunLabels(opts LabelsOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := dataset.WriteMapping(opts.Output, table); err != nil {
			return err
		}
		fmt.Fprintf(stdout(opts.Out), "Wrote %d labels to %s\n", table.Len(), opts.Output)
		return nil
	}

	data, err := json.MarshalIndent(dataset.Labels(table), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	fmt.Fprintln(stdout(opts.Out), string(data))
	return nil
}
