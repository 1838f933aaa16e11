package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/minicodemonkey/notegen/internal/config"
)

// ConfigOptions contains configuration for the config command.
type ConfigOptions struct {
	ConfigPath string    // Config file (default: notegen.yaml)
	Init       bool      // Write the default config instead of printing
	Force      bool      // Overwrite an existing file with Init
	Color      bool      // Syntax-highlight the printed YAML
	Out        io.Writer // Output (default: stdout)
}

// RunConfig prints the effective config (file plus environment), or writes
// a default config file with Init.
func RunConfig(opts ConfigOptions) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	w := stdout(opts.Out)

	if opts.Init {
		if config.Exists(path) && !opts.Force {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(w, "Wrote default config to %s\n", path)
		return nil
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if opts.Color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, string(data), "yaml", "terminal256", "monokai"); err == nil {
			data = buf.Bytes()
		}
	}
	_, err = w.Write(data)
	return err
}
