package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/term"

	"github.com/minicodemonkey/notegen/internal/cmd"
	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/notes"
)

const usage = `notegen - synthetic note dataset generator

Usage:
  notegen [generate] [flags]   Generate missing notes
  notegen watch [flags]        Generate, then regenerate when inputs change
  notegen status [flags]       Show which notes are on disk
  notegen verify [flags]       Check every generated file's format
  notegen labels [-o file]     Print or write the class mapping JSON
  notegen notes [flags]        Print the note table
  notegen config [-init]       Print the effective config or write defaults

Run 'notegen <command> -h' for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	command := "generate"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "generate":
		opts, err := parseGenerate("generate", args)
		if err != nil {
			return err
		}
		return cmd.RunGenerate(ctx, opts)

	case "watch":
		opts, err := parseGenerate("watch", args)
		if err != nil {
			return err
		}
		return cmd.RunWatch(ctx, cmd.WatchOptions{Generate: opts})

	case "status":
		fs, configPath := newFlagSet("status")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return cmd.RunStatus(cmd.StatusOptions{ConfigPath: *configPath})

	case "verify":
		fs, configPath := newFlagSet("verify")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return cmd.RunVerify(cmd.VerifyOptions{ConfigPath: *configPath})

	case "labels":
		fs, configPath := newFlagSet("labels")
		output := fs.String("o", "", "write the mapping to this file instead of stdout")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return cmd.RunLabels(cmd.LabelsOptions{ConfigPath: *configPath, Output: *output})

	case "notes":
		fs, configPath := newFlagSet("notes")
		notesRef := fs.String("notes", "", notesUsage())
		asYAML := fs.Bool("yaml", false, "print the table as YAML")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return cmd.RunNotes(cmd.NotesOptions{ConfigPath: *configPath, Notes: *notesRef, YAML: *asYAML})

	case "config":
		fs, configPath := newFlagSet("config")
		initCfg := fs.Bool("init", false, "write the default config file")
		force := fs.Bool("force", false, "overwrite an existing config file with -init")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return cmd.RunConfig(cmd.ConfigOptions{
			ConfigPath: *configPath,
			Init:       *initCfg,
			Force:      *force,
			Color:      term.IsTerminal(os.Stdout.Fd()),
		})

	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func notesUsage() string {
	return "preset (" + strings.Join(notes.PresetNames(), ", ") + ") or note table file"
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, "config file")
	return fs, configPath
}

func parseGenerate(name string, args []string) (cmd.GenerateOptions, error) {
	fs, configPath := newFlagSet(name)
	output := fs.String("output", "", "dataset root directory")
	notesRef := fs.String("notes", "", notesUsage())
	variants := fs.Int("variants", 0, "perturbed variants per note")
	seed := fs.Int64("seed", 0, "random seed")
	workers := fs.Int("workers", 0, "notes rendered concurrently")
	failFast := fs.Bool("fail-fast", false, "stop at the first failed note")
	useTUI := fs.Bool("tui", false, "always show the progress view")
	noTUI := fs.Bool("no-tui", false, "never show the progress view")
	verbose := fs.Bool("verbose", false, "development logging")

	if err := fs.Parse(args); err != nil {
		return cmd.GenerateOptions{}, err
	}
	if fs.NArg() > 0 {
		return cmd.GenerateOptions{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	opts := cmd.GenerateOptions{
		ConfigPath: *configPath,
		Output:     *output,
		Notes:      *notesRef,
		FailFast:   *failFast,
		TUI:        *useTUI,
		NoTUI:      *noTUI,
		Verbose:    *verbose,
	}

	// Only flags given on the command line override the config.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variants":
			opts.Variants = variants
		case "seed":
			opts.Seed = seed
		case "workers":
			opts.Workers = workers
		}
	})

	return opts, nil
}
