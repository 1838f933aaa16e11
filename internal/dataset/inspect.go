package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minicodemonkey/notegen/internal/notes"
	"github.com/minicodemonkey/notegen/internal/paths"
	"github.com/minicodemonkey/notegen/internal/synth"
	"github.com/minicodemonkey/notegen/internal/wavfile"
)

// NoteState classifies a note's directory on disk.
type NoteState int

const (
	NoteMissing NoteState = iota
	NoteComplete
	NoteIncomplete
)

func (s NoteState) String() string {
	switch s {
	case NoteMissing:
		return "missing"
	case NoteComplete:
		return "complete"
	case NoteIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// NoteStatus is the on-disk state of one note.
type NoteStatus struct {
	Note    string
	State   NoteState
	Present []string // expected files that exist
	Missing []string // expected files that don't
	Partial []string // leftover temp files from an interrupted write
}

// Inspect reports which notes of table are missing, complete or
// incomplete under root, given variants files per note. Incomplete notes
// are still skipped by Materialize; Inspect only reports them.
func Inspect(root string, table *notes.Table, variants int) ([]NoteStatus, error) {
	statuses := make([]NoteStatus, 0, table.Len())
	for _, name := range table.Names() {
		st := NoteStatus{Note: name}

		dir := paths.NoteDir(root, name)
		info, err := os.Stat(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
			}
			st.State = NoteMissing
			statuses = append(statuses, st)
			continue
		}
		if !info.IsDir() {
			// A regular file squats on the note directory.
			st.Missing = expectedFiles(root, name, variants)
			st.State = NoteIncomplete
			statuses = append(statuses, st)
			continue
		}

		for _, path := range expectedFiles(root, name, variants) {
			if _, err := os.Stat(path); err == nil {
				st.Present = append(st.Present, path)
			} else {
				st.Missing = append(st.Missing, path)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				st.Partial = append(st.Partial, filepath.Join(dir, e.Name()))
			}
		}

		st.State = NoteComplete
		if len(st.Missing) > 0 || len(st.Partial) > 0 {
			st.State = NoteIncomplete
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func expectedFiles(root, note string, variants int) []string {
	files := []string{paths.ReferenceFile(root, note)}
	for j := 0; j < variants; j++ {
		files = append(files, paths.VariantFile(root, note, j))
	}
	return files
}

var errInterrupted = errors.New("interrupted write")

// Problem is a file that failed verification.
type Problem struct {
	Note string
	Path string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

// Verify decodes every expected file of every generated note and checks it
// is mono 8-bit PCM at the given sample rate and duration. Notes whose
// directory is missing are not checked.
func Verify(root string, table *notes.Table, variants, sampleRate int, duration float64) ([]Problem, error) {
	statuses, err := Inspect(root, table, variants)
	if err != nil {
		return nil, err
	}

	frames := synth.NumSamples(sampleRate, duration)
	var problems []Problem
	for _, st := range statuses {
		if st.State == NoteMissing {
			continue
		}
		for _, path := range st.Missing {
			problems = append(problems, Problem{Note: st.Note, Path: path, Err: os.ErrNotExist})
		}
		for _, path := range st.Partial {
			problems = append(problems, Problem{Note: st.Note, Path: path, Err: errInterrupted})
		}
		for _, path := range st.Present {
			if err := checkFile(path, sampleRate, frames); err != nil {
				problems = append(problems, Problem{Note: st.Note, Path: path, Err: err})
			}
		}
	}
	return problems, nil
}

func checkFile(path string, sampleRate, frames int) error {
	info, err := wavfile.Inspect(path)
	if err != nil {
		return err
	}
	switch {
	case info.Format != 1:
		return fmt.Errorf("audio format %d, want PCM", info.Format)
	case info.Channels != wavfile.Channels:
		return fmt.Errorf("%d channels, want %d", info.Channels, wavfile.Channels)
	case info.BitDepth != wavfile.BitDepth:
		return fmt.Errorf("%d-bit samples, want %d", info.BitDepth, wavfile.BitDepth)
	case info.SampleRate != sampleRate:
		return fmt.Errorf("sample rate %d, want %d", info.SampleRate, sampleRate)
	case info.Frames != frames:
		return fmt.Errorf("%d frames, want %d", info.Frames, frames)
	}
	return nil
}
