// Package notes provides the note frequency tables used to label and
// synthesize the dataset. A table is an ordered list of note names with
// their fundamental frequencies; the order is the class order used by
// downstream consumers.
package notes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrConfiguration is returned for a missing or malformed note table.
	ErrConfiguration = errors.New("invalid note table")
	// ErrInvalidFrequency is returned for a non-positive or non-finite frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// Note is a single pitch class label and its fundamental frequency in Hz.
type Note struct {
	Name      string  `yaml:"name" json:"name"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
}

// Table is an ordered set of notes with unique names.
type Table struct {
	notes []Note
	index map[string]int
}

// NewTable builds a table from notes in the given order.
// Names must be unique and non-empty, frequencies positive and finite.
func NewTable(notes ...Note) (*Table, error) {
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: no notes defined", ErrConfiguration)
	}

	t := &Table{
		notes: make([]Note, 0, len(notes)),
		index: make(map[string]int, len(notes)),
	}
	for _, n := range notes {
		if err := t.add(n); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(n Note) error {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return fmt.Errorf("%w: empty note name", ErrConfiguration)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: note name %q contains a path separator", ErrConfiguration, name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: note name %q is not a directory name", ErrConfiguration, name)
	}
	if _, dup := t.index[name]; dup {
		return fmt.Errorf("%w: duplicate note %q", ErrConfiguration, name)
	}
	if err := ValidateFrequency(n.Frequency); err != nil {
		return fmt.Errorf("note %s: %w", name, err)
	}
	t.index[name] = len(t.notes)
	t.notes = append(t.notes, Note{Name: name, Frequency: n.Frequency})
	return nil
}

// ValidateFrequency rejects frequencies that cannot be synthesized.
func ValidateFrequency(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, f)
	}
	return nil
}

// Len returns the number of notes.
func (t *Table) Len() int {
	return len(t.notes)
}

// Notes returns a copy of the notes in table order.
func (t *Table) Notes() []Note {
	out := make([]Note, len(t.notes))
	copy(out, t.notes)
	return out
}

// Names returns the note names in table order. This is the class mapping.
func (t *Table) Names() []string {
	names := make([]string, len(t.notes))
	for i, n := range t.notes {
		names[i] = n.Name
	}
	return names
}

// Lookup returns the frequency for a note name.
func (t *Table) Lookup(name string) (float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.notes[i].Frequency, true
}

// Format renders the table as aligned "name  frequency" lines.
func (t *Table) Format() string {
	var b strings.Builder
	for _, n := range t.notes {
		fmt.Fprintf(&b, "%-4s %9s Hz\n", n.Name, strconv.FormatFloat(n.Frequency, 'f', 2, 64))
	}
	return b.String()
}
