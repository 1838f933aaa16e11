package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minicodemonkey/notegen/internal/wavfile"
)

func TestInspect(t *testing.T) {
	root := t.TempDir()
	materialize(t, shortOptions(root), twoNotes(t), 20)

	// Knock a variant out of C4 and leave a temp file behind in A4.
	if err := os.Remove(filepath.Join(root, "C4", "C41.wav")); err != nil {
		t.Fatal(err)
	}
	tmp := filepath.Join(root, "A4", "A41.wav.tmp")
	if err := os.WriteFile(tmp, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	statuses, err := Inspect(root, twoNotes(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	a4, c4 := statuses[0], statuses[1]
	if a4.State != NoteIncomplete || !reflect.DeepEqual(a4.Partial, []string{tmp}) {
		t.Errorf("A4 = %+v, want incomplete with one partial file", a4)
	}
	if c4.State != NoteIncomplete || len(c4.Missing) != 1 || len(c4.Present) != 2 {
		t.Errorf("C4 = %+v, want incomplete with one missing file", c4)
	}
}

func TestInspectStates(t *testing.T) {
	root := t.TempDir()

	statuses, err := Inspect(root, twoNotes(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statuses {
		if st.State != NoteMissing {
			t.Errorf("%s: state %v, want missing", st.Note, st.State)
		}
	}

	materialize(t, shortOptions(root), twoNotes(t), 20)
	statuses, err = Inspect(root, twoNotes(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statuses {
		if st.State != NoteComplete || len(st.Present) != 3 {
			t.Errorf("%s: %+v, want complete with 3 files", st.Note, st)
		}
	}
}

func TestIncompleteNoteIsStillSkipped(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "A4"), 0755); err != nil {
		t.Fatal(err)
	}

	res := materialize(t, shortOptions(root), twoNotes(t), 20)
	if !reflect.DeepEqual(res.Skipped, []string{"A4"}) {
		t.Errorf("Skipped = %v, want [A4]", res.Skipped)
	}

	statuses, err := Inspect(root, twoNotes(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	if statuses[0].State != NoteIncomplete || len(statuses[0].Missing) != 3 {
		t.Errorf("A4 = %+v, want incomplete with all files missing", statuses[0])
	}
}

func TestInspectNoteDirIsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "A4"), []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	statuses, err := Inspect(root, twoNotes(t), 2)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if statuses[0].State != NoteIncomplete || len(statuses[0].Missing) != 3 || len(statuses[0].Present) != 0 {
		t.Errorf("A4 = %+v, want incomplete with all files missing", statuses[0])
	}
	if statuses[1].State != NoteMissing {
		t.Errorf("C4: state %v, want missing", statuses[1].State)
	}

	problems, err := Verify(root, twoNotes(t), 2, 44100, 1)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(problems) != 3 {
		t.Errorf("expected 3 problems, got %v", problems)
	}
}

func TestNoteStateString(t *testing.T) {
	tests := map[NoteState]string{
		NoteMissing:    "missing",
		NoteComplete:   "complete",
		NoteIncomplete: "incomplete",
		NoteState(42):  "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("NoteState(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	opts := shortOptions(root)
	materialize(t, opts, twoNotes(t), 20)

	problems, err := Verify(root, twoNotes(t), 2, opts.SampleRate, opts.Duration)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected a clean dataset, got %v", problems)
	}

	// Overwrite one file with the wrong sample rate and drop another.
	bad := filepath.Join(root, "A4", "A40.wav")
	if _, err := wavfile.Write(bad, make([]int8, 100), 22050); err != nil {
		t.Fatal(err)
	}
	gone := filepath.Join(root, "C4", "C4.wav")
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	problems, err = Verify(root, twoNotes(t), 2, opts.SampleRate, opts.Duration)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	if problems[0].Path != bad || problems[0].Note != "A4" {
		t.Errorf("first problem = %v, want %s", problems[0], bad)
	}
	if problems[1].Path != gone || !errors.Is(problems[1].Err, os.ErrNotExist) {
		t.Errorf("second problem = %v, want missing %s", problems[1], gone)
	}
}

func TestVerifyIgnoresMissingNotes(t *testing.T) {
	problems, err := Verify(t.TempDir(), twoNotes(t), 2, 44100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 0 {
		t.Errorf("expected no problems for ungenerated notes, got %v", problems)
	}
}

func TestLabels(t *testing.T) {
	got := Labels(twoNotes(t))
	if !reflect.DeepEqual(got.Mapping, []string{"A4", "C4"}) {
		t.Errorf("Mapping = %v, want [A4 C4]", got.Mapping)
	}
}

func TestWriteMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := WriteMapping(path, twoNotes(t)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("mapping is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(m.Mapping, []string{"A4", "C4"}) {
		t.Errorf("Mapping = %v, want [A4 C4]", m.Mapping)
	}
}
