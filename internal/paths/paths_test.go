package paths

import (
	"path/filepath"
	"testing"
)

func TestStatePaths(t *testing.T) {
	restore := SetHomeDir("/home/test")
	defer restore()

	if got, want := StateDir("data/Simulated_Dataset"), "/home/test/.notegen/datasets/Simulated_Dataset"; got != want {
		t.Errorf("StateDir = %q, want %q", got, want)
	}
	if got, want := RunsDir("/tmp/set"), "/home/test/.notegen/datasets/set/runs"; got != want {
		t.Errorf("RunsDir = %q, want %q", got, want)
	}
	if got, want := RunPath("/tmp/set", "abc"), "/home/test/.notegen/datasets/set/runs/abc.yaml"; got != want {
		t.Errorf("RunPath = %q, want %q", got, want)
	}
}

func TestSetHomeDirRestore(t *testing.T) {
	before := StateDir("x")
	restore := SetHomeDir(t.TempDir())
	if StateDir("x") == before {
		t.Error("expected SetHomeDir to change StateDir")
	}
	restore()
	if StateDir("x") != before {
		t.Error("expected restore to reset the home directory")
	}
}

func TestDatasetFiles(t *testing.T) {
	root := filepath.Join("out", "set")

	if got, want := NoteDir(root, "A4"), filepath.Join(root, "A4"); got != want {
		t.Errorf("NoteDir = %q, want %q", got, want)
	}
	if got, want := ReferenceFile(root, "A4"), filepath.Join(root, "A4", "A4.wav"); got != want {
		t.Errorf("ReferenceFile = %q, want %q", got, want)
	}
	if got, want := VariantFile(root, "A4", 0), filepath.Join(root, "A4", "A40.wav"); got != want {
		t.Errorf("VariantFile(0) = %q, want %q", got, want)
	}
	if got, want := VariantFile(root, "C#4", 12), filepath.Join(root, "C#4", "C#412.wav"); got != want {
		t.Errorf("VariantFile(12) = %q, want %q", got, want)
	}
}
