// Package paths resolves the dataset layout and the per-dataset state
// directory under the user's home.
package paths

import (
	"os"
	"path/filepath"
	"strconv"
)

// homeDir returns the user's home directory, panicking if it can't be resolved.
var homeDir = func() string {
	h, err := os.UserHomeDir()
	if err != nil {
		panic("cannot resolve home directory: " + err.Error())
	}
	return h
}

// SetHomeDir overrides the home directory used by all path functions.
// Intended for testing. Returns a restore function.
func SetHomeDir(dir string) func() {
	old := homeDir
	homeDir = func() string { return dir }
	return func() { homeDir = old }
}

// datasetID returns the directory name used to identify a dataset.
func datasetID(outputRoot string) string {
	abs, err := filepath.Abs(outputRoot)
	if err != nil {
		return filepath.Base(outputRoot)
	}
	return filepath.Base(abs)
}

// StateDir returns ~/.notegen/datasets/<dataset-dir-name>/
func StateDir(outputRoot string) string {
	return filepath.Join(homeDir(), ".notegen", "datasets", datasetID(outputRoot))
}

// RunsDir returns ~/.notegen/datasets/<dataset-dir-name>/runs/
func RunsDir(outputRoot string) string {
	return filepath.Join(StateDir(outputRoot), "runs")
}

// RunPath returns ~/.notegen/datasets/<dataset-dir-name>/runs/<id>.yaml
func RunPath(outputRoot, id string) string {
	return filepath.Join(RunsDir(outputRoot), id+".yaml")
}

// NoteDir returns <root>/<note>/. Its existence marks the note as generated.
func NoteDir(outputRoot, note string) string {
	return filepath.Join(outputRoot, note)
}

// ReferenceFile returns <root>/<note>/<note>.wav
func ReferenceFile(outputRoot, note string) string {
	return filepath.Join(NoteDir(outputRoot, note), note+".wav")
}

// VariantFile returns <root>/<note>/<note><index>.wav
func VariantFile(outputRoot, note string, index int) string {
	return filepath.Join(NoteDir(outputRoot, note), note+strconv.Itoa(index)+".wav")
}
