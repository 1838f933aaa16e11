// Package runs stores a YAML record of every generation run in the
// dataset's state directory.
package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/paths"
	"gopkg.in/yaml.v3"
)

// Record describes one run.
type Record struct {
	ID         string            `yaml:"id"`
	StartedAt  time.Time         `yaml:"startedAt"`
	FinishedAt time.Time         `yaml:"finishedAt"`
	Config     config.Config     `yaml:"config"`
	Generated  []string          `yaml:"generated,omitempty"`
	Skipped    []string          `yaml:"skipped,omitempty"`
	Failed     map[string]string `yaml:"failed,omitempty"`
	Files      int               `yaml:"files"`
	Error      string            `yaml:"error,omitempty"`
}

// New starts a record with a fresh run ID.
func New(cfg config.Config, started time.Time) *Record {
	return &Record{
		ID:        uuid.NewString(),
		StartedAt: started,
		Config:    cfg,
	}
}

// Save writes the record under the dataset's runs directory.
func Save(outputRoot string, r *Record) error {
	path := paths.RunPath(outputRoot, r.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// List returns all records for a dataset, newest first.
// A dataset with no runs returns an empty list.
func List(outputRoot string) ([]*Record, error) {
	dir := paths.RunsDir(outputRoot)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var r Record
		if err := yaml.Unmarshal(data, &r); err != nil {
			// Skip records that can't be parsed (might be partially written)
			continue
		}
		records = append(records, &r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

// Latest returns the newest record, or nil if there is none.
func Latest(outputRoot string) (*Record, error) {
	records, err := List(outputRoot)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}
