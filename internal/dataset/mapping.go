package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicodemonkey/notegen/internal/notes"
)

// Mapping is the class list consumed by feature extraction. Class index i
// is the directory named Mapping[i].
type Mapping struct {
	Mapping []string `json:"mapping"`
}

// Labels returns the class mapping for table.
func Labels(table *notes.Table) Mapping {
	return Mapping{Mapping: table.Names()}
}

// WriteMapping writes the class mapping for table as JSON.
func WriteMapping(path string, table *notes.Table) error {
	data, err := json.MarshalIndent(Labels(table), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}

	return nil
}
