package runs

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minicodemonkey/notegen/internal/config"
	"github.com/minicodemonkey/notegen/internal/paths"
)

func TestNewAssignsUUID(t *testing.T) {
	r := New(*config.Default(), time.Now())
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", r.ID, err)
	}
	if New(*config.Default(), time.Now()).ID == r.ID {
		t.Error("expected distinct run IDs")
	}
}

func TestSaveAndList(t *testing.T) {
	restore := paths.SetHomeDir(t.TempDir())
	defer restore()

	root := t.TempDir()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := New(*config.Default(), base)
	older.Generated = []string{"A4", "C4"}
	older.Files = 6
	older.FinishedAt = base.Add(time.Second)

	newer := New(*config.Default(), base.Add(time.Hour))
	newer.Skipped = []string{"A4", "C4"}
	newer.Failed = map[string]string{"E4": "disk full"}

	if err := Save(root, older); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(root, newer); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := List(root)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != newer.ID {
		t.Errorf("expected newest record first")
	}
	if records[1].Files != 6 || len(records[1].Generated) != 2 {
		t.Errorf("older record not round-tripped: %+v", records[1])
	}
	if records[0].Failed["E4"] != "disk full" {
		t.Errorf("failed notes not round-tripped: %+v", records[0].Failed)
	}
	if records[0].Config.Seed != 20 {
		t.Errorf("config snapshot not round-tripped: seed %d", records[0].Config.Seed)
	}

	latest, err := Latest(root)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Errorf("Latest returned %+v, want %s", latest, newer.ID)
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	restore := paths.SetHomeDir(t.TempDir())
	defer restore()

	root := t.TempDir()
	if err := Save(root, New(*config.Default(), time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.RunPath(root, "broken"), []byte("id: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := List(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 readable record, got %d", len(records))
	}
}

func TestListNoRuns(t *testing.T) {
	restore := paths.SetHomeDir(t.TempDir())
	defer restore()

	records, err := List(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}

	latest, err := Latest(t.TempDir())
	if err != nil || latest != nil {
		t.Errorf("Latest = %v, %v; want nil, nil", latest, err)
	}
}
