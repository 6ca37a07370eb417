package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/storage"
)

func setupLedgerStore(t *testing.T) storage.Provider {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "ledger.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load test store: %v", err)
	}
	return store
}

func scheduleWithAnchor(id string) models.Schedule {
	return models.Schedule{
		Anchors: []models.Anchor{{
			ID:        id,
			Title:     "Work",
			Day:       models.Monday,
			StartTime: "09:00",
			EndTime:   "10:00",
		}},
	}
}

func TestLedgerUndoOrder(t *testing.T) {
	store := setupLedgerStore(t)
	ledger := Ledger{store: store}

	for i := 1; i <= 3; i++ {
		if err := ledger.Push(fmt.Sprintf("change %d", i), scheduleWithAnchor(fmt.Sprintf("a%d", i))); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	// Undoing walks back most recent first, restoring each prior schedule.
	for i := 3; i >= 1; i-- {
		message, err := ledger.Undo()
		if err != nil {
			t.Fatalf("undo failed: %v", err)
		}
		want := fmt.Sprintf("change %d", i)
		if message != want {
			t.Errorf("undo message = %q, want %q", message, want)
		}
		snapshot, _ := store.Snapshot()
		wantID := fmt.Sprintf("a%d", i)
		if len(snapshot.Anchors) != 1 || snapshot.Anchors[0].ID != wantID {
			t.Errorf("undo restored %+v, want anchor %s", snapshot.Anchors, wantID)
		}
	}
	if ledger.Len() != 0 {
		t.Errorf("ledger holds %d entries after full unwind", ledger.Len())
	}
}

func TestLedgerEmpty(t *testing.T) {
	ledger := Ledger{store: setupLedgerStore(t)}
	if _, err := ledger.Undo(); err == nil {
		t.Error("undo on an empty ledger should fail")
	}
}

func TestLedgerBounded(t *testing.T) {
	ledger := Ledger{store: setupLedgerStore(t)}

	total := constants.MaxUndoEntries + 5
	for i := 1; i <= total; i++ {
		if err := ledger.Push(fmt.Sprintf("change %d", i), models.Schedule{}); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	if ledger.Len() != constants.MaxUndoEntries {
		t.Fatalf("ledger holds %d entries, want %d", ledger.Len(), constants.MaxUndoEntries)
	}
	messages := ledger.Messages()
	if messages[0] != fmt.Sprintf("change %d", total) {
		t.Errorf("newest entry = %q", messages[0])
	}
	// The five oldest pushes were evicted.
	if oldest := messages[len(messages)-1]; oldest != "change 6" {
		t.Errorf("oldest retained entry = %q, want change 6", oldest)
	}
}

// failingStore wraps a real provider but refuses to restore, standing in for
// a backend write failure mid-undo.
type failingStore struct {
	storage.Provider
}

func (f *failingStore) Restore(models.Schedule) error {
	return fmt.Errorf("disk full")
}

func TestLedgerFailedUndoKeepsEntry(t *testing.T) {
	store := setupLedgerStore(t)
	ledger := Ledger{store: &failingStore{Provider: store}}

	if err := ledger.Push("change 1", models.Schedule{}); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if _, err := ledger.Undo(); err == nil {
		t.Fatal("undo should surface the restore failure")
	}
	if ledger.Len() != 1 {
		t.Errorf("failed undo consumed the entry: %d entries left", ledger.Len())
	}
}
