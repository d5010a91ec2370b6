package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

func newTestStore(t *testing.T) *LineStore {
	t.Helper()
	store, err := NewLineStore(filepath.Join(t.TempDir(), "data", "store.jsonl"), utils.NewLogger(false))
	if err != nil {
		t.Fatalf("NewLineStore: %v", err)
	}
	return store
}

func TestLineStoreAppendLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)

	in := []models.Candidate{
		{ID: "c-1", Name: "Ana", Skills: []string{"SQL"}},
		{ID: "c-2", Position: "Dev", Experience: []models.Experience{{Position: "Dev", StartDate: "2021"}}},
	}
	if err := store.Append(in); err != nil {
		t.Fatalf("Append: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d records, want 2", len(out))
	}
	if out[0].ID != "c-1" || out[1].ID != "c-2" {
		t.Errorf("order not preserved: %q, %q", out[0].ID, out[1].ID)
	}
	if out[1].Experience[0].StartDate != "2021" {
		t.Errorf("nested experience lost: %+v", out[1])
	}
}

func TestLineStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil, got %d records", len(out))
	}
}

func TestLineStoreAppendIsAppendOnly(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append([]models.Candidate{{ID: "c-1"}}); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := store.Append([]models.Candidate{{ID: "c-2"}}); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("second append rewrote the file: %d records", len(out))
	}
}

func TestLineStoreSkipsUnparsableLines(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append([]models.Candidate{{ID: "c-1"}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	f, err := os.OpenFile(store.Path(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("{this is not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()
	if err := store.Append([]models.Candidate{{ID: "c-2"}}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2 (bad line skipped)", len(out))
	}
	if out[0].ID != "c-1" || out[1].ID != "c-2" {
		t.Errorf("wrong survivors: %q, %q", out[0].ID, out[1].ID)
	}
}

func TestLineStoreLoadIDs(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append([]models.Candidate{
		{ID: "c-1"}, {Name: "sin id"}, {ID: "c-2"}, {ID: "c-1"},
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ids, err := store.LoadIDs()
	if err != nil {
		t.Fatalf("LoadIDs: %v", err)
	}
	if strings.Join(ids, ",") != "c-1,c-2,c-1" {
		t.Errorf("ids = %v", ids)
	}
}

func TestLineStoreLoadLatestLastLineWins(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append([]models.Candidate{
		{ID: "c-1", Position: "Analyst"},
		{ID: "c-2", Position: "Dev"},
		{ID: "c-1", Position: "Senior Analyst"},
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	out, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0].ID != "c-1" || out[0].Position != "Senior Analyst" {
		t.Errorf("last line did not win: %+v", out[0])
	}
	if out[1].ID != "c-2" {
		t.Errorf("unexpected order: %+v", out)
	}
}
