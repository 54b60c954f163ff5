package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/scholarsite/folio/internal/bibtex"
)

const testBib = `@article{smith2020,
  title = {machine learning in the visual cortex},
  author = {Smith, John and Doe, Jane},
  year = {2020},
}
@article{jones2018,
  title = {Deep networks for mice},
  author = {Jones, Alice},
  year = {2018},
}
@misc{untitled,
}`

// setupTestDB opens a fresh database in a temporary directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func saveTestSnapshot(t *testing.T, db *DB) []*bibtex.Record {
	t.Helper()

	records := bibtex.ParseEntries(testBib)
	bibtex.SortByYear(records)
	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SaveSnapshot("https://example.org/publications.bib", testBib, records, fetched); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	return records
}

func TestLatestSnapshot_Empty(t *testing.T) {
	db := setupTestDB(t)

	snap, err := db.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if snap != nil {
		t.Errorf("LatestSnapshot() = %+v, want nil", snap)
	}
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	records := saveTestSnapshot(t, db)

	snap, err := db.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if snap == nil {
		t.Fatal("LatestSnapshot() returned nil")
	}
	if snap.Body != testBib {
		t.Errorf("snapshot body mismatch")
	}
	if snap.Count != 3 {
		t.Errorf("snapshot count = %d, want 3", snap.Count)
	}
	if snap.FetchedAt.Unix() != time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("snapshot fetched_at = %v", snap.FetchedAt)
	}

	got, err := db.ListPublications()
	if err != nil {
		t.Fatalf("ListPublications() error = %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("ListPublications() returned %d, want %d", len(got), len(records))
	}
	for i := range records {
		if diff := cmp.Diff(records[i].Fields(), got[i].Fields()); diff != "" {
			t.Errorf("publication %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSaveSnapshot_Replaces(t *testing.T) {
	db := setupTestDB(t)
	saveTestSnapshot(t, db)

	records := bibtex.ParseEntries("@article{only,\n title={x},\n}")
	if err := db.SaveSnapshot("local.bib", "@article{only,\n title={x},\n}", records, time.Now()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	snap, _ := db.LatestSnapshot()
	if snap.Source != "local.bib" {
		t.Errorf("latest snapshot source = %q, want local.bib", snap.Source)
	}

	pruned, err := db.PruneSnapshots(1)
	if err != nil {
		t.Fatalf("PruneSnapshots() error = %v", err)
	}
	if pruned != 1 {
		t.Errorf("PruneSnapshots() removed %d, want 1", pruned)
	}
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	saveTestSnapshot(t, db)

	tests := []struct {
		query string
		want  []string
	}{
		{"cortex", []string{"smith2020"}},
		{"Jones", []string{"jones2018"}},
		{"mice", []string{"jones2018"}},
		{"nothing-matches", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			ids := []string{}
			for _, r := range got {
				ids = append(ids, r.ID())
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"cortex", "cortex"},
		{"wavelet-chaos", `"wavelet-chaos"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveSnapshot_KeepsNewest(t *testing.T) {
	db := setupTestDB(t)

	records := bibtex.ParseEntries("@article{only,\n title={x},\n}")
	for i := 0; i < MaxSnapshots+3; i++ {
		body := fmt.Sprintf("@article{only,\n title={x},\n note={%d},\n}", i)
		if err := db.SaveSnapshot("local.bib", body, records, time.Unix(int64(i), 0)); err != nil {
			t.Fatalf("SaveSnapshot(%d) error = %v", i, err)
		}
	}

	snap, err := db.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if !strings.Contains(snap.Body, fmt.Sprintf("note={%d}", MaxSnapshots+2)) {
		t.Errorf("latest snapshot body = %q, want the last saved", snap.Body)
	}

	removed, err := db.PruneSnapshots(0)
	if err != nil {
		t.Fatalf("PruneSnapshots() error = %v", err)
	}
	if removed != MaxSnapshots {
		t.Errorf("stored snapshots = %d, want %d", removed, MaxSnapshots)
	}
}
