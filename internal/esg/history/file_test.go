package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

func nopLog() *logger.Logger { return logger.Nop() }

func sampleRecord(company, id, rating string, total float64, ts time.Time) *schema.Record {
	return &schema.Record{
		ID:            id,
		CompanyID:     company,
		Date:          ts.Format(time.DateOnly),
		Timestamp:     ts,
		Scores:        schema.Scores{Total: total, E: int(total)},
		Rating:        rating,
		Answers:       map[string]string{"e1": "yes"},
		RubricVersion: rubric.Version,
		Fingerprint:   "sha256:" + id,
	}
}

func TestFileStoreSaveAndList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	now := time.Now().UTC()

	store, err := NewFileStore(dir, nopLog())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []*schema.Record{
		sampleRecord("acme", "r1", "A", 85, now),
		sampleRecord("globex", "r2", "C", 40, now.Add(-time.Hour)),
		sampleRecord("acme", "r3", "B", 65, now.Add(-30*time.Minute)),
	} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	// reload from disk
	store, err = NewFileStore(dir, nopLog())
	if err != nil {
		t.Fatal(err)
	}
	all, _ := store.List(ctx, ListOptions{})
	if len(all) != 3 || all[0].ID != "r2" {
		t.Errorf("expected oldest first, got %v", ids(all))
	}

	acme, _ := store.List(ctx, ListOptions{Company: "acme"})
	if len(acme) != 2 {
		t.Errorf("expected 2 acme records, got %d", len(acme))
	}

	gradeC, _ := store.List(ctx, ListOptions{Rating: "C"})
	if len(gradeC) != 1 || gradeC[0].CompanyID != "globex" {
		t.Errorf("expected the globex record, got %v", ids(gradeC))
	}

	byTotal, _ := store.List(ctx, ListOptions{SortField: "total", SortDesc: true})
	if byTotal[0].ID != "r1" {
		t.Errorf("expected r1 first in desc total sort, got %s", byTotal[0].ID)
	}
}

func TestLatestPerCompany(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	store, err := NewFileStore(t.TempDir(), nopLog())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Save(ctx, sampleRecord("acme", "old", "C", 40, now.Add(-time.Hour)))
	_ = store.Save(ctx, sampleRecord("acme", "new", "B", 70, now))
	_ = store.Save(ctx, sampleRecord("globex", "only", "D", 10, now))

	all, _ := store.List(ctx, ListOptions{})
	latest := LatestPerCompany(all)
	if len(latest) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(latest))
	}
	if latest[0].CompanyID != "acme" || latest[0].ID != "new" {
		t.Errorf("expected acme/new, got %s/%s", latest[0].CompanyID, latest[0].ID)
	}
}

func TestFileStoreGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), nopLog())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Save(ctx, sampleRecord("acme", "r1", "A", 85, time.Now()))

	got, err := store.Get(ctx, "acme", "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Scores.Total != 85 {
		t.Errorf("expected total 85, got %v", got.Scores.Total)
	}

	if _, err := store.Get(ctx, "acme", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreRejectsUnsafeCompany(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nopLog())
	if err != nil {
		t.Fatal(err)
	}
	for _, company := range []string{"", "..", "a/b", ".hidden"} {
		r := sampleRecord(company, "r1", "A", 85, time.Now())
		if err := store.Save(context.Background(), r); !errors.Is(err, ErrInvalidCompany) {
			t.Errorf("company %q: expected ErrInvalidCompany, got %v", company, err)
		}
	}
}

func TestFileStoreRescoresOnLoad(t *testing.T) {
	dir := t.TempDir()
	stale := sampleRecord("acme", "r1", "A", 99, time.Now().UTC())
	stale.RubricVersion = "1.0.0"
	stale.Answers = map[string]string{"e4": "yes", "e5": "yes", "e6": "yes"}
	if err := os.MkdirAll(filepath.Join(dir, "acme"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := writeJSON(filepath.Join(dir, "acme", "r1"+recordSuffix), stale); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "acme", "broken"+recordSuffix), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileStore(dir, nopLog())
	if err != nil {
		t.Fatal(err)
	}
	if all, _ := store.List(context.Background(), ListOptions{}); len(all) != 1 {
		t.Errorf("expected corrupt file to be skipped, got %d records", len(all))
	}
	got, _ := store.Get(context.Background(), "acme", "r1")
	if got.Scores.Total != 15 || got.Rating != "D" {
		t.Errorf("expected rescored 15/D, got %v/%s", got.Scores.Total, got.Rating)
	}

	var onDisk schema.Record
	if err := readJSON(filepath.Join(dir, "acme", "r1"+recordSuffix), &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.RubricVersion != rubric.Version {
		t.Errorf("expected rescored record written back, got version %q", onDisk.RubricVersion)
	}
}

func TestFileStoreUnlock(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, nopLog())
	if err != nil {
		t.Fatal(err)
	}

	first := []schema.Achievement{{ID: "total_score_60"}, {ID: "rating_a"}}
	if err := store.Unlock(ctx, "acme", first); err != nil {
		t.Fatal(err)
	}
	if err := store.Unlock(ctx, "acme", []schema.Achievement{{ID: "rating_a"}, {ID: "e_score_25"}}); err != nil {
		t.Fatal(err)
	}

	store, err = NewFileStore(dir, nopLog())
	if err != nil {
		t.Fatal(err)
	}
	got, _ := store.Achievements(ctx, "acme")
	want := []string{"total_score_60", "rating_a", "e_score_25"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, a := range got {
		if a.ID != want[i] {
			t.Errorf("achievement %d: expected %s, got %s", i, want[i], a.ID)
		}
	}
}

func ids(records []schema.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
