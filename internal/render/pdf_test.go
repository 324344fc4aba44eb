package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"expedition/internal/trip"
)

func testRequest() *trip.Request {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	budget := 3000.0
	return &trip.Request{
		Location:  "Kyoto, Japan",
		StartDate: &start,
		EndDate:   &end,
		Occasion:  trip.OccasionCultural,
		Budget:    &budget,
	}
}

func TestRenderAndSingleUseDownload(t *testing.T) {
	r := New(t.TempDir(), time.Hour, nil)

	token, err := r.Render(testRequest(), "Day 1: arrive.\nDay 2: temples.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := r.Take(token)
	if err != nil {
		t.Fatalf("first Take: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("first Take returned no bytes")
	}

	// Second download of the same token must fail: at-most-once semantics.
	if _, err := r.Take(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Take err = %v, want ErrNotFound", err)
	}
}

func TestTakeRejectsForeignTokens(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, time.Hour, nil)

	// A real file that is not a rendered artifact must stay unreachable.
	if err := os.WriteFile(filepath.Join(dir, "secrets.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, token := range []string{"secrets.txt", "../secrets.txt", "nope.pdf", ""} {
		if _, err := r.Take(token); !errors.Is(err, ErrNotFound) {
			t.Errorf("Take(%q) err = %v, want ErrNotFound", token, err)
		}
	}
}

func TestSweepRemovesStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, time.Hour, nil)

	stale, err := r.Render(testRequest(), "old trip")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, stale), old, old); err != nil {
		t.Fatal(err)
	}

	// An unrelated pdf in the same directory is left alone.
	foreign := filepath.Join(dir, "keep.pdf")
	if err := os.WriteFile(foreign, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(foreign, old, old); err != nil {
		t.Fatal(err)
	}

	// The next render sweeps the stale artifact.
	fresh, err := r.Render(testRequest(), "new trip")
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}

	if _, err := r.Take(stale); !errors.Is(err, ErrNotFound) {
		t.Error("stale artifact survived the sweep")
	}
	if _, err := r.Take(fresh); err != nil {
		t.Errorf("fresh artifact must survive the sweep: %v", err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("sweep removed a file it does not own")
	}
}

func TestSafeText(t *testing.T) {
	got := safeText("**Day 1** # Kyoto 日本 café")
	if got != "Day 1  Kyoto  café" {
		t.Errorf("safeText = %q", got)
	}
}
