package history

import (
	"errors"
	"testing"
	"time"

	"notepad-server/internal/domain"

	"pgregory.net/rapid"
)

func entry(title, content string, minute int) domain.HistoryEntry {
	return domain.HistoryEntry{
		Title:     title,
		Content:   content,
		UpdatedAt: time.Date(2024, 1, 1, 10, minute, 0, 0, time.UTC),
	}
}

func TestNavigator_New(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("a", "1", 0), entry("a", "2", 1)}, "a", "3")

	if nav.Index() != 2 {
		t.Errorf("expected index 2, got %d", nav.Index())
	}
	if !nav.AtLatest() {
		t.Error("expected navigator to start at latest")
	}
	if nav.CanStepForward() {
		t.Error("expected forward to be disabled at latest")
	}
	if !nav.CanStepBack() {
		t.Error("expected back to be enabled")
	}
}

func TestNavigator_StepBackAndForward(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("t0", "c0", 0), entry("t1", "c1", 1)}, "t2", "c2")

	tests := []struct {
		name      string
		step      func() (Snapshot, error)
		wantTitle string
		wantIndex int
	}{
		{"back to t1", nav.StepBack, "t1", 1},
		{"back to t0", nav.StepBack, "t0", 0},
		{"forward to t1", func() (Snapshot, error) { s, _ := nav.StepForward(); return s, nil }, "t1", 1},
		{"forward to latest", func() (Snapshot, error) { s, _ := nav.StepForward(); return s, nil }, "t2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := tt.step()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snap.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, snap.Title)
			}
			if nav.Index() != tt.wantIndex {
				t.Errorf("expected index %d, got %d", tt.wantIndex, nav.Index())
			}
		})
	}
}

func TestNavigator_StepBackAtFirstVersion(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("t0", "c0", 0)}, "t1", "c1")

	if _, err := nav.StepBack(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := nav.StepBack()
	if !errors.Is(err, ErrFirstVersion) {
		t.Fatalf("expected ErrFirstVersion, got %v", err)
	}
	if nav.Index() != 0 {
		t.Errorf("expected index to stay at 0, got %d", nav.Index())
	}
	if nav.Len() != 1 {
		t.Errorf("expected log length 1, got %d", nav.Len())
	}
}

func TestNavigator_StepForwardAtLatestIsNoop(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("t0", "c0", 0)}, "t1", "c1")

	snap, moved := nav.StepForward()
	if moved {
		t.Error("expected no movement at latest")
	}
	if snap != (Snapshot{}) {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if nav.Index() != 1 {
		t.Errorf("expected index 1, got %d", nav.Index())
	}
}

func TestNavigator_EmptyLog(t *testing.T) {
	nav := New(nil, "", "")

	if nav.CanStepBack() || nav.CanStepForward() {
		t.Error("expected both directions disabled on an empty log")
	}
	if _, err := nav.StepBack(); !errors.Is(err, ErrFirstVersion) {
		t.Errorf("expected ErrFirstVersion, got %v", err)
	}
}

func TestNavigator_CommitWhileBrowsing(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("t0", "c0", 0), entry("t1", "c1", 1)}, "t2", "c2")
	nav.StepBack()
	nav.StepBack()

	archived := entry("t2", "c2", 2)
	nav.Commit(archived, "t3", "c3")

	if nav.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", nav.Len())
	}
	if nav.Index() != 3 {
		t.Errorf("expected index reset to 3, got %d", nav.Index())
	}
	if got := nav.Entries()[2]; got != archived {
		t.Errorf("expected archived entry %+v, got %+v", archived, got)
	}
	if nav.Latest() != (Snapshot{Title: "t3", Content: "c3"}) {
		t.Errorf("unexpected latest %+v", nav.Latest())
	}
}

func TestNavigator_EntriesIsCopy(t *testing.T) {
	nav := New([]domain.HistoryEntry{entry("t0", "c0", 0)}, "t1", "c1")

	got := nav.Entries()
	got[0].Title = "mutated"

	if nav.Entries()[0].Title != "t0" {
		t.Error("expected Entries to return a copy")
	}
}

func testNavigator_Properties(t *rapid.T) {
	size := rapid.IntRange(0, 8).Draw(t, "size")
	entries := make([]domain.HistoryEntry, size)
	for i := range entries {
		entries[i] = entry(rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "title"), rapid.String().Draw(t, "content"), i)
	}
	latestTitle := rapid.StringMatching(`[A-Z]{1,5}`).Draw(t, "latestTitle")
	latestContent := rapid.String().Draw(t, "latestContent")

	nav := New(entries, latestTitle, latestContent)

	steps := rapid.SliceOf(rapid.Bool()).Draw(t, "steps")
	for _, back := range steps {
		before := nav.Index()
		if back {
			_, err := nav.StepBack()
			if before == 0 && (err == nil || nav.Index() != 0) {
				t.Fatalf("step back at 0 must fail and keep index, got index %d err %v", nav.Index(), err)
			}
		} else {
			_, moved := nav.StepForward()
			if before == size && (moved || nav.Index() != size) {
				t.Fatalf("step forward at latest must be a no-op, got index %d", nav.Index())
			}
		}
		if nav.Index() < 0 || nav.Index() > size {
			t.Fatalf("index %d out of [0, %d]", nav.Index(), size)
		}
		if nav.Len() != size {
			t.Fatalf("log length changed from %d to %d", size, nav.Len())
		}
	}

	// Walking forward from anywhere always lands back on the latest saved pair.
	stepped := false
	var last Snapshot
	for {
		snap, moved := nav.StepForward()
		if !moved {
			break
		}
		stepped, last = true, snap
	}
	if !nav.AtLatest() {
		t.Fatalf("expected to end at latest, got %d", nav.Index())
	}
	if stepped && last != nav.Latest() {
		t.Fatalf("expected latest snapshot %+v, got %+v", nav.Latest(), last)
	}
}

func TestNavigator_Properties(t *testing.T) {
	rapid.Check(t, testNavigator_Properties)
}
