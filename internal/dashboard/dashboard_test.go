package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"notepad-server/internal/domain"
)

type mockNoteStore struct {
	notes   map[string]*domain.Note
	nextID  int
	fail    error
	deletes int
}

func newMockNoteStore(notes ...*domain.Note) *mockNoteStore {
	m := &mockNoteStore{notes: make(map[string]*domain.Note)}
	for _, n := range notes {
		m.notes[n.ID] = n.Clone()
	}
	return m
}

func (m *mockNoteStore) Create(ctx context.Context, ownerID string, note *domain.Note) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	m.nextID++
	id := fmt.Sprintf("note-%d", m.nextID)
	saved := note.Clone()
	saved.ID = id
	m.notes[id] = saved
	return id, nil
}

func (m *mockNoteStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []*domain.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (m *mockNoteStore) Update(ctx context.Context, ownerID string, note *domain.Note) error {
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.notes[note.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	m.notes[note.ID] = note.Clone()
	return nil
}

func (m *mockNoteStore) Delete(ctx context.Context, ownerID, noteID string) error {
	m.deletes++
	if m.fail != nil {
		return m.fail
	}
	delete(m.notes, noteID)
	return nil
}

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func note(id, title string, daysAgo int) *domain.Note {
	n := domain.NewNote(title, "content of "+title, "user-1", domain.DefaultStyle(), base.AddDate(0, 0, -daysAgo))
	n.ID = id
	return n
}

func ids(notes []*domain.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.ID
	}
	return strings.Join(parts, ",")
}

func TestDashboard_LoadSortsNewestFirst(t *testing.T) {
	store := newMockNoteStore(note("old", "Old", 10), note("new", "New", 0), note("mid", "Mid", 3))
	other := note("foreign", "Foreign", 0)
	other.OwnerID = "user-2"
	store.notes[other.ID] = other

	d := New("user-1", store)
	if !d.Loading() {
		t.Error("dashboard should report loading before the first load")
	}

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Loading() {
		t.Error("loading flag should clear after load")
	}
	if got := ids(d.Notes()); got != "new,mid,old" {
		t.Errorf("Notes() order = %s, want new,mid,old", got)
	}
}

func TestDashboard_LoadFailureLeavesEmptyList(t *testing.T) {
	store := newMockNoteStore(note("a", "A", 0))
	store.fail = errors.New("connection refused")

	d := New("user-1", store)
	err := d.Load(context.Background())

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Load() error = %v, want StoreError", err)
	}
	if d.Loading() {
		t.Error("loading flag should clear after a failed load")
	}
	if len(d.Notes()) != 0 {
		t.Errorf("Notes() = %d entries, want 0", len(d.Notes()))
	}
	if resp := d.Response(); resp.Error == "" {
		t.Error("Response() should carry the load error")
	}
}

func TestDashboard_CreateInsertsAtFront(t *testing.T) {
	store := newMockNoteStore(note("a", "A", 1))
	d := New("user-1", store)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	n := domain.NewNote("Fresh", "", "user-1", domain.DefaultStyle(), base)
	id, err := d.Create(context.Background(), n)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned an empty id")
	}
	if n.ID != "" {
		t.Error("Create() should not mutate the caller's note")
	}
	if got := ids(d.Notes()); got != id+",a" {
		t.Errorf("Notes() order = %s, want %s,a", got, id)
	}
}

func TestDashboard_UpdateReplacesAndResorts(t *testing.T) {
	store := newMockNoteStore(note("a", "A", 2), note("b", "B", 1))
	d := New("user-1", store)
	_ = d.Load(context.Background())

	edited, _ := d.Find("a")
	edited.Title = "A edited"
	edited.UpdatedAt = base.Add(time.Hour)

	if err := d.Update(context.Background(), edited); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	notes := d.Notes()
	if got := ids(notes); got != "a,b" {
		t.Errorf("Notes() order = %s, want a,b", got)
	}
	if notes[0].Title != "A edited" {
		t.Errorf("title = %q, want %q", notes[0].Title, "A edited")
	}
}

func TestDashboard_StoreFailureKeepsList(t *testing.T) {
	store := newMockNoteStore(note("a", "A", 0))
	d := New("user-1", store)
	_ = d.Load(context.Background())
	store.fail = errors.New("timeout")

	if _, err := d.Create(context.Background(), domain.NewNote("X", "", "user-1", domain.DefaultStyle(), base)); err == nil {
		t.Error("Create() should fail")
	}

	edited, _ := d.Find("a")
	edited.Title = "changed"
	if err := d.Update(context.Background(), edited); err == nil {
		t.Error("Update() should fail")
	}

	err := d.Delete(context.Background(), "a")
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Errorf("Delete() error = %v, want StoreError", err)
	}

	notes := d.Notes()
	if len(notes) != 1 || notes[0].Title != "A" {
		t.Errorf("list changed after failed store calls: %+v", notes)
	}
}

func TestDashboard_Delete(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantIDs     string
		wantDeletes int
	}{
		{name: "known note", id: "a", wantIDs: "b", wantDeletes: 1},
		{name: "unknown note is ignored", id: "missing", wantIDs: "a,b", wantDeletes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockNoteStore(note("a", "A", 0), note("b", "B", 1))
			d := New("user-1", store)
			_ = d.Load(context.Background())

			if err := d.Delete(context.Background(), tt.id); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if got := ids(d.Notes()); got != tt.wantIDs {
				t.Errorf("Notes() = %s, want %s", got, tt.wantIDs)
			}
			if store.deletes != tt.wantDeletes {
				t.Errorf("store deletes = %d, want %d", store.deletes, tt.wantDeletes)
			}
		})
	}
}

func TestDashboard_Items(t *testing.T) {
	long := strings.Repeat("á", 120)
	n := note("a", "Long", 0)
	n.Content = long
	n.UpdatedAt = time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)

	d := New("user-1", newMockNoteStore(n))
	_ = d.Load(context.Background())

	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("Items() = %d entries, want 1", len(items))
	}
	if want := strings.Repeat("á", 100) + "..."; items[0].Preview != want {
		t.Errorf("preview = %q, want %q", items[0].Preview, want)
	}
	if items[0].Date != "05/03/2024" {
		t.Errorf("date = %q, want 05/03/2024", items[0].Date)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"", 5, ""},
		{"short", 5, "short"},
		{"longer", 5, "longe..."},
		{"😀😀😀", 2, "😀😀..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
