package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notepad-server/internal/domain"
)

type mockNoteRepo struct {
	notes map[string]*domain.Note
	fail  error
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes: make(map[string]*domain.Note),
	}
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	if m.fail != nil {
		return m.fail
	}
	m.notes[note.ID] = note.Clone()
	return nil
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	if n, exists := m.notes[id]; exists {
		return n.Clone(), nil
	}
	return nil, domain.ErrNoteNotFound
}

func (m *mockNoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var notes []*domain.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, n.Clone())
		}
	}
	return notes, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	if m.fail != nil {
		return m.fail
	}
	if _, exists := m.notes[note.ID]; !exists {
		return domain.ErrNoteNotFound
	}
	m.notes[note.ID] = note.Clone()
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) error {
	if m.fail != nil {
		return m.fail
	}
	if _, exists := m.notes[id]; !exists {
		return domain.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

type recordingPublisher struct {
	events []domain.NoteEvent
}

func (r *recordingPublisher) Publish(ctx context.Context, event domain.NoteEvent) error {
	r.events = append(r.events, event)
	return nil
}

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seedNote(repo *mockNoteRepo, id, ownerID, title string) *domain.Note {
	n := domain.NewNote(title, "body", ownerID, domain.DefaultStyle(), testTime)
	n.ID = id
	repo.notes[id] = n.Clone()
	return n
}

func TestNoteService_Create(t *testing.T) {
	repo := newMockNoteRepo()
	pub := &recordingPublisher{}
	service := NewNoteService(repo, pub)

	note := domain.NewNote("Lista", "leite", "someone-else", domain.DefaultStyle(), testTime)
	id, err := service.Create(context.Background(), "user-1", note)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, ok := repo.notes[id]
	if !ok {
		t.Fatalf("Create() note %s not stored", id)
	}
	if stored.OwnerID != "user-1" {
		t.Errorf("stored owner = %q, want user-1", stored.OwnerID)
	}
	if note.ID != "" {
		t.Error("Create() should not mutate the caller's note")
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.NoteCreated || pub.events[0].NoteID != id {
		t.Errorf("events = %+v, want one note_created for %s", pub.events, id)
	}
}

func TestNoteService_Update(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		noteID  string
		wantErr error
	}{
		{name: "owner updates", userID: "user-1", noteID: "note-1"},
		{name: "other user is rejected", userID: "user-2", noteID: "note-1", wantErr: domain.ErrForbidden},
		{name: "missing note", userID: "user-1", noteID: "nope", wantErr: domain.ErrNoteNotFound},
		{name: "missing id", userID: "user-1", noteID: "", wantErr: domain.ErrMissingNoteID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockNoteRepo()
			pub := &recordingPublisher{}
			service := NewNoteService(repo, pub)
			original := seedNote(repo, "note-1", "user-1", "Original")

			edit := original.Clone()
			edit.ID = tt.noteID
			edit.Title = "Edited"
			edit.OwnerID = "attacker"
			edit.CreatedAt = testTime.Add(time.Hour)

			err := service.Update(context.Background(), tt.userID, edit)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				if repo.notes["note-1"].Title != "Original" {
					t.Error("rejected update changed the stored note")
				}
				if len(pub.events) != 0 {
					t.Error("rejected update published an event")
				}
				return
			}

			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			stored := repo.notes["note-1"]
			if stored.Title != "Edited" {
				t.Errorf("title = %q, want Edited", stored.Title)
			}
			if stored.OwnerID != "user-1" || !stored.CreatedAt.Equal(testTime) {
				t.Error("owner and creation time must not change on update")
			}
			if len(pub.events) != 1 || pub.events[0].Type != domain.NoteUpdated {
				t.Errorf("events = %+v, want one note_updated", pub.events)
			}
		})
	}
}

func TestNoteService_Delete(t *testing.T) {
	repo := newMockNoteRepo()
	pub := &recordingPublisher{}
	service := NewNoteService(repo, pub)
	seedNote(repo, "note-1", "user-1", "Mine")

	if err := service.Delete(context.Background(), "user-2", "note-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Delete() by another user error = %v, want ErrForbidden", err)
	}
	if err := service.Delete(context.Background(), "user-1", "note-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := repo.notes["note-1"]; ok {
		t.Error("Delete() left the note in the repository")
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.NoteDeleted {
		t.Errorf("events = %+v, want one note_deleted", pub.events)
	}
}

func TestNoteService_StoreFailures(t *testing.T) {
	repo := newMockNoteRepo()
	service := NewNoteService(repo, nil)
	seedNote(repo, "note-1", "user-1", "Mine")
	repo.fail = errors.New("couchdb unavailable")

	_, err := service.ListByOwner(context.Background(), "user-1")
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "list" {
		t.Errorf("ListByOwner() error = %v, want StoreError(list)", err)
	}

	_, err = service.Create(context.Background(), "user-1", domain.NewNote("x", "", "user-1", domain.DefaultStyle(), testTime))
	if !errors.As(err, &storeErr) || storeErr.Op != "create" {
		t.Errorf("Create() error = %v, want StoreError(create)", err)
	}

	err = service.Delete(context.Background(), "user-1", "note-1")
	if !errors.As(err, &storeErr) || storeErr.Op != "delete" {
		t.Errorf("Delete() error = %v, want StoreError(delete)", err)
	}
}
