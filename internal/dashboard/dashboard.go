// Package dashboard keeps a user's note list in sync with the document
// store. The list only changes after the store call it mirrors succeeds.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"unicode/utf8"

	"notepad-server/internal/domain"
)

const previewLength = 100

type NoteStore interface {
	Create(ctx context.Context, ownerID string, note *domain.Note) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error)
	Update(ctx context.Context, ownerID string, note *domain.Note) error
	Delete(ctx context.Context, ownerID, noteID string) error
}

type Dashboard struct {
	mu      sync.Mutex
	ownerID string
	store   NoteStore
	notes   []*domain.Note
	loading bool
	lastErr error
}

func New(ownerID string, store NoteStore) *Dashboard {
	return &Dashboard{
		ownerID: ownerID,
		store:   store,
		loading: true,
	}
}

// Load replaces the list with the owner's notes, newest first. On failure
// the list is left empty.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	notes, err := d.store.ListByOwner(ctx, d.ownerID)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		log.Printf("[Dashboard] failed to load notes for %s: %v", d.ownerID, err)
		d.notes = nil
		d.lastErr = storeError("list", err)
		return d.lastErr
	}

	d.notes = make([]*domain.Note, 0, len(notes))
	for _, n := range notes {
		d.notes = append(d.notes, n.Clone())
	}
	sortNewestFirst(d.notes)
	d.lastErr = nil
	return nil
}

func (d *Dashboard) Create(ctx context.Context, note *domain.Note) (string, error) {
	id, err := d.store.Create(ctx, d.ownerID, note)
	if err != nil {
		return "", storeError("create", err)
	}

	saved := note.Clone()
	saved.ID = id

	d.mu.Lock()
	d.notes = append([]*domain.Note{saved}, d.notes...)
	d.mu.Unlock()

	return id, nil
}

func (d *Dashboard) Update(ctx context.Context, note *domain.Note) error {
	if err := d.store.Update(ctx, d.ownerID, note); err != nil {
		return storeError("update", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	replaced := false
	for i, n := range d.notes {
		if n.ID == note.ID {
			d.notes[i] = note.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		d.notes = append(d.notes, note.Clone())
	}
	sortNewestFirst(d.notes)
	return nil
}

// Delete removes a note the list knows about. Unknown ids are ignored.
func (d *Dashboard) Delete(ctx context.Context, noteID string) error {
	if _, ok := d.Find(noteID); !ok {
		log.Printf("[Dashboard] delete ignored, note %s is not listed", noteID)
		return nil
	}

	if err := d.store.Delete(ctx, d.ownerID, noteID); err != nil {
		return storeError("delete", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.notes[:0]
	for _, n := range d.notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	d.notes = kept
	return nil
}

func (d *Dashboard) Find(noteID string) (*domain.Note, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.notes {
		if n.ID == noteID {
			return n.Clone(), true
		}
	}
	return nil, false
}

func (d *Dashboard) Notes() []*domain.Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.Note, len(d.notes))
	for i, n := range d.notes {
		out[i] = n.Clone()
	}
	return out
}

func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

func (d *Dashboard) Items() []domain.NoteSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	items := make([]domain.NoteSummary, len(d.notes))
	for i, n := range d.notes {
		items[i] = domain.NoteSummary{
			ID:        n.ID,
			Title:     n.Title,
			Preview:   Truncate(n.Content, previewLength),
			Date:      FormatDate(n),
			UpdatedAt: n.UpdatedAt,
		}
	}
	return items
}

func (d *Dashboard) Response() *domain.DashboardResponse {
	resp := &domain.DashboardResponse{
		Loading: d.Loading(),
		Notes:   d.Items(),
	}
	d.mu.Lock()
	if d.lastErr != nil {
		resp.Error = "Erro ao carregar notas"
	}
	d.mu.Unlock()
	return resp
}

// Truncate cuts s to max characters and marks the cut with "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

func FormatDate(n *domain.Note) string {
	return n.UpdatedAt.Local().Format("02/01/2006")
}

func sortNewestFirst(notes []*domain.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

func storeError(op string, err error) error {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &domain.StoreError{Op: op, Err: fmt.Errorf("failed to %s note: %w", op, err)}
}
