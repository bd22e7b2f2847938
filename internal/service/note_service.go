package service

import (
	"context"
	"errors"
	"log"

	"notepad-server/internal/domain"
	"notepad-server/internal/events"
	"notepad-server/internal/repository"

	"github.com/google/uuid"
)

// NoteService is the document store seen by dashboards and editor
// sessions. Every mutation checks ownership and announces itself through
// the publisher once the repository call succeeded.
type NoteService struct {
	repo      repository.NoteRepository
	publisher events.Publisher
}

func NewNoteService(repo repository.NoteRepository, publisher events.Publisher) *NoteService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &NoteService{
		repo:      repo,
		publisher: publisher,
	}
}

// Create stores note under ownerID and returns the id assigned to it.
func (s *NoteService) Create(ctx context.Context, ownerID string, note *domain.Note) (string, error) {
	stored := note.Clone()
	stored.ID = uuid.New().String()
	stored.OwnerID = ownerID

	if err := s.repo.Create(ctx, stored); err != nil {
		return "", storeFailure("create", err)
	}

	s.publish(ctx, domain.NoteCreated, stored)
	return stored.ID, nil
}

func (s *NoteService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure("list", err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	if noteID == "" {
		return nil, domain.ErrMissingNoteID
	}

	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		return nil, storeFailure("get", err)
	}

	if note.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	return note, nil
}

// Update replaces the stored note. The owner and creation time of the
// stored copy always win over what the caller sent.
func (s *NoteService) Update(ctx context.Context, ownerID string, note *domain.Note) error {
	existing, err := s.Get(ctx, ownerID, note.ID)
	if err != nil {
		return err
	}

	stored := note.Clone()
	stored.OwnerID = existing.OwnerID
	stored.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, stored); err != nil {
		return storeFailure("update", err)
	}

	s.publish(ctx, domain.NoteUpdated, stored)
	return nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	existing, err := s.Get(ctx, ownerID, noteID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, noteID); err != nil {
		return storeFailure("delete", err)
	}

	s.publish(ctx, domain.NoteDeleted, existing)
	return nil
}

func (s *NoteService) publish(ctx context.Context, eventType domain.NoteEventType, note *domain.Note) {
	event := domain.NoteEvent{
		Type:      eventType,
		NoteID:    note.ID,
		OwnerID:   note.OwnerID,
		UpdatedAt: note.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Notes] failed to publish %s for %s: %v", eventType, note.ID, err)
	}
}

// storeFailure keeps not-found errors recognizable and marks everything
// else as a failed store call.
func storeFailure(op string, err error) error {
	if errors.Is(err, domain.ErrNoteNotFound) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
