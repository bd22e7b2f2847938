package service

import (
	"context"
	"log"
	"sync"
	"time"

	"notepad-server/internal/dashboard"
	"notepad-server/internal/domain"
	"notepad-server/internal/editor"
)

// NoteStore is what a workspace needs from the document store.
type NoteStore interface {
	dashboard.NoteStore
	Get(ctx context.Context, ownerID, noteID string) (*domain.Note, error)
}

// Workspace is one signed-in user's screen state: the note list and at
// most one open editor.
type Workspace struct {
	mu        sync.Mutex
	userID    string
	dashboard *dashboard.Dashboard
	session   *editor.Session
	loaded    bool
	lastSeen  time.Time
}

type WorkspaceService struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	store      NoteStore
	renderer   editor.Renderer
	now        func() time.Time
}

func NewWorkspaceService(store NoteStore, renderer editor.Renderer) *WorkspaceService {
	return &WorkspaceService{
		workspaces: make(map[string]*Workspace),
		store:      store,
		renderer:   renderer,
		now:        time.Now,
	}
}

func (s *WorkspaceService) workspace(userID string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[userID]
	if !ok {
		ws = &Workspace{
			userID:    userID,
			dashboard: dashboard.New(userID, s.store),
		}
		s.workspaces[userID] = ws
	}
	ws.lastSeen = s.now()
	return ws
}

// Dashboard reloads the user's note list from the store. On failure the
// response still describes the (empty) list together with the error.
func (s *WorkspaceService) Dashboard(ctx context.Context, userID string) (*domain.DashboardResponse, error) {
	ws := s.workspace(userID)

	err := ws.dashboard.Load(ctx)
	ws.mu.Lock()
	ws.loaded = err == nil
	ws.mu.Unlock()

	return ws.dashboard.Response(), err
}

func (s *WorkspaceService) DeleteNote(ctx context.Context, userID, noteID string) error {
	ws := s.workspace(userID)
	if err := s.ensureLoaded(ctx, ws); err != nil {
		return err
	}

	if err := ws.dashboard.Delete(ctx, noteID); err != nil {
		return err
	}

	ws.mu.Lock()
	if ws.session != nil && ws.session.NoteID() == noteID {
		ws.session.Close()
		ws.session = nil
	}
	ws.mu.Unlock()
	return nil
}

// OpenEditor starts an editing session for noteID, or for a new note when
// noteID is empty. Any session already open is discarded.
func (s *WorkspaceService) OpenEditor(ctx context.Context, userID, noteID string) (*editor.Session, error) {
	ws := s.workspace(userID)

	var existing *domain.Note
	if noteID != "" {
		note, ok := ws.dashboard.Find(noteID)
		if !ok {
			var err error
			note, err = s.store.Get(ctx, userID, noteID)
			if err != nil {
				return nil, err
			}
		}
		existing = note
	}

	session := editor.NewSession(userID, existing, ws.dashboard, s.renderer)
	session.Subscribe(func(e editor.Event) {
		switch e.Type {
		case editor.EventSaved:
			log.Printf("[Workspace] user %s saved note %s", userID, e.Note.ID)
		case editor.EventClosed:
			log.Printf("[Workspace] user %s closed editor %s", userID, e.SessionID)
		}
	})

	ws.mu.Lock()
	previous := ws.session
	ws.session = session
	ws.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return session, nil
}

func (s *WorkspaceService) Editor(userID string) (*editor.Session, error) {
	ws := s.workspace(userID)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.session == nil || ws.session.Closed() {
		ws.session = nil
		return nil, domain.ErrNoOpenEditor
	}
	return ws.session, nil
}

// SaveEditor saves the open session and optionally closes it afterwards.
// A failed save never closes the session.
func (s *WorkspaceService) SaveEditor(ctx context.Context, userID string, closeAfter bool) (*domain.Note, editor.View, error) {
	session, err := s.Editor(userID)
	if err != nil {
		return nil, editor.View{}, err
	}

	note, err := session.Save(ctx)
	if err != nil {
		return nil, session.View(), err
	}

	view := session.View()
	if closeAfter {
		s.closeSession(userID, session)
		view.Closed = true
	}
	return note, view, nil
}

// CloseEditor discards the open session. The returned view is taken before
// closing so the caller can tell whether unsaved changes were dropped.
func (s *WorkspaceService) CloseEditor(userID string) (editor.View, error) {
	session, err := s.Editor(userID)
	if err != nil {
		return editor.View{}, err
	}

	view := session.View()
	s.closeSession(userID, session)
	return view, nil
}

// Drop forgets everything held for userID.
func (s *WorkspaceService) Drop(userID string) {
	s.mu.Lock()
	ws, ok := s.workspaces[userID]
	delete(s.workspaces, userID)
	s.mu.Unlock()

	if !ok {
		return
	}
	ws.mu.Lock()
	session := ws.session
	ws.session = nil
	ws.mu.Unlock()
	if session != nil {
		session.Close()
	}
}

// Sweep drops workspaces untouched for longer than idle and reports how
// many were dropped.
func (s *WorkspaceService) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var stale []string
	for id, ws := range s.workspaces {
		if ws.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.Drop(id)
	}
	return len(stale)
}

// StartJanitor runs Sweep every interval until ctx is done.
func (s *WorkspaceService) StartJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(idle); n > 0 {
					log.Printf("[Workspace] dropped %d idle workspaces", n)
				}
			}
		}
	}()
}

func (s *WorkspaceService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

func (s *WorkspaceService) closeSession(userID string, session *editor.Session) {
	ws := s.workspace(userID)
	ws.mu.Lock()
	if ws.session == session {
		ws.session = nil
	}
	ws.mu.Unlock()
	session.Close()
}

func (s *WorkspaceService) ensureLoaded(ctx context.Context, ws *Workspace) error {
	ws.mu.Lock()
	loaded := ws.loaded
	ws.mu.Unlock()
	if loaded {
		return nil
	}

	if err := ws.dashboard.Load(ctx); err != nil {
		return err
	}
	ws.mu.Lock()
	ws.loaded = true
	ws.mu.Unlock()
	return nil
}
