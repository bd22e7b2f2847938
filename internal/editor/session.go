// Package editor holds the draft of a single note while it is being edited.
//
// A Session owns the draft title, content and style, the preview flag and
// the version cursor. Saving archives the persisted state into the note's
// history and hands the new note to a Saver; nothing local changes unless
// the Saver succeeds.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"notepad-server/internal/domain"
	"notepad-server/internal/format"
	"notepad-server/internal/history"

	"github.com/google/uuid"
)

const NoticeFirstVersion = "Esta é a primeira versão."

type Saver interface {
	Create(ctx context.Context, note *domain.Note) (string, error)
	Update(ctx context.Context, note *domain.Note) error
}

type Renderer interface {
	Render(markdown string) string
}

type EventType string

const (
	EventChanged EventType = "changed"
	EventSaved   EventType = "saved"
	EventClosed  EventType = "closed"
)

type Event struct {
	Type      EventType
	SessionID string
	Note      *domain.Note
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

type Session struct {
	mu sync.Mutex

	id        string
	ownerID   string
	persisted *domain.Note

	title    string
	content  string
	style    domain.Style
	preview  bool
	selStart int
	selEnd   int

	nav    *history.Navigator
	notice string
	saving bool
	closed bool

	saver     Saver
	renderer  Renderer
	now       func() time.Time
	listeners []func(Event)
}

// NewSession seeds a draft from existing, or a blank draft with the default
// style when existing is nil.
func NewSession(ownerID string, existing *domain.Note, saver Saver, renderer Renderer, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New().String(),
		ownerID:  ownerID,
		saver:    saver,
		renderer: renderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if existing != nil {
		s.persisted = existing.Clone()
		s.title = existing.Title
		s.content = existing.Content
		s.style = existing.Style()
		s.nav = history.New(existing.History, existing.Title, existing.Content)
	} else {
		s.style = domain.DefaultStyle()
		s.nav = history.New(nil, "", "")
	}

	return s
}

func (s *Session) ID() string {
	return s.id
}

// NoteID is empty until the draft has been saved once.
func (s *Session) NoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted == nil {
		return ""
	}
	return s.persisted.ID
}

func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) UpdateTitle(text string) error {
	return s.mutate(func() {
		s.title = text
	})
}

func (s *Session) UpdateContent(text string) error {
	return s.mutate(func() {
		s.content = text
		n := format.UTF16Len(text)
		s.selStart = min(s.selStart, n)
		s.selEnd = min(s.selEnd, n)
	})
}

func (s *Session) SetFont(name string) error {
	return s.mutate(func() {
		s.style.Font = name
	})
}

func (s *Session) SetColor(name string) error {
	return s.mutate(func() {
		s.style.Color = name
	})
}

func (s *Session) SetBackground(name string) error {
	return s.mutate(func() {
		s.style.Background = name
	})
}

func (s *Session) IncreaseFontSize() error {
	return s.mutate(func() {
		s.style.FontSize = min(s.style.FontSize+domain.FontSizeStep, domain.MaxFontSize)
	})
}

func (s *Session) DecreaseFontSize() error {
	return s.mutate(func() {
		s.style.FontSize = max(s.style.FontSize-domain.FontSizeStep, domain.MinFontSize)
	})
}

func (s *Session) TogglePreview() error {
	return s.mutate(func() {
		s.preview = !s.preview
	})
}

// ApplyFormat toggles marker around the UTF-16 selection in the content.
func (s *Session) ApplyFormat(selStart, selEnd int, marker format.Marker) (format.Result, error) {
	var res format.Result
	err := s.mutate(func() {
		res = format.ToggleWrap(s.content, selStart, selEnd, marker)
		s.content = res.Text
		s.selStart = res.SelStart
		s.selEnd = res.SelEnd
	})
	return res, err
}

// StepBack shows the previous history entry. At the oldest entry the
// session keeps its state and records a notice.
func (s *Session) StepBack() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	snap, err := s.nav.StepBack()
	if err != nil {
		s.notice = NoticeFirstVersion
		s.mu.Unlock()
		return err
	}
	s.show(snap)
	s.mu.Unlock()

	s.emit(Event{Type: EventChanged, SessionID: s.id})
	return nil
}

// StepForward reports whether the cursor moved; at the latest state it is
// a no-op.
func (s *Session) StepForward() (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, domain.ErrSessionClosed
	}
	snap, moved := s.nav.StepForward()
	if moved {
		s.show(snap)
	}
	s.mu.Unlock()

	if moved {
		s.emit(Event{Type: EventChanged, SessionID: s.id})
	}
	return moved, nil
}

// Save validates the draft and persists it. The previously persisted
// title/content become a new history entry; the draft becomes the latest
// version whichever entry was on screen.
func (s *Session) Save(ctx context.Context) (*domain.Note, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if s.saving {
		s.mu.Unlock()
		return nil, domain.ErrSaveInProgress
	}
	if strings.TrimSpace(s.title) == "" {
		s.notice = domain.ErrEmptyTitle.Error()
		s.mu.Unlock()
		return nil, domain.ErrEmptyTitle
	}

	now := s.now()
	var outgoing *domain.Note
	var archived domain.HistoryEntry
	if s.persisted != nil {
		archived = domain.HistoryEntry{
			Title:     s.persisted.Title,
			Content:   s.persisted.Content,
			UpdatedAt: s.persisted.UpdatedAt,
		}
		if now.Before(s.persisted.UpdatedAt) {
			now = s.persisted.UpdatedAt
		}
		outgoing = s.persisted.Clone()
		outgoing.Title = s.title
		outgoing.Content = s.content
		outgoing.UpdatedAt = now
		outgoing.ApplyStyle(s.style)
		outgoing.History = append(outgoing.History, archived)
	} else {
		outgoing = domain.NewNote(s.title, s.content, s.ownerID, s.style, now)
	}
	s.saving = true
	s.mu.Unlock()

	op := "update"
	var err error
	if outgoing.ID != "" {
		err = s.saver.Update(ctx, outgoing)
	} else {
		op = "create"
		var id string
		id, err = s.saver.Create(ctx, outgoing)
		outgoing.ID = id
	}

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			return nil, err
		}
		return nil, &domain.StoreError{Op: op, Err: err}
	}

	if s.persisted == nil {
		s.nav.Reset(outgoing.History, outgoing.Title, outgoing.Content)
	} else {
		s.nav.Commit(archived, outgoing.Title, outgoing.Content)
	}
	s.persisted = outgoing
	s.notice = ""
	saved := outgoing.Clone()
	s.mu.Unlock()

	s.emit(Event{Type: EventSaved, SessionID: s.id, Note: saved.Clone()})
	return saved, nil
}

// Close drops the draft without asking. View().Dirty tells the caller
// whether anything would be lost.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.title, s.content = "", ""
	s.preview = false
	s.notice = ""
	s.mu.Unlock()

	s.emit(Event{Type: EventClosed, SessionID: s.id})
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// History returns a copy of the persisted history log.
func (s *Session) History() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Entries()
}

type View struct {
	SessionID      string       `json:"session_id"`
	NoteID         string       `json:"note_id,omitempty"`
	Heading        string       `json:"heading"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	Style          domain.Style `json:"style"`
	CSS            string       `json:"css"`
	Preview        bool         `json:"preview"`
	PreviewHTML    string       `json:"preview_html,omitempty"`
	VersionIndex   int          `json:"version_index"`
	HistoryLen     int          `json:"history_len"`
	CanStepBack    bool         `json:"can_step_back"`
	CanStepForward bool         `json:"can_step_forward"`
	SelStart       int          `json:"sel_start"`
	SelEnd         int          `json:"sel_end"`
	CharCount      int          `json:"char_count"`
	Dirty          bool         `json:"dirty"`
	Saving         bool         `json:"saving"`
	Closed         bool         `json:"closed"`
	Notice         string       `json:"notice,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:      s.id,
		Heading:        "Nova Nota",
		Title:          s.title,
		Content:        s.content,
		Style:          s.style,
		CSS:            styleCSS(s.style),
		Preview:        s.preview,
		VersionIndex:   s.nav.Index(),
		HistoryLen:     s.nav.Len(),
		CanStepBack:    s.nav.CanStepBack(),
		CanStepForward: s.nav.CanStepForward(),
		SelStart:       s.selStart,
		SelEnd:         s.selEnd,
		CharCount:      utf8.RuneCountInString(s.content),
		Dirty:          s.dirty(),
		Saving:         s.saving,
		Closed:         s.closed,
		Notice:         s.notice,
	}
	if s.persisted != nil {
		v.NoteID = s.persisted.ID
		v.Heading = "Editar Nota"
	}
	if s.preview && s.renderer != nil {
		v.PreviewHTML = s.renderer.Render(s.content)
	}
	return v
}

func (s *Session) mutate(fn func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	fn()
	s.notice = ""
	s.mu.Unlock()

	s.emit(Event{Type: EventChanged, SessionID: s.id})
	return nil
}

func (s *Session) show(snap history.Snapshot) {
	s.title = snap.Title
	s.content = snap.Content
	s.selStart, s.selEnd = 0, 0
	s.notice = ""
}

func (s *Session) dirty() bool {
	if s.closed {
		return false
	}
	if s.persisted == nil {
		return s.title != "" || s.content != "" || s.style != domain.DefaultStyle()
	}
	latest := s.nav.Latest()
	return s.title != latest.Title || s.content != latest.Content || s.style != s.persisted.Style()
}

func (s *Session) emit(e Event) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}

func styleCSS(st domain.Style) string {
	return fmt.Sprintf("font-family: %s; color: %s; background: %s; font-size: %dpx;",
		cssValue(st.Font), cssValue(st.Color), cssValue(st.Background), st.FontSize)
}

// cssValue keeps a free-form style value from closing the declaration.
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, v)
}
