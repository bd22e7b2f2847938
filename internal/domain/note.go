package domain

import "time"

const (
	DefaultFont       = "Arial"
	DefaultColor      = "black"
	DefaultBackground = "white"

	DefaultFontSize = 16
	MinFontSize     = 8
	MaxFontSize     = 72
	FontSizeStep    = 2
)

type Note struct {
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	OwnerID    string         `json:"owner_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	History    []HistoryEntry `json:"history"`
	Font       string         `json:"font"`
	Color      string         `json:"color"`
	Background string         `json:"background"`
	FontSize   *int           `json:"font_size,omitempty"`
}

// NewNote builds an unsaved note. The history is seeded with the initial
// title and content so the first saved version is immediately navigable.
func NewNote(title, content, ownerID string, style Style, now time.Time) *Note {
	size := ClampFontSize(style.FontSize)
	return &Note{
		Title:      title,
		Content:    content,
		OwnerID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
		History:    []HistoryEntry{{Title: title, Content: content, UpdatedAt: now}},
		Font:       style.Font,
		Color:      style.Color,
		Background: style.Background,
		FontSize:   &size,
	}
}

func (n *Note) Clone() *Note {
	c := *n
	c.History = append([]HistoryEntry(nil), n.History...)
	if n.FontSize != nil {
		size := *n.FontSize
		c.FontSize = &size
	}
	return &c
}

// Style returns the note's presentation attributes, falling back to the
// defaults for anything left empty.
func (n *Note) Style() Style {
	s := DefaultStyle()
	if n.Font != "" {
		s.Font = n.Font
	}
	if n.Color != "" {
		s.Color = n.Color
	}
	if n.Background != "" {
		s.Background = n.Background
	}
	if n.FontSize != nil {
		s.FontSize = ClampFontSize(*n.FontSize)
	}
	return s
}

func (n *Note) ApplyStyle(s Style) {
	size := ClampFontSize(s.FontSize)
	n.Font = s.Font
	n.Color = s.Color
	n.Background = s.Background
	n.FontSize = &size
}

type Style struct {
	Font       string `json:"font"`
	Color      string `json:"color"`
	Background string `json:"background"`
	FontSize   int    `json:"font_size"`
}

func DefaultStyle() Style {
	return Style{
		Font:       DefaultFont,
		Color:      DefaultColor,
		Background: DefaultBackground,
		FontSize:   DefaultFontSize,
	}
}

// ClampFontSize keeps a size inside [MinFontSize, MaxFontSize]. Zero means
// unset and yields the default.
func ClampFontSize(size int) int {
	switch {
	case size == 0:
		return DefaultFontSize
	case size < MinFontSize:
		return MinFontSize
	case size > MaxFontSize:
		return MaxFontSize
	}
	return size
}

type NoteSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Date      string    `json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteEventType string

const (
	NoteCreated NoteEventType = "note_created"
	NoteUpdated NoteEventType = "note_updated"
	NoteDeleted NoteEventType = "note_deleted"
)

type NoteEvent struct {
	Type      NoteEventType `json:"type"`
	NoteID    string        `json:"note_id"`
	OwnerID   string        `json:"owner_id"`
	UpdatedAt time.Time     `json:"updated_at"`
}
