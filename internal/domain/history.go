package domain

import "time"

// HistoryEntry is a superseded title/content pair. Style is not versioned.
type HistoryEntry struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
