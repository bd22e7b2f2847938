// Package history tracks a cursor over a note's append-only history log.
//
// The cursor ranges over [0, Len()]. Index Len() means the latest saved
// state is being viewed; any smaller index views History[index]. Stepping
// only changes what is visible; the log and the latest saved pair are
// written exclusively by Commit and Reset.
package history

import (
	"errors"

	"notepad-server/internal/domain"
)

// ErrFirstVersion is returned when stepping back from the oldest entry.
var ErrFirstVersion = errors.New("esta é a primeira versão")

// Snapshot is the title/content pair made visible by a step.
type Snapshot struct {
	Title   string
	Content string
}

type Navigator struct {
	entries       []domain.HistoryEntry
	index         int
	latestTitle   string
	latestContent string
}

func New(entries []domain.HistoryEntry, latestTitle, latestContent string) *Navigator {
	n := &Navigator{}
	n.Reset(entries, latestTitle, latestContent)
	return n
}

// Reset replaces the log and moves the cursor to the latest state.
func (n *Navigator) Reset(entries []domain.HistoryEntry, latestTitle, latestContent string) {
	n.entries = append([]domain.HistoryEntry(nil), entries...)
	n.index = len(n.entries)
	n.latestTitle = latestTitle
	n.latestContent = latestContent
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return len(n.entries) }

func (n *Navigator) AtLatest() bool { return n.index == len(n.entries) }

func (n *Navigator) CanStepBack() bool { return n.index > 0 }

func (n *Navigator) CanStepForward() bool { return n.index < len(n.entries) }

func (n *Navigator) Latest() Snapshot {
	return Snapshot{Title: n.latestTitle, Content: n.latestContent}
}

func (n *Navigator) Entries() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), n.entries...)
}

func (n *Navigator) StepBack() (Snapshot, error) {
	if n.index == 0 {
		return Snapshot{}, ErrFirstVersion
	}
	n.index--
	e := n.entries[n.index]
	return Snapshot{Title: e.Title, Content: e.Content}, nil
}

// StepForward reports false and leaves the cursor alone when already at
// the latest state.
func (n *Navigator) StepForward() (Snapshot, bool) {
	if n.index >= len(n.entries) {
		return Snapshot{}, false
	}
	n.index++
	if n.index == len(n.entries) {
		return n.Latest(), true
	}
	e := n.entries[n.index]
	return Snapshot{Title: e.Title, Content: e.Content}, true
}

// Commit appends the archived state and makes (title, content) the latest
// saved pair, regardless of which entry was being viewed.
func (n *Navigator) Commit(archived domain.HistoryEntry, title, content string) {
	n.entries = append(n.entries, archived)
	n.index = len(n.entries)
	n.latestTitle = title
	n.latestContent = content
}
