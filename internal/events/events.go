// Package events announces changes to a user's note list. Events only say
// that something changed; subscribers reload from the store.
package events

import (
	"context"
	"log"

	"notepad-server/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.NoteEvent) error
}

type originKey struct{}

// WithOrigin tags ctx with the client connection that caused a change so
// that connection is not notified about its own write.
func WithOrigin(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, clientID)
}

func OriginFrom(ctx context.Context) string {
	id, _ := ctx.Value(originKey{}).(string)
	return id
}

// Fanout delivers to every publisher. A failing publisher is logged and
// does not stop the others.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event domain.NoteEvent) error {
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			log.Printf("[Events] publish %s for note %s failed: %v", event.Type, event.NoteID, err)
		}
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.NoteEvent) error { return nil }

// Nop discards events.
func Nop() Publisher {
	return nopPublisher{}
}
