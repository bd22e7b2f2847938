package events

import (
	"context"
	"fmt"

	"notepad-server/internal/domain"
	"notepad-server/internal/websocket"
)

type Broadcaster interface {
	BroadcastToUser(userID string, message *websocket.Message, excludeClientID string) error
}

type wsPublisher struct {
	hub Broadcaster
}

func NewWebSocketPublisher(hub Broadcaster) Publisher {
	return &wsPublisher{hub: hub}
}

func (p *wsPublisher) Publish(ctx context.Context, event domain.NoteEvent) error {
	msg, err := websocket.NewMessage(messageType(event.Type), websocket.NotePayload{
		NoteID:    event.NoteID,
		UpdatedAt: event.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to build websocket message: %w", err)
	}

	return p.hub.BroadcastToUser(event.OwnerID, msg, OriginFrom(ctx))
}

func messageType(t domain.NoteEventType) websocket.MessageType {
	switch t {
	case domain.NoteCreated:
		return websocket.TypeNoteCreated
	case domain.NoteDeleted:
		return websocket.TypeNoteDeleted
	default:
		return websocket.TypeNoteUpdated
	}
}
