package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"notepad-server/internal/domain"
	"notepad-server/internal/websocket"

	"github.com/streadway/amqp"
)

type recordingPublisher struct {
	events []domain.NoteEvent
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, event domain.NoteEvent) error {
	r.events = append(r.events, event)
	return r.err
}

type mockBroadcaster struct {
	userID  string
	exclude string
	message *websocket.Message
}

func (m *mockBroadcaster) BroadcastToUser(userID string, message *websocket.Message, excludeClientID string) error {
	m.userID = userID
	m.exclude = excludeClientID
	m.message = message
	return nil
}

type mockChannel struct {
	queue string
	msgs  []amqp.Publishing
}

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	m.queue = key
	m.msgs = append(m.msgs, msg)
	return nil
}

var event = domain.NoteEvent{
	Type:      domain.NoteDeleted,
	NoteID:    "note-1",
	OwnerID:   "user-1",
	UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
}

func TestFanout_ContinuesPastFailures(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	healthy := &recordingPublisher{}

	if err := (Fanout{failing, nil, healthy}).Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(failing.events) != 1 || len(healthy.events) != 1 {
		t.Errorf("deliveries = %d/%d, want 1/1", len(failing.events), len(healthy.events))
	}
}

func TestWebSocketPublisher(t *testing.T) {
	hub := &mockBroadcaster{}
	ctx := WithOrigin(context.Background(), "tab-a")

	if err := NewWebSocketPublisher(hub).Publish(ctx, event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if hub.userID != "user-1" || hub.exclude != "tab-a" {
		t.Errorf("broadcast to %q excluding %q, want user-1 excluding tab-a", hub.userID, hub.exclude)
	}
	if hub.message.Type != websocket.TypeNoteDeleted {
		t.Errorf("message type = %s, want %s", hub.message.Type, websocket.TypeNoteDeleted)
	}
}

func TestAMQPPublisher(t *testing.T) {
	ch := &mockChannel{}
	p := NewAMQPPublisher(ch, "note_events")

	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if ch.queue != "note_events" || len(ch.msgs) != 1 {
		t.Fatalf("published %d messages to %q", len(ch.msgs), ch.queue)
	}
	msg := ch.msgs[0]
	if msg.DeliveryMode != amqp.Persistent {
		t.Error("note events should be persistent")
	}

	var got domain.NoteEvent
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if got.NoteID != "note-1" || got.Type != domain.NoteDeleted {
		t.Errorf("body = %+v", got)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() without a connection error = %v", err)
	}
}

func TestOrigin(t *testing.T) {
	if got := OriginFrom(context.Background()); got != "" {
		t.Errorf("OriginFrom(empty) = %q", got)
	}
	if got := OriginFrom(WithOrigin(context.Background(), "")); got != "" {
		t.Errorf("empty origin should not be stored, got %q", got)
	}
}
