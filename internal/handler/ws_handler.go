package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"notepad-server/internal/middleware"
	"notepad-server/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager  *websocket.Manager
	upgrader ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, readBufferSize, writeBufferSize int) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades an authenticated request. The tab may pick its
// own client_id; otherwise one is generated and announced in the first
// frame.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Failed to upgrade connection: %v", err)
		return
	}

	client := websocket.NewClient(clientID, userID, conn, h.manager)
	if hello, err := encode(websocket.TypeConnected, &websocket.ConnectedPayload{ClientID: clientID}); err == nil {
		client.Send <- hello
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// WebSocketMessageHandler answers what browsers send on their own: pings.
// Note changes only ever flow from server to client.
type WebSocketMessageHandler struct{}

func NewWebSocketMessageHandler() *WebSocketMessageHandler {
	return &WebSocketMessageHandler{}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypePing:
		return reply(client, websocket.TypePong, nil)
	default:
		log.Printf("[WebSocket] unknown message type %q from client %s", msg.Type, client.ID)
		return reply(client, websocket.TypeError, &websocket.ErrorPayload{Error: "unsupported message type"})
	}
}

func reply(client *websocket.Client, msgType websocket.MessageType, payload interface{}) error {
	data, err := encode(msgType, payload)
	if err != nil {
		return err
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("[WebSocket] client %s send buffer full, dropping %s", client.ID, msgType)
	}
	return nil
}

func encode(msgType websocket.MessageType, payload interface{}) ([]byte, error) {
	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
