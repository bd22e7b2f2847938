package handler

import (
	"net/http"

	"notepad-server/internal/domain"
	"notepad-server/pkg/response"
)

func Options(w http.ResponseWriter, r *http.Request) {
	response.Success(w, domain.EditorOptions())
}

// HealthHandler reports liveness plus the number of workspaces and open
// websocket connections held in memory.
type HealthHandler struct {
	workspaces interface{ Active() int }
	sockets    interface{ Connections() int }
}

func NewHealthHandler(workspaces interface{ Active() int }, sockets interface{ Connections() int }) *HealthHandler {
	return &HealthHandler{
		workspaces: workspaces,
		sockets:    sockets,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"status":      "healthy",
		"service":     "notepad-server",
		"workspaces":  h.workspaces.Active(),
		"connections": h.sockets.Connections(),
	})
}
