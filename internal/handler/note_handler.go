package handler

import (
	"errors"
	"net/http"

	"notepad-server/internal/domain"
	"notepad-server/internal/middleware"
	"notepad-server/internal/service"
	"notepad-server/pkg/response"

	"github.com/gorilla/mux"
)

type NoteHandler struct {
	workspaces *service.WorkspaceService
}

func NewNoteHandler(workspaces *service.WorkspaceService) *NoteHandler {
	return &NoteHandler{
		workspaces: workspaces,
	}
}

// List reloads the caller's dashboard. When the store fails the empty list
// is still sent along with the error text the dashboard shows.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	dashboard, err := h.workspaces.Dashboard(r.Context(), userID)
	if err != nil {
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			response.ErrorWithData(w, http.StatusBadGateway, dashboard.Error, dashboard)
			return
		}
		writeError(w, err)
		return
	}

	response.Success(w, dashboard)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	noteID := mux.Vars(r)["id"]

	if err := h.workspaces.DeleteNote(r.Context(), userID, noteID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Note deleted successfully",
	})
}
