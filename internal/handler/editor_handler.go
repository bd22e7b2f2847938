package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"notepad-server/internal/domain"
	"notepad-server/internal/editor"
	"notepad-server/internal/format"
	"notepad-server/internal/history"
	"notepad-server/internal/middleware"
	"notepad-server/internal/service"
	"notepad-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type EditorHandler struct {
	workspaces      *service.WorkspaceService
	validator       *validator.Validate
	maxContentBytes int64
}

func NewEditorHandler(workspaces *service.WorkspaceService, maxContentBytes int64) *EditorHandler {
	return &EditorHandler{
		workspaces:      workspaces,
		validator:       validator.New(),
		maxContentBytes: maxContentBytes,
	}
}

type saveResponse struct {
	Note   *domain.Note `json:"note"`
	Editor editor.View  `json:"editor"`
}

// Open starts a session on note_id, or on a blank note when the body is
// empty or names no note.
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenEditorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.workspaces.OpenEditor(r.Context(), middleware.GetUserID(r), req.NoteID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, session.View())
}

func (h *EditorHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(*editor.Session) error { return nil })
}

func (h *EditorHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateTextRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *editor.Session) error {
		return s.UpdateTitle(req.Value)
	})
}

func (h *EditorHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateTextRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *editor.Session) error {
		return s.UpdateContent(req.Value)
	})
}

func (h *EditorHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStyleRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.withSession(w, r, func(s *editor.Session) error {
		if req.Font != nil {
			if err := s.SetFont(*req.Font); err != nil {
				return err
			}
		}
		if req.Color != nil {
			if err := s.SetColor(*req.Color); err != nil {
				return err
			}
		}
		if req.Background != nil {
			return s.SetBackground(*req.Background)
		}
		return nil
	})
}

func (h *EditorHandler) FontSize(w http.ResponseWriter, r *http.Request) {
	direction := mux.Vars(r)["direction"]
	h.withSession(w, r, func(s *editor.Session) error {
		if direction == "increase" {
			return s.IncreaseFontSize()
		}
		return s.DecreaseFontSize()
	})
}

func (h *EditorHandler) TogglePreview(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *editor.Session) error {
		return s.TogglePreview()
	})
}

// Format wraps the selection either with a named marker or with the marker
// bound to a keyboard chord. A key that is not a formatting chord leaves
// the draft untouched.
func (h *EditorHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req domain.FormatRequest
	if !h.decode(w, r, &req) {
		return
	}

	var marker format.Marker
	var ok bool
	switch {
	case req.Marker != "":
		marker, ok = format.ParseMarker(req.Marker)
	case req.Key != "":
		marker, ok = format.Shortcut(req.Key, req.Ctrl, req.Meta)
		if !ok {
			h.withSession(w, r, func(*editor.Session) error { return nil })
			return
		}
	}
	if !ok {
		response.BadRequest(w, "marker or key is required")
		return
	}

	h.withSession(w, r, func(s *editor.Session) error {
		_, err := s.ApplyFormat(req.SelStart, req.SelEnd, marker)
		return err
	})
}

func (h *EditorHandler) StepBack(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *editor.Session) error {
		return s.StepBack()
	})
}

func (h *EditorHandler) StepForward(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *editor.Session) error {
		_, err := s.StepForward()
		return err
	})
}

// Save persists the draft. With ?close=true the editor is closed once the
// note is stored; a failed save always leaves it open.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	closeAfter := r.URL.Query().Get("close") == "true"

	note, view, err := h.workspaces.SaveEditor(r.Context(), middleware.GetUserID(r), closeAfter)
	if err != nil {
		var storeErr *domain.StoreError
		switch {
		case errors.Is(err, domain.ErrEmptyTitle):
			response.ErrorWithData(w, http.StatusUnprocessableEntity, err.Error(), view)
		case errors.As(err, &storeErr):
			response.ErrorWithData(w, http.StatusBadGateway, "Erro ao salvar a nota, tente novamente", view)
		default:
			writeError(w, err)
		}
		return
	}

	response.Success(w, saveResponse{Note: note, Editor: view})
}

// Close drops the draft. The returned view has dirty set when unsaved
// changes were discarded.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	view, err := h.workspaces.CloseEditor(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *EditorHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(*editor.Session) error) {
	session, err := h.workspaces.Editor(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := fn(session); err != nil {
		if errors.Is(err, history.ErrFirstVersion) {
			response.Notice(w, session.View(), editor.NoticeFirstVersion)
			return
		}
		writeError(w, err)
		return
	}

	response.Success(w, session.View())
}

func (h *EditorHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxContentBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Nota muito grande")
			return false
		}
		response.BadRequest(w, "Invalid request body")
		return false
	}

	if err := h.validator.Struct(v); err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}
