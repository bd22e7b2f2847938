package handler

import (
	"encoding/json"
	"net/http"

	"notepad-server/internal/domain"
	"notepad-server/internal/middleware"
	"notepad-server/internal/service"
	"notepad-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	workspaces  *service.WorkspaceService
	validator   *validator.Validate
}

func NewAuthHandler(authService *service.AuthService, workspaces *service.WorkspaceService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		workspaces:  workspaces,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loginResp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, loginResp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loginResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loginResp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	tokenResp, err := h.authService.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, tokenResp)
}

// Logout revokes the bearer token and throws away the caller's dashboard
// and any unsaved draft.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authService.Logout(r.Context(), middleware.GetToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.workspaces.Drop(userID)

	response.Success(w, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.authService.CurrentUser(r.Context(), middleware.GetToken(r))
	if user == nil {
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	response.Success(w, user)
}
