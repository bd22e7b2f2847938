package handler

import (
	"errors"
	"log"
	"net/http"

	"notepad-server/internal/domain"
	"notepad-server/pkg/response"
)

// writeError maps service errors onto HTTP statuses. Anything unknown is
// logged and reported as a 500 without leaking the cause.
func writeError(w http.ResponseWriter, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		response.ErrorWithCode(w, authStatus(authErr.Code), string(authErr.Code), authErr.Message())
		return
	}

	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		response.NotFound(w, "Nota não encontrada")
	case errors.Is(err, domain.ErrNoOpenEditor):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrMissingNoteID):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrSaveInProgress), errors.Is(err, domain.ErrSessionClosed):
		response.Conflict(w, err.Error())
	case errors.As(err, &storeErr):
		log.Printf("[Handler] %v", err)
		response.BadGateway(w, "Erro ao acessar as notas, tente novamente")
	default:
		log.Printf("[Handler] unexpected error: %v", err)
		response.InternalError(w, "Internal server error")
	}
}

func authStatus(code domain.AuthErrorCode) int {
	switch code {
	case domain.AuthWrongPassword, domain.AuthUserNotFound, domain.AuthInvalidCredential:
		return http.StatusUnauthorized
	case domain.AuthInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
