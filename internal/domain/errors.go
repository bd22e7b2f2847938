package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle     = errors.New("O título não pode estar vazio!")
	ErrNoteNotFound   = errors.New("note not found")
	ErrForbidden      = errors.New("unauthorized: note does not belong to user")
	ErrMissingNoteID  = errors.New("note id is required")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoOpenEditor   = errors.New("no note is open in the editor")
	ErrSessionClosed  = errors.New("editor session is closed")
	ErrSaveInProgress = errors.New("save already in progress")
)

// StoreError wraps a failed document store call.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type AuthErrorCode string

const (
	AuthWrongPassword     AuthErrorCode = "auth/wrong-password"
	AuthUserNotFound      AuthErrorCode = "auth/user-not-found"
	AuthInvalidEmail      AuthErrorCode = "auth/invalid-email"
	AuthEmailInUse        AuthErrorCode = "auth/email-already-in-use"
	AuthWeakPassword      AuthErrorCode = "auth/weak-password"
	AuthInvalidCredential AuthErrorCode = "auth/invalid-credential"
	AuthPasswordMismatch  AuthErrorCode = "auth/password-mismatch"
	AuthInternal          AuthErrorCode = "auth/internal-error"
)

var authMessages = map[AuthErrorCode]string{
	AuthWrongPassword:     "Senha incorreta. Verifique e tente novamente.",
	AuthUserNotFound:      "Usuário não encontrado. Verifique o email cadastrado.",
	AuthInvalidEmail:      "Formato de email inválido.",
	AuthEmailInUse:        "Este email já está em uso.",
	AuthWeakPassword:      "Senha muito fraca. Use pelo menos 6 caracteres.",
	AuthInvalidCredential: "Credenciais incorretas, tente novamente!",
	AuthPasswordMismatch:  "As senhas não coincidem",
}

// AuthError carries a machine-readable code from the identity provider.
// Prefix names the operation that failed and is shown before the message.
type AuthError struct {
	Code   AuthErrorCode
	Prefix string
	Err    error
}

func NewAuthError(code AuthErrorCode, prefix string) *AuthError {
	return &AuthError{Code: code, Prefix: prefix}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Message is the localized text shown on the login and register forms.
func (e *AuthError) Message() string {
	friendly, ok := authMessages[e.Code]
	if !ok {
		friendly = "erro desconhecido"
	}
	if e.Prefix == "" {
		return friendly
	}
	return fmt.Sprintf("%s: %s", e.Prefix, friendly)
}
