package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"notepad-server/internal/domain"
	"notepad-server/internal/repository"
	"notepad-server/pkg/hash"
	"notepad-server/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	prefixRegister = "Erro ao registrar"
	prefixLogin    = "Erro ao fazer login"
	prefixLogout   = "Erro ao sair"
)

type AuthService struct {
	userRepo          repository.UserRepository
	revocations       repository.RevocationRepository
	validate          *validator.Validate
	jwtSecret         string
	jwtExpiration     time.Duration
	refreshExpiration time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	revocations repository.RevocationRepository,
	jwtSecret string,
	jwtExp, refreshExp time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		revocations:       revocations,
		validate:          validator.New(),
		jwtSecret:         jwtSecret,
		jwtExpiration:     jwtExp,
		refreshExpiration: refreshExp,
	}
}

// Register creates the account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.NewAuthError(domain.AuthPasswordMismatch, "")
	}

	if utf8.RuneCountInString(req.Password) < hash.MinPasswordLength {
		return nil, domain.NewAuthError(domain.AuthWeakPassword, prefixRegister)
	}

	email := normalizeEmail(req.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, prefixRegister)
	}

	emailExists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, internalAuthError(prefixRegister, fmt.Errorf("failed to check email existence: %w", err))
	}
	if emailExists {
		return nil, domain.NewAuthError(domain.AuthEmailInUse, prefixRegister)
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, internalAuthError(prefixRegister, err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, internalAuthError(prefixRegister, fmt.Errorf("failed to create user: %w", err))
	}

	log.Printf("[Auth] registered user %s", user.ID)
	return s.issue(user, prefixRegister)
}

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, prefixLogin)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewAuthError(domain.AuthUserNotFound, prefixLogin)
		}
		return nil, internalAuthError(prefixLogin, err)
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		if hash.IsMismatch(err) {
			return nil, domain.NewAuthError(domain.AuthWrongPassword, prefixLogin)
		}
		return nil, internalAuthError(prefixLogin, err)
	}

	return s.issue(user, prefixLogin)
}

func (s *AuthService) RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.LoginResponse, error) {
	claims, err := s.check(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidCredential, prefixLogin)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewAuthError(domain.AuthUserNotFound, prefixLogin)
		}
		return nil, internalAuthError(prefixLogin, err)
	}

	accessToken, err := jwt.GenerateToken(user.ID, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, internalAuthError(prefixLogin, fmt.Errorf("failed to generate access token: %w", err))
	}

	out := *user
	out.Password = ""
	return &domain.LoginResponse{
		User:        &out,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtExpiration.Seconds()),
	}, nil
}

// Logout revokes the access token until it would have expired anyway and
// returns the user it belonged to.
func (s *AuthService) Logout(ctx context.Context, token string) (string, error) {
	claims, err := s.check(ctx, token, jwt.AccessToken)
	if err != nil {
		return "", domain.NewAuthError(domain.AuthInvalidCredential, prefixLogout)
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.Remaining()); err != nil {
		return "", internalAuthError(prefixLogout, err)
	}

	log.Printf("[Auth] user %s signed out", claims.UserID)
	return claims.UserID, nil
}

// Authenticate resolves a bearer token to its claims. Expired, malformed and
// revoked tokens all yield ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	return s.check(ctx, token, jwt.AccessToken)
}

// CurrentUser returns the signed-in user for token, or nil when there is no
// valid session.
func (s *AuthService) CurrentUser(ctx context.Context, token string) *domain.User {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Printf("[Auth] failed to load user %s: %v", claims.UserID, err)
		}
		return nil
	}

	out := *user
	out.Password = ""
	return &out
}

func (s *AuthService) check(ctx context.Context, token, tokenType string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateTokenOfType(token, s.jwtSecret, tokenType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) issue(user *domain.User, prefix string) (*domain.LoginResponse, error) {
	accessToken, err := jwt.GenerateToken(user.ID, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, internalAuthError(prefix, fmt.Errorf("failed to generate access token: %w", err))
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.ID, s.refreshExpiration, s.jwtSecret)
	if err != nil {
		return nil, internalAuthError(prefix, fmt.Errorf("failed to generate refresh token: %w", err))
	}

	out := *user
	out.Password = ""

	return &domain.LoginResponse{
		User:         &out,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtExpiration.Seconds()),
	}, nil
}

func internalAuthError(prefix string, err error) *domain.AuthError {
	log.Printf("[Auth] %s: %v", prefix, err)
	return &domain.AuthError{Code: domain.AuthInternal, Prefix: prefix, Err: err}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
