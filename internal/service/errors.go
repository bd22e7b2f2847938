package service

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or revoked token")
)
