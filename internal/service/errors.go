package service

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid or revoked refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrAccessDenied        = errors.New("access denied")
)

// Auditor records staff actions
type Auditor interface {
	CreateAuditLog(ctx context.Context, userID *string, action string, details string) error
}
