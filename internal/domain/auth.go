package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginBlocked       = errors.New("too many failed login attempts")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
)

// SessionUser is the identity exposed to the admin dashboard
type SessionUser struct {
	Email string `json:"email"`
}

// SessionClaims is the payload carried by the admin session cookie
type SessionClaims struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// Expired reports whether the claims are past their expiry at now
func (c SessionClaims) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// LoginAttempt is the request metadata the login tracker keys on
type LoginAttempt struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	RequestID string
}

// LoginResult carries the issued token to the transport layer
type LoginResult struct {
	User      SessionUser
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase interface {
	// CheckBlocked fails with ErrLoginBlocked while the attempt's client is locked out
	CheckBlocked(ctx context.Context, attempt LoginAttempt) error
	Login(ctx context.Context, attempt LoginAttempt) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*SessionUser, error)
	Logout(ctx context.Context, token, ip string)
}
