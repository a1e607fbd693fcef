package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/session"
)

type authUsecase struct {
	credentials *auth.Credentials
	tracker     *security.LoginTracker
	codec       session.Codec
	ttl         time.Duration
	now         func() time.Time
}

// NewAuthUsecase builds the session guard backend. The tracker keys failures
// on the client IP so a stranger cannot lock the owner out from elsewhere.
func NewAuthUsecase(credentials *auth.Credentials, tracker *security.LoginTracker, codec session.Codec, ttl time.Duration) domain.AuthUsecase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authUsecase{
		credentials: credentials,
		tracker:     tracker,
		codec:       codec,
		ttl:         ttl,
		now:         time.Now,
	}
}

// CheckBlocked runs before anything else about the attempt is looked at, so a
// locked out client gets 429 even for a malformed request.
func (u *authUsecase) CheckBlocked(ctx context.Context, attempt domain.LoginAttempt) error {
	blocked, remaining, err := u.tracker.IsBlocked(ctx, attempt.IP)
	if err != nil {
		// Counter backend down: keep serving logins rather than lock everyone out
		logger.Log.Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		u.tracker.Logger().LogLoginBlocked(ctx, attempt.Email, attempt.IP, attempt.UserAgent, attempt.RequestID)
		return blockedError(remaining)
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, attempt domain.LoginAttempt) (*domain.LoginResult, error) {
	if err := u.CheckBlocked(ctx, attempt); err != nil {
		return nil, err
	}

	ok, err := u.credentials.Verify(strings.TrimSpace(attempt.Email), attempt.Password)
	if err != nil && !errors.Is(err, auth.ErrNotConfigured) {
		return nil, apperror.Internal(err)
	}
	if !ok {
		// The failure that creates the block still answers 401; the next attempt sees 429.
		if _, _, trackErr := u.tracker.RecordFailedAttempt(ctx, attempt.IP, attempt.Email, attempt.UserAgent, attempt.RequestID); trackErr != nil {
			logger.Log.Warn("failed to record login attempt", "error", trackErr)
		}
		return nil, apperror.New(http.StatusUnauthorized, "Invalid email or password", domain.ErrInvalidCredentials)
	}

	if err := u.tracker.ClearAttempts(ctx, attempt.IP); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err)
	}

	now := u.now()
	expiresAt := now.Add(u.ttl)
	token, err := u.codec.Encode(domain.SessionClaims{
		Email:     u.credentials.Email(),
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("encode session: %w", err))
	}

	u.tracker.Logger().LogLoginSuccess(ctx, attempt.Email, attempt.IP, attempt.UserAgent, attempt.RequestID)
	return &domain.LoginResult{
		User:      domain.SessionUser{Email: u.credentials.Email()},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate decodes a session cookie. Only the configured admin is accepted,
// so tokens minted before an email change stop working.
func (u *authUsecase) Authenticate(_ context.Context, token string) (*domain.SessionUser, error) {
	if token == "" {
		return nil, domain.ErrSessionInvalid
	}
	claims, err := u.codec.Decode(token, u.now())
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}
	if !u.credentials.Configured() || claims.Email != u.credentials.Email() {
		return nil, domain.ErrSessionInvalid
	}
	return &domain.SessionUser{Email: claims.Email}, nil
}

func (u *authUsecase) Logout(ctx context.Context, token, ip string) {
	email := ""
	if claims, err := u.codec.Decode(token, u.now()); err == nil {
		email = claims.Email
	}
	u.tracker.Logger().LogLogout(ctx, email, ip)
}

func blockedError(retryAfter time.Duration) error {
	minutes := int(retryAfter.Round(time.Minute).Minutes())
	msg := "Too many failed login attempts. Please try again later."
	if minutes > 0 {
		msg = fmt.Sprintf("Too many failed login attempts. Please try again in %d minutes.", minutes)
	}
	return apperror.New(http.StatusTooManyRequests, msg, domain.ErrLoginBlocked)
}
