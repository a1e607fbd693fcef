package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/session"
)

func newAuthUsecase(t *testing.T, codec session.Codec) domain.AuthUsecase {
	t.Helper()
	tracker := security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil,
		security.NewSecurityLogger(zap.NewNop(), "test", "test"))
	creds := auth.NewCredentials("admin@example.com", "correct-horse", "")
	return usecase.NewAuthUsecase(creds, tracker, codec, time.Hour)
}

func attempt(ip, password string) domain.LoginAttempt {
	return domain.LoginAttempt{Email: "admin@example.com", Password: password, IP: ip}
}

func TestAuthUsecase_LoginAndAuthenticate(t *testing.T) {
	uc := newAuthUsecase(t, session.NewLegacyCodec())
	ctx := context.Background()

	res, err := uc.Login(ctx, attempt("10.0.0.1", "correct-horse"))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", res.User.Email)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	user, err := uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestAuthUsecase_Lockout(t *testing.T) {
	uc := newAuthUsecase(t, session.NewLegacyCodec())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := uc.Login(ctx, attempt("10.0.0.2", "wrong"))
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(err), "attempt %d", i)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	require.NoError(t, uc.CheckBlocked(ctx, attempt("10.0.0.3", "")))
	err := uc.CheckBlocked(ctx, domain.LoginAttempt{IP: "10.0.0.2"})
	assert.Equal(t, http.StatusTooManyRequests, statusOf(err))

	// Sixth attempt is refused even with the right password
	_, err = uc.Login(ctx, attempt("10.0.0.2", "correct-horse"))
	assert.Equal(t, http.StatusTooManyRequests, statusOf(err))
	assert.ErrorIs(t, err, domain.ErrLoginBlocked)

	// Other clients are unaffected
	_, err = uc.Login(ctx, attempt("10.0.0.3", "correct-horse"))
	assert.NoError(t, err)
}

func TestAuthUsecase_SuccessClearsFailures(t *testing.T) {
	uc := newAuthUsecase(t, session.NewLegacyCodec())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = uc.Login(ctx, attempt("10.0.0.4", "wrong"))
	}
	_, err := uc.Login(ctx, attempt("10.0.0.4", "correct-horse"))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := uc.Login(ctx, attempt("10.0.0.4", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	}
	_, err = uc.Login(ctx, attempt("10.0.0.4", "correct-horse"))
	assert.NoError(t, err, "counter must have been reset by the earlier success")
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	signed, err := session.NewSignedCodec("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	uc := newAuthUsecase(t, signed)
	ctx := context.Background()

	tests := []struct {
		name  string
		token func() string
	}{
		{"empty", func() string { return "" }},
		{"garbage", func() string { return "not-a-token" }},
		{"unsigned token", func() string {
			tok, _ := session.NewLegacyCodec().Encode(domain.SessionClaims{
				Email: "admin@example.com", ExpiresAt: time.Now().Add(time.Hour).Unix(),
			})
			return tok
		}},
		{"expired", func() string {
			tok, _ := signed.Encode(domain.SessionClaims{
				Email: "admin@example.com", ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			})
			return tok
		}},
		{"other identity", func() string {
			tok, _ := signed.Encode(domain.SessionClaims{
				Email: "someone@example.com", ExpiresAt: time.Now().Add(time.Hour).Unix(),
			})
			return tok
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Authenticate(ctx, tt.token())
			assert.ErrorIs(t, err, domain.ErrSessionInvalid)
		})
	}
}

func TestAuthUsecase_NotConfigured(t *testing.T) {
	tracker := security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil, nil)
	uc := usecase.NewAuthUsecase(auth.NewCredentials("", "", ""), tracker, session.NewLegacyCodec(), time.Hour)

	_, err := uc.Login(context.Background(), domain.LoginAttempt{Email: "", Password: "", IP: "1.1.1.1"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}
