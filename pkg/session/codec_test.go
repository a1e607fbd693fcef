package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
)

var issued = time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)

func sampleClaims() domain.SessionClaims {
	return domain.SessionClaims{
		Email:     "admin@example.com",
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(24 * time.Hour).Unix(),
	}
}

func TestLegacyCodec(t *testing.T) {
	codec := NewLegacyCodec()

	token, err := codec.Encode(sampleClaims())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"admin@example.com","exp":1746180000,"iat":1746093600}`, string(raw))

	got, err := codec.Decode(token, issued.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, sampleClaims(), got)

	_, err = codec.Decode(token, issued.Add(25*time.Hour))
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)

	for _, bad := range []string{"", "%%%", base64.StdEncoding.EncodeToString([]byte(`{"email":""}`))} {
		_, err = codec.Decode(bad, issued)
		assert.ErrorIs(t, err, ErrMalformedToken, bad)
	}
}

func TestSignedCodec(t *testing.T) {
	codec, err := NewSignedCodec(strings.Repeat("s", 32))
	require.NoError(t, err)
	assert.True(t, codec.Signed())

	token, err := codec.Encode(sampleClaims())
	require.NoError(t, err)

	got, err := codec.Decode(token, issued.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, sampleClaims(), got)

	t.Run("expired", func(t *testing.T) {
		_, err := codec.Decode(token, issued.Add(48*time.Hour))
		assert.ErrorIs(t, err, domain.ErrSessionInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		forged, err := NewLegacyCodec().Encode(domain.SessionClaims{Email: "evil@example.com", ExpiresAt: issued.Add(time.Hour).Unix()})
		require.NoError(t, err)
		parts[1] = strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(forged)), "=")
		_, err = codec.Decode(strings.Join(parts, "."), issued)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewSignedCodec(strings.Repeat("x", 32))
		require.NoError(t, err)
		_, err = other.Decode(token, issued)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("legacy token rejected", func(t *testing.T) {
		legacy, err := NewLegacyCodec().Encode(sampleClaims())
		require.NoError(t, err)
		_, err = codec.Decode(legacy, issued)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	_, err = NewSignedCodec("short")
	assert.Error(t, err)
}
