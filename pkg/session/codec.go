// Package session encodes the admin session cookie.
//
// Two formats exist. LegacyCodec is base64 JSON with no integrity protection,
// kept so cookies issued by earlier deployments stay readable; anyone able to
// set a cookie can forge it. SignedCodec is an HS256 JWT carrying the same
// claims and is used whenever a secret is configured.
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portfolio-backend/internal/domain"
)

var ErrMalformedToken = errors.New("malformed session token")

// Codec turns session claims into a cookie value and back. Decode checks expiry.
type Codec interface {
	Encode(claims domain.SessionClaims) (string, error)
	Decode(token string, now time.Time) (domain.SessionClaims, error)
	Signed() bool
}

// LegacyCodec is base64(JSON{email, exp, iat})
type LegacyCodec struct{}

func NewLegacyCodec() LegacyCodec { return LegacyCodec{} }

func (LegacyCodec) Signed() bool { return false }

func (LegacyCodec) Encode(claims domain.SessionClaims) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (LegacyCodec) Decode(token string, now time.Time) (domain.SessionClaims, error) {
	var claims domain.SessionClaims

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		// Cookie jars sometimes hand back the URL-safe alphabet.
		raw, err = base64.URLEncoding.DecodeString(token)
		if err != nil {
			return claims, ErrMalformedToken
		}
	}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return claims, ErrMalformedToken
	}
	if claims.Email == "" || claims.ExpiresAt == 0 {
		return claims, ErrMalformedToken
	}
	if claims.Expired(now) {
		return claims, domain.ErrSessionInvalid
	}
	return claims, nil
}

// SignedCodec issues HS256 JWTs
type SignedCodec struct {
	secret []byte
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewSignedCodec(secret string) (*SignedCodec, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 characters")
	}
	return &SignedCodec{secret: []byte(secret)}, nil
}

func (*SignedCodec) Signed() bool { return true }

func (c *SignedCodec) Encode(claims domain.SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Email,
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *SignedCodec) Decode(token string, now time.Time) (domain.SessionClaims, error) {
	if strings.Count(token, ".") != 2 {
		return domain.SessionClaims{}, ErrMalformedToken
	}

	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionClaims{}, domain.ErrSessionInvalid
		}
		return domain.SessionClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if parsed.Email == "" || parsed.ExpiresAt == nil {
		return domain.SessionClaims{}, ErrMalformedToken
	}

	claims := domain.SessionClaims{
		Email:     parsed.Email,
		ExpiresAt: parsed.ExpiresAt.Unix(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Unix()
	}
	return claims, nil
}
