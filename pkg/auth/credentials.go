// Package auth checks the single admin credential pair.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotConfigured means no admin credentials were provided; every login fails
var ErrNotConfigured = errors.New("admin credentials not configured")

// Credentials verifies the configured admin email and password. When a
// bcrypt hash is present it is used instead of the plaintext password.
type Credentials struct {
	email        string
	password     string
	passwordHash []byte
}

func NewCredentials(email, password, passwordHash string) *Credentials {
	c := &Credentials{
		email:    strings.TrimSpace(email),
		password: password,
	}
	if passwordHash != "" {
		c.passwordHash = []byte(passwordHash)
	}
	return c
}

func (c *Credentials) Configured() bool {
	return c.email != "" && (c.password != "" || len(c.passwordHash) > 0)
}

// Email is the admin identity put into session tokens
func (c *Credentials) Email() string { return c.email }

// Hashed reports whether the bcrypt path is active
func (c *Credentials) Hashed() bool { return len(c.passwordHash) > 0 }

// Verify reports true only for an exact email match and the right password.
// The password is always checked so timing does not reveal a wrong email.
func (c *Credentials) Verify(email, password string) (bool, error) {
	if !c.Configured() {
		return false, ErrNotConfigured
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(c.email)) == 1

	var passwordOK bool
	if c.Hashed() {
		err := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, err
		}
		passwordOK = err == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	}
	return emailOK && passwordOK, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
