package cli

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/alem-hub/roster/internal/domain/shared"
)

// DefaultMaxAttempts is the number of login attempts before the console exits.
const DefaultMaxAttempts = 3

// Authenticator checks the single admin account.
type Authenticator struct {
	username    string
	hash        []byte
	maxAttempts int
}

// NewAuthenticator builds an Authenticator from a bcrypt hash, or hashes the
// plain password when no hash is configured.
func NewAuthenticator(username, passwordHash, password string, maxAttempts int) (*Authenticator, error) {
	if username == "" {
		return nil, fmt.Errorf("admin username is empty")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var hash []byte
	if passwordHash != "" {
		hash = []byte(passwordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	} else {
		if password == "" {
			return nil, fmt.Errorf("admin password is empty")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	return &Authenticator{username: username, hash: hash, maxAttempts: maxAttempts}, nil
}

// Authenticate returns shared.ErrInvalidCredentials unless the credentials
// match the admin account.
func (a *Authenticator) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// MaxAttempts returns the attempt limit.
func (a *Authenticator) MaxAttempts() int { return a.maxAttempts }
