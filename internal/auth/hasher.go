package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt hasher using the configured cost.
func NewPasswordHasher(cfg *config.Config) PasswordHasher {
	return &bcryptHasher{cost: cfg.BcryptCost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports false for any mismatch, including malformed hashes.
func (h *bcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
