package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the adaptive cost used for new password hashes.
const DefaultBcryptCost = 10

// SetPassword replaces the stored hash of u with a salted bcrypt hash of
// plaintext. The user is not persisted; the caller commits it.
func SetPassword(u *models.User, plaintext string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash of u. A wrong
// password is (false, nil); a missing or malformed stored hash is
// common.ErrorIntegrity.
func CheckPassword(u *models.User, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stored hash of user %q: %v", common.ErrorIntegrity, u.UserName, err)
	}
}
