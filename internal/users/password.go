package users

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/steward/pkg/principal"
)

// dummyHash is compared against when an email is unknown so that failed
// logins take the same time whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("steward-placeholder"), bcrypt.DefaultCost)
	return h
})

// HashPassword returns the bcrypt hash of password at the given cost.
// Passwords longer than 72 bytes yield ErrPasswordTooLong.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// passwordChangeRule decides whether actor may change target's password and
// whether the current password must be supplied.
func passwordChangeRule(actor principal.Principal, target uuid.UUID) (requireCurrent bool, err error) {
	if actor.UserID == target {
		return true, nil
	}
	if actor.IsAdmin() {
		return false, nil
	}
	return false, ErrForbidden
}
