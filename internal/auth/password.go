// Package auth issues and verifies access tokens and guards HTTP routes.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Password bounds in bytes, enforced on signup and password change. The upper
// bound stays below bcrypt's 72 byte limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 40
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if n := len(password); n < MinPasswordLength || n > MaxPasswordLength {
		return "", fmt.Errorf("%w: password must be %d to %d characters", domain.ErrInvalidInput, MinPasswordLength, MaxPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hashed.
func CheckPassword(hashed, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	return err == nil
}
