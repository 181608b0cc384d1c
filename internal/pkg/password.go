package pkg

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// HashPassword returns a salted bcrypt hash of password. bcrypt accepts at
// most 72 bytes, so a longer password is a validation error even when it
// has 72 characters or fewer.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewAppError(domain.CodeValidation, "invalid input: password: max=72", err)
		}
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
