package authctx

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/antbox/antbox/internal/result"
)

// BcryptCost is the cost factor used for both user passwords and ApiKey
// secrets.
const BcryptCost = 10

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// HashPassword hashes password for storage in the credentials reference,
// which lives outside the User node.
func HashPassword(password string) (string, *result.Error) {
	if password == "" {
		return "", result.BadRequest("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", result.Wrap(result.CodeUnknownError, "failed to hash password", err)
	}
	return string(hash), nil
}

// ValidatePassword reports whether password matches hash.
func ValidatePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// CheckPasswordStrength validates password length, and additionally
// character-class variety when requireStrong is set.
func CheckPasswordStrength(password string, requireStrong bool) *result.Error {
	if len(password) < MinPasswordLength {
		return result.BadRequest("password is too short")
	}
	if !requireStrong {
		return nil
	}
	if !hasUpper.MatchString(password) || !hasLower.MatchString(password) ||
		!hasNumber.MatchString(password) || !hasSpecial.MatchString(password) {
		return result.BadRequest("password does not meet strength requirements")
	}
	return nil
}
