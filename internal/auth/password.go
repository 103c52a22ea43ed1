package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols is the fixed set a password must draw at least one
// character from.
const PasswordSymbols = "@$!%*?&"

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// CheckPasswordPolicy enforces: length >= 8, at least one lowercase letter,
// one uppercase letter, one digit and one symbol from PasswordSymbols, and no
// characters outside letters, digits and that symbol set.
// Returns an empty string when the password passes, otherwise the reason.
func CheckPasswordPolicy(p string) string {
	if len(p) < 8 {
		return "password must be at least 8 characters long"
	}
	var lower, upper, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r) && r < 128:
			lower = true
		case unicode.IsUpper(r) && r < 128:
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
		default:
			return "password may only contain letters, numbers and " + PasswordSymbols
		}
	}
	switch {
	case !lower:
		return "password must include at least one lowercase letter"
	case !upper:
		return "password must include at least one uppercase letter"
	case !digit:
		return "password must include at least one number"
	case !strings.ContainsAny(p, PasswordSymbols):
		return "password must include at least one special character"
	}
	return ""
}
