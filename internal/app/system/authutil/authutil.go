// Package authutil provides password hashing and validation helpers shared
// by the login, register, and system-users features.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// PasswordRules is the human-readable description shown next to password
// fields in forms.
const PasswordRules = "Passwords must be 6-128 characters and not a commonly used password."

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordCommon   = errors.New("password is too common")
)

// commonPasswords are rejected regardless of other rules. Matching is
// case-insensitive.
var commonPasswords = map[string]struct{}{
	"123456":   {},
	"password": {},
	"12345678": {},
	"qwerty":   {},
	"abc123":   {},
	"iloveyou": {},
	"letmein":  {},
	"monkey":   {},
	"dragon":   {},
	"football": {},
	"welcome":  {},
	"admin":    {},
	"sunshine": {},
	"princess": {},
}

// ValidatePassword checks a candidate password against the length and
// common-password rules. It returns one of the sentinel errors above, or nil
// if the password is acceptable.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, bad := commonPasswords[strings.ToLower(pw)]; bad {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a plain-text password with bcrypt at the default cost.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plain-text password matches the stored
// bcrypt hash.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
