// internal/app/system/authutil/password.go
//
// Package authutil checks and hashes the administrator's credentials.
package authutil

import (
	"errors"
	"strings"

	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

// Password validation constants
const (
	MinPasswordLength = 10
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
	BcryptCost        = 12
)

// Password validation errors
var (
	ErrPasswordTooShort = errors.New("password must be at least 10 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordCommon   = errors.New("password is too common")
)

// Login errors
var (
	ErrNotConfigured = errors.New("admin login is not configured")
	ErrUnknownEmail  = errors.New("email is not the admin email")
	ErrWrongPassword = errors.New("wrong password")
)

// commonPasswords are refused regardless of length.
var commonPasswords = map[string]bool{
	"1234567890":    true,
	"123456789012":  true,
	"password123":   true,
	"password1234":  true,
	"qwertyuiop":    true,
	"qwerty12345":   true,
	"iloveyou123":   true,
	"admin12345":    true,
	"administrator": true,
	"letmein1234":   true,
	"welcome123":    true,
	"advocate123":   true,
	"lawyer12345":   true,
}

// PasswordRules describes the password requirements for API error messages.
func PasswordRules() string {
	return "Password must be 10 to 72 characters and not a common password."
}

// ValidatePassword checks a new admin password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
// The password should be validated with ValidatePassword first.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when the email is wrong so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lawsite-dummy-password"), bcrypt.MinCost)

// CheckAdminLogin verifies email and password against the settings section.
func CheckAdminLogin(settings *models.SettingsContent, email, password string) error {
	if settings == nil || !settings.HasAdminCredentials() {
		return ErrNotConfigured
	}
	if normalize.Email(email) != normalize.Email(settings.AdminEmail) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return ErrUnknownEmail
	}
	if !CheckPassword(password, settings.AdminPassword) {
		return ErrWrongPassword
	}
	return nil
}

// IsAdminEmail reports whether email is the configured admin email.
func IsAdminEmail(settings *models.SettingsContent, email string) bool {
	if settings == nil || settings.AdminEmail == "" {
		return false
	}
	return normalize.Email(email) == normalize.Email(settings.AdminEmail)
}
