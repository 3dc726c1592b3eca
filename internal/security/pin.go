package security

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPINLength = 4
	maxPINLength = 12
)

var ErrInvalidPIN = errors.New("pin must be 4 to 12 digits")

func ValidatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return ErrInvalidPIN
	}
	for _, char := range pin {
		if char < '0' || char > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// HashPIN returns the bcrypt hash stored in LOCK_PIN_HASH.
func HashPIN(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPIN(hash string, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(pin))) == nil
}
