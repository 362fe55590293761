// Package keyring stores the app token in the OS credential store when one
// is available, with the meta row as a fallback location.
package keyring

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring.
	ErrNotFound = errors.New("app token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken retrieves the app token from the OS keyring.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.KeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the app token in the OS keyring.
func SetToken(token string) error {
	if token == "" {
		return errors.New("app token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.KeyringUser, token); err != nil {
		return fmt.Errorf("failed to store app token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the app token from the OS keyring.
func DeleteToken() error {
	if err := keyring.Delete(constants.AppName, constants.KeyringUser); err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete app token from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring responds at all. Best effort;
// a probe read that fails with anything but not-found means unavailable.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || err == keyring.ErrNotFound
}
