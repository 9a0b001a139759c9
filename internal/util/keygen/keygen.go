package keygen

import (
	"fmt"
	"os"
)

// PrivateKeyMode is the only permission set SSH accepts for private keys.
const PrivateKeyMode os.FileMode = 0o600

// WritePrivateKey writes key material to path with mode 0600. An existing
// file is replaced and its mode corrected.
func WritePrivateKey(path string, data []byte) error {
	if err := os.WriteFile(path, data, PrivateKeyMode); err != nil {
		return fmt.Errorf("failed to write private key %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	return RestrictPermissions(path)
}

// RestrictPermissions sets the file's mode to 0600 and verifies the change
// took effect.
func RestrictPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat private key: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("private key %s is not a regular file", path)
	}

	if err := os.Chmod(path, PrivateKeyMode); err != nil {
		return fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
	}

	info, err = os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat private key: %w", err)
	}
	if perm := info.Mode().Perm(); perm != PrivateKeyMode {
		return fmt.Errorf("private key %s has mode %04o after chmod, want %04o", path, perm, PrivateKeyMode)
	}
	return nil
}
