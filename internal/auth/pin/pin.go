// Package pin hashes and verifies transaction PINs. PINs are stored only as
// bcrypt hashes; the transfer flow sees this package through the
// ports.PINVerifier interface and never touches storage format.
package pin

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	dErrors "bankbuddy/pkg/domain-errors"
)

var pinPattern = regexp.MustCompile(`^\d{4,6}$`)

// Hash creates a bcrypt hash of the provided PIN. Use this when provisioning
// or changing an account's PIN.
func Hash(pin string) (string, error) {
	if !pinPattern.MatchString(pin) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "pin must be 4 to 6 digits")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash pin: %w", err)
	}
	return string(hashed), nil
}

// Verifier checks PINs against stored bcrypt hashes.
type Verifier struct{}

func NewVerifier() Verifier {
	return Verifier{}
}

// Verify checks a plaintext PIN against a bcrypt hash. A mismatch returns
// CodeUnauthorized with no further detail.
func (Verifier) Verify(pin, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "incorrect pin")
		}
		return fmt.Errorf("could not verify pin: %w", err)
	}
	return nil
}
