package domain

import (
	"regexp"
	"strings"

	dErrors "bankbuddy/pkg/domain-errors"
)

// PaymentAddress is a human-shareable identifier (UPI-style, "name@bank")
// resolving to an owning account. It is unique across all accounts and
// independent of the account's internal key.
//
// Invariant: the value matches addressPattern. Construct via
// ParsePaymentAddress at trust boundaries to enforce it.
type PaymentAddress string

var addressPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*@[a-z][a-z0-9]*$`)

// ParsePaymentAddress validates and normalizes a payment address from
// external input. Addresses are case-insensitive; the canonical form is
// lowercase.
//
// Errors: returns CodeInvalidInput when the value is empty or not a valid
// address; no other errors are expected.
func ParsePaymentAddress(s string) (PaymentAddress, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "payment address cannot be empty")
	}
	normalized := strings.ToLower(strings.TrimSpace(s))
	if !addressPattern.MatchString(normalized) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid payment address")
	}
	return PaymentAddress(normalized), nil
}

// IsNil reports whether the address is unset.
func (a PaymentAddress) IsNil() bool {
	return a == ""
}

// String returns the string representation of the address.
func (a PaymentAddress) String() string {
	return string(a)
}
