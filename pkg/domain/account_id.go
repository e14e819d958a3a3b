package domain

import dErrors "bankbuddy/pkg/domain-errors"

// AccountID is the opaque key of an account record. It is issued by external
// provisioning and treated as stable; this service never derives meaning from
// its contents.
type AccountID string

// ParseAccountID constructs an AccountID from external input.
//
// Usage: call from handlers/adapters when parsing requests; direct casting
// bypasses validation.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id cannot be empty")
	}
	return AccountID(s), nil
}

// IsNil reports whether the id is unset.
func (id AccountID) IsNil() bool {
	return id == ""
}

// String returns the string representation of the id.
func (id AccountID) String() string {
	return string(id)
}
