package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason identifies why a transfer or fraud report was refused. These are the
// wire-visible outcome codes; the calling layer maps them to user text and
// HTTP statuses.
type Reason string

const (
	ReasonMalformedRequest        Reason = "malformed_request"
	ReasonSenderNotFound          Reason = "sender_not_found"
	ReasonInvalidPIN              Reason = "invalid_pin"
	ReasonInsufficientFunds       Reason = "insufficient_funds"
	ReasonAddressNotFound         Reason = "address_not_found"
	ReasonFraudulentRecipient     Reason = "fraudulent_recipient"
	ReasonRecipientAccountMissing Reason = "recipient_account_missing"
)

// Denial is a terminal, user-facing refusal. Message is safe to show
// verbatim; the wrapped cause (if any) is for logs only and never crosses
// the subsystem boundary.
type Denial struct {
	Reason  Reason
	Message string
	cause   error
}

// Deny builds a denial with no underlying cause.
func Deny(reason Reason, message string) *Denial {
	return &Denial{Reason: reason, Message: message}
}

// DenyWrap builds a denial around an underlying error. Used for integrity
// faults where the real failure must reach logs but not users.
func DenyWrap(err error, reason Reason, message string) *Denial {
	return &Denial{Reason: reason, Message: message, cause: err}
}

func (d *Denial) Error() string {
	if d.cause != nil {
		return fmt.Sprintf("%s: %s: %v", d.Reason, d.Message, d.cause)
	}
	return fmt.Sprintf("%s: %s", d.Reason, d.Message)
}

func (d *Denial) Unwrap() error {
	return d.cause
}

// AsDenial extracts a Denial from err, if present.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// HTTPStatus maps a reason to its HTTP status. Integrity faults present as a
// bad gateway so callers retry rather than blame their input.
func (r Reason) HTTPStatus() int {
	switch r {
	case ReasonMalformedRequest:
		return http.StatusBadRequest
	case ReasonInvalidPIN:
		return http.StatusUnauthorized
	case ReasonFraudulentRecipient:
		return http.StatusForbidden
	case ReasonSenderNotFound, ReasonAddressNotFound:
		return http.StatusNotFound
	case ReasonInsufficientFunds:
		return http.StatusUnprocessableEntity
	case ReasonRecipientAccountMissing:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
