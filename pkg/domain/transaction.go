package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "bankbuddy/pkg/domain-errors"
)

// TransactionID uniquely identifies a ledger entry across the whole system.
// IDs are generated at transfer time and never reused; the "txn_" prefix
// keeps them recognizable in logs and statements.
type TransactionID string

// NewTransactionID generates a fresh globally unique transaction id.
func NewTransactionID() TransactionID {
	return TransactionID("txn_" + uuid.NewString())
}

// String returns the string representation of the id.
func (id TransactionID) String() string {
	return string(id)
}

// TransactionKind classifies a ledger entry as money leaving or entering the
// account. A transfer produces exactly one debit on the sender and one credit
// on the recipient.
type TransactionKind string

const (
	KindDebit  TransactionKind = "debit"
	KindCredit TransactionKind = "credit"
)

// IsValid checks if the kind is one of the supported enum values.
func (k TransactionKind) IsValid() bool {
	return k == KindDebit || k == KindCredit
}

// Amount is a monetary value in whole rupees. Transfers initiated from chat
// are whole-rupee only, matching the instruction format; keeping the value
// integral rules out floating-point drift.
type Amount int64

// ParseAmount constructs a positive Amount from external input.
//
// Errors: returns CodeInvalidInput when the value is not strictly positive.
func ParseAmount(v int64) (Amount, error) {
	if v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	return Amount(v), nil
}

// String formats the amount for user-facing messages.
func (a Amount) String() string {
	return fmt.Sprintf("₹%d", int64(a))
}
