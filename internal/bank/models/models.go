package models

import (
	"time"

	id "bankbuddy/pkg/domain"
)

// Account is a holder of funds. The PIN is stored as a bcrypt hash and only
// ever compared through internal/auth/pin; the plain value never touches
// this struct.
type Account struct {
	ID        id.AccountID
	Address   id.PaymentAddress
	Balance   id.Amount
	PINHash   string
	Email     string
	CreatedAt time.Time
}

// Transaction is an immutable ledger entry. Entries are created only by the
// transfer commit, never mutated or deleted; insertion order is chronological
// order.
type Transaction struct {
	ID           id.TransactionID
	Kind         id.TransactionKind
	Amount       id.Amount
	Counterparty id.PaymentAddress
	CreatedAt    time.Time
}

// AddressBinding maps a payment address to its owning account plus the fraud
// flag. The flag is monotonic: once true it is never observed as false again
// within this subsystem.
type AddressBinding struct {
	Address      id.PaymentAddress
	OwnerAccount id.AccountID
	IsFraud      bool
}

// TransferRequest is the structured form of a parsed transfer instruction.
// PIN stays plaintext only for the duration of the request; it is verified
// against the stored hash and never persisted or logged.
type TransferRequest struct {
	Amount    id.Amount
	Recipient id.PaymentAddress
	PIN       string
}

// TransferResult reports a committed transfer back to the caller.
type TransferResult struct {
	TransactionID id.TransactionID
	NewBalance    id.Amount
	Message       string
}

// LedgerCommit is the unit handed to AccountStore.ApplyTransfer: the two
// balance mutations and the two ledger appends that must land atomically.
// DebitEntry belongs to the sender, CreditEntry to the recipient; they share
// the amount and carry reciprocal counterparties.
type LedgerCommit struct {
	Sender      id.AccountID
	Recipient   id.AccountID
	Amount      id.Amount
	DebitEntry  Transaction
	CreditEntry Transaction
}
