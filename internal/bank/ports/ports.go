// Package ports defines shared interfaces for the bank module. Interfaces
// live here when consumed by multiple services to avoid duplication.
package ports

import (
	"context"
	"log/slog"

	"bankbuddy/internal/audit"
	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

// AccountStore is the keyed, strongly consistent store of account records.
type AccountStore interface {
	// Get loads an account by its opaque key. Returns sentinel.ErrNotFound
	// when absent.
	Get(ctx context.Context, accountID id.AccountID) (*models.Account, error)

	// GetByAddress loads an account by its payment address.
	GetByAddress(ctx context.Context, address id.PaymentAddress) (*models.Account, error)

	// Save upserts an account record. Provisioning and tests only; transfers
	// never go through Save.
	Save(ctx context.Context, account *models.Account) error

	// ApplyTransfer commits both balance mutations and both ledger appends
	// atomically, returning the sender's post-commit balance. The sender
	// balance is re-validated inside the commit; a shortfall returns
	// sentinel.ErrInsufficientFunds with nothing applied.
	ApplyTransfer(ctx context.Context, commit models.LedgerCommit) (id.Amount, error)

	// ListTransactions returns the account's ledger, newest first.
	ListTransactions(ctx context.Context, accountID id.AccountID) ([]models.Transaction, error)
}

// FraudRegistry maps payment addresses to owning accounts and fraud flags.
type FraudRegistry interface {
	// Resolve returns the binding for an address. Returns
	// sentinel.ErrNotFound when the address is not registered.
	Resolve(ctx context.Context, address id.PaymentAddress) (*models.AddressBinding, error)

	// SetFraud flags an address as fraudulent. Idempotent and monotonic:
	// flagging an already-flagged address succeeds, and there is no unflag.
	SetFraud(ctx context.Context, address id.PaymentAddress) error

	// Save registers a binding. Provisioning and tests only.
	Save(ctx context.Context, binding *models.AddressBinding) error
}

// AuditPublisher emits audit events for money-movement operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// PINVerifier checks a plaintext PIN against a stored hash. Keeping this an
// interface decouples the transfer flow from how secrets are stored.
type PINVerifier interface {
	Verify(pin, hash string) error
}

// Mailer delivers user-facing mail (account statements).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogAudit logs an audit-worthy fact and forwards it to the publisher when
// one is configured. Both sides are optional so services stay constructible
// in tests without wiring.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, args ...any) {
	if logger != nil {
		logger.InfoContext(ctx, event.Action,
			append([]any{"actor", event.Actor, "outcome", event.Outcome}, args...)...)
	}
	if publisher != nil {
		_ = publisher.Emit(ctx, event)
	}
}
