// Package ledger builds the immutable entries a transfer appends to both
// participants' histories.
package ledger

import (
	"time"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

// Recorder constructs paired debit/credit entries. Each entry gets its own
// fresh unique id; both share one timestamp so statements of the two parties
// agree on when the transfer happened.
type Recorder struct {
	now func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the timestamp source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

func New(opts ...Option) *Recorder {
	r := &Recorder{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commit assembles the atomic unit for AccountStore.ApplyTransfer: sender
// debit and recipient credit with equal amounts and reciprocal
// counterparties.
func (r *Recorder) Commit(sender, recipient *models.Account, amount id.Amount) models.LedgerCommit {
	at := r.now()
	return models.LedgerCommit{
		Sender:    sender.ID,
		Recipient: recipient.ID,
		Amount:    amount,
		DebitEntry: models.Transaction{
			ID:           id.NewTransactionID(),
			Kind:         id.KindDebit,
			Amount:       amount,
			Counterparty: recipient.Address,
			CreatedAt:    at,
		},
		CreditEntry: models.Transaction{
			ID:           id.NewTransactionID(),
			Kind:         id.KindCredit,
			Amount:       amount,
			Counterparty: sender.Address,
			CreatedAt:    at,
		},
	}
}
