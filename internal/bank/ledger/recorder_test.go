package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

func TestCommit(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	recorder := New(WithClock(func() time.Time { return fixed }))

	sender := &models.Account{ID: "acc_alice", Address: "alice@okhdfc"}
	recipient := &models.Account{ID: "acc_bob", Address: "bob@oksbi"}

	commit := recorder.Commit(sender, recipient, 100)

	require.Equal(t, sender.ID, commit.Sender)
	require.Equal(t, recipient.ID, commit.Recipient)
	assert.Equal(t, id.Amount(100), commit.Amount)

	t.Run("paired entries mirror each other", func(t *testing.T) {
		assert.Equal(t, id.KindDebit, commit.DebitEntry.Kind)
		assert.Equal(t, id.KindCredit, commit.CreditEntry.Kind)
		assert.Equal(t, commit.DebitEntry.Amount, commit.CreditEntry.Amount)
		assert.Equal(t, recipient.Address, commit.DebitEntry.Counterparty)
		assert.Equal(t, sender.Address, commit.CreditEntry.Counterparty)
	})

	t.Run("entries share one timestamp", func(t *testing.T) {
		assert.Equal(t, fixed, commit.DebitEntry.CreatedAt)
		assert.Equal(t, fixed, commit.CreditEntry.CreatedAt)
	})

	t.Run("every entry id is fresh", func(t *testing.T) {
		assert.NotEqual(t, commit.DebitEntry.ID, commit.CreditEntry.ID)

		second := recorder.Commit(sender, recipient, 100)
		assert.NotEqual(t, commit.DebitEntry.ID, second.DebitEntry.ID)
		assert.NotEqual(t, commit.CreditEntry.ID, second.CreditEntry.ID)
	})
}
