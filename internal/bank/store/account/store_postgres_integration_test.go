//go:build integration

package account_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bankbuddy/internal/bank/ledger"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/store/account"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
	"bankbuddy/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *account.PostgresStore
	recorder *ledger.Recorder
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = account.NewPostgres(s.postgres.DB)
	s.recorder = ledger.New()
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"payment_addresses", "transactions", "accounts")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seed(accountID, address string, balance int64) *models.Account {
	acc := &models.Account{
		ID:        id.AccountID(accountID),
		Address:   id.PaymentAddress(address),
		Balance:   id.Amount(balance),
		PINHash:   "hash",
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.store.Save(context.Background(), acc))
	return acc
}

func (s *PostgresStoreSuite) TestSaveAndGet() {
	ctx := context.Background()
	s.seed("acc_alice", "alice@okhdfc", 1000)

	got, err := s.store.Get(ctx, "acc_alice")
	s.Require().NoError(err)
	s.Equal(id.Amount(1000), got.Balance)
	s.Equal(id.PaymentAddress("alice@okhdfc"), got.Address)

	byAddr, err := s.store.GetByAddress(ctx, "alice@okhdfc")
	s.Require().NoError(err)
	s.Equal(got.ID, byAddr.ID)

	_, err = s.store.Get(ctx, "acc_missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestApplyTransferCommitsAtomically() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 1000)
	bob := s.seed("acc_bob", "bob@oksbi", 200)

	newBalance, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, bob, 300))
	s.Require().NoError(err)
	s.Equal(id.Amount(700), newBalance)

	gotBob, err := s.store.Get(ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(500), gotBob.Balance)

	aliceLedger, err := s.store.ListTransactions(ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(aliceLedger, 1)
	s.Equal(id.KindDebit, aliceLedger[0].Kind)

	bobLedger, err := s.store.ListTransactions(ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(bobLedger, 1)
	s.Equal(id.KindCredit, bobLedger[0].Kind)
	s.Equal(id.PaymentAddress("alice@okhdfc"), bobLedger[0].Counterparty)
}

func (s *PostgresStoreSuite) TestApplyTransferInsufficientFundsLeavesNoTrace() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 100)
	bob := s.seed("acc_bob", "bob@oksbi", 0)

	_, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, bob, 101))
	s.ErrorIs(err, sentinel.ErrInsufficientFunds)

	gotAlice, err := s.store.Get(ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(100), gotAlice.Balance)

	entries, err := s.store.ListTransactions(ctx, alice.ID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PostgresStoreSuite) TestApplyTransferDuplicateEntryID() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 1000)
	bob := s.seed("acc_bob", "bob@oksbi", 0)

	commit := s.recorder.Commit(alice, bob, 100)
	_, err := s.store.ApplyTransfer(ctx, commit)
	s.Require().NoError(err)

	_, err = s.store.ApplyTransfer(ctx, commit)
	s.ErrorIs(err, sentinel.ErrConflict)

	gotAlice, err := s.store.Get(ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(900), gotAlice.Balance)
}

func (s *PostgresStoreSuite) TestApplyTransferToSelf() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 1000)

	newBalance, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, alice, 250))
	s.Require().NoError(err)
	s.Equal(id.Amount(1000), newBalance)

	entries, err := s.store.ListTransactions(ctx, alice.ID)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *PostgresStoreSuite) TestApplyTransferMissingRecipientRow() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 1000)
	ghost := &models.Account{ID: "acc_ghost", Address: "ghost@okbank"}

	_, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, ghost, 100))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentTransfersSerializeOnRowLocks hammers one sender from many
// connections. Row locks plus the in-transaction balance re-check must admit
// exactly as many transfers as the opening balance covers.
func (s *PostgresStoreSuite) TestConcurrentTransfersSerializeOnRowLocks() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 500)
	bob := s.seed("acc_bob", "bob@oksbi", 0)

	const goroutines = 20
	const amount = 100 // only 5 can succeed

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, bob, amount))
			if err == nil {
				successes.Add(1)
				return
			}
			if !errors.Is(err, sentinel.ErrInsufficientFunds) {
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(5), successes.Load())

	gotAlice, err := s.store.Get(ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(0), gotAlice.Balance)

	gotBob, err := s.store.Get(ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(500), gotBob.Balance)
}

// TestOpposingTransfersDoNotDeadlock commits A→B and B→A concurrently many
// times; ordered locking must keep every round free of deadlock errors.
func (s *PostgresStoreSuite) TestOpposingTransfersDoNotDeadlock() {
	ctx := context.Background()
	alice := s.seed("acc_alice", "alice@okhdfc", 10000)
	bob := s.seed("acc_bob", "bob@oksbi", 10000)

	const rounds = 25
	var wg sync.WaitGroup
	errCh := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(alice, bob, 10))
			errCh <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.store.ApplyTransfer(ctx, s.recorder.Commit(bob, alice, 10))
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		s.NoError(err)
	}

	gotAlice, err := s.store.Get(ctx, alice.ID)
	s.Require().NoError(err)
	gotBob, err := s.store.Get(ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal(id.Amount(20000), gotAlice.Balance+gotBob.Balance)
}
