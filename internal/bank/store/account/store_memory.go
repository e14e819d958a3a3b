package account

import (
	"context"
	"sync"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts and ledgers in process. It favors clarity
// over performance and is the default when no database is configured.
//
// ApplyTransfer runs under a single write lock, so the whole four-part
// mutation is one critical section: concurrent transfers against the same
// accounts serialize here the way row locks serialize them in Postgres.
type InMemoryStore struct {
	mu        sync.RWMutex
	accounts  map[id.AccountID]models.Account
	byAddress map[id.PaymentAddress]id.AccountID
	ledgers   map[id.AccountID][]models.Transaction
	seenTxn   map[id.TransactionID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts:  make(map[id.AccountID]models.Account),
		byAddress: make(map[id.PaymentAddress]id.AccountID),
		ledgers:   make(map[id.AccountID][]models.Transaction),
		seenTxn:   make(map[id.TransactionID]struct{}),
	}
}

func (s *InMemoryStore) Get(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &account, nil
}

func (s *InMemoryStore) GetByAddress(_ context.Context, address id.PaymentAddress) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byAddress[address]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	account := s.accounts[accountID]
	return &account, nil
}

func (s *InMemoryStore) Save(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = *account
	if !account.Address.IsNil() {
		s.byAddress[account.Address] = account.ID
	}
	return nil
}

// ApplyTransfer commits the transfer or applies nothing. The sender balance
// is re-validated here because the service's funds pre-check may have raced
// another transfer.
func (s *InMemoryStore) ApplyTransfer(_ context.Context, commit models.LedgerCommit) (id.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.accounts[commit.Sender]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	recipient, ok := s.accounts[commit.Recipient]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	if sender.Balance < commit.Amount {
		return 0, sentinel.ErrInsufficientFunds
	}
	if _, dup := s.seenTxn[commit.DebitEntry.ID]; dup {
		return 0, sentinel.ErrConflict
	}
	if _, dup := s.seenTxn[commit.CreditEntry.ID]; dup {
		return 0, sentinel.ErrConflict
	}

	if commit.Sender == commit.Recipient {
		// Self-transfer nets to zero; only the ledger entries land.
		s.ledgers[commit.Sender] = append(s.ledgers[commit.Sender],
			commit.DebitEntry, commit.CreditEntry)
		s.seenTxn[commit.DebitEntry.ID] = struct{}{}
		s.seenTxn[commit.CreditEntry.ID] = struct{}{}
		return sender.Balance, nil
	}

	sender.Balance -= commit.Amount
	recipient.Balance += commit.Amount
	s.accounts[commit.Sender] = sender
	s.accounts[commit.Recipient] = recipient
	s.ledgers[commit.Sender] = append(s.ledgers[commit.Sender], commit.DebitEntry)
	s.ledgers[commit.Recipient] = append(s.ledgers[commit.Recipient], commit.CreditEntry)
	s.seenTxn[commit.DebitEntry.ID] = struct{}{}
	s.seenTxn[commit.CreditEntry.ID] = struct{}{}
	return sender.Balance, nil
}

func (s *InMemoryStore) ListTransactions(_ context.Context, accountID id.AccountID) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	entries := s.ledgers[accountID]
	// Insertion order is chronological; statements read newest first.
	out := make([]models.Transaction, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out, nil
}
