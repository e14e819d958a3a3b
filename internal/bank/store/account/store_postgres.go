package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
)

// PostgresStore persists accounts and ledgers in PostgreSQL. This store is
// pure I/O; check ordering and user-facing denials belong in the service.
//
// Expected schema:
//
//	accounts(id TEXT PRIMARY KEY, address TEXT UNIQUE NOT NULL,
//	         balance BIGINT NOT NULL CHECK (balance >= 0),
//	         pin_hash TEXT NOT NULL, email TEXT NOT NULL DEFAULT '',
//	         created_at TIMESTAMPTZ NOT NULL DEFAULT now())
//	transactions(id TEXT PRIMARY KEY,
//	             account_id TEXT NOT NULL REFERENCES accounts(id),
//	             kind TEXT NOT NULL, amount BIGINT NOT NULL,
//	             counterparty TEXT NOT NULL,
//	             created_at TIMESTAMPTZ NOT NULL)
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, address, balance, pin_hash, email, created_at`

func (s *PostgresStore) Get(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	return scanAccount(row)
}

func (s *PostgresStore) GetByAddress(ctx context.Context, address id.PaymentAddress) (*models.Account, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE address = $1`, address)
	return scanAccount(row)
}

func (s *PostgresStore) Save(ctx context.Context, account *models.Account) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (id, address, balance, pin_hash, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			balance = EXCLUDED.balance,
			pin_hash = EXCLUDED.pin_hash,
			email = EXCLUDED.email
	`, account.ID, account.Address, account.Balance, account.PINHash, account.Email, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// ApplyTransfer runs the whole commit in one transaction. Both rows are
// locked FOR UPDATE in ascending id order so two transfers touching the same
// pair cannot deadlock, and the balance is re-checked under the lock.
func (s *PostgresStore) ApplyTransfer(ctx context.Context, commit models.LedgerCommit) (id.Amount, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transfer tx: %w", err)
	}
	defer tx.Rollback(ctx)

	first, second := commit.Sender, commit.Recipient
	if second < first {
		first, second = second, first
	}
	for _, lockID := range []id.AccountID{first, second} {
		var discard int
		err := tx.QueryRow(ctx,
			`SELECT 1 FROM accounts WHERE id = $1 FOR UPDATE`, lockID).Scan(&discard)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, sentinel.ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("lock account %s: %w", lockID, err)
		}
	}

	var balance int64
	if err := tx.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE id = $1`, commit.Sender).Scan(&balance); err != nil {
		return 0, fmt.Errorf("read sender balance: %w", err)
	}
	if balance < int64(commit.Amount) {
		return 0, sentinel.ErrInsufficientFunds
	}

	var newBalance int64
	if commit.Sender == commit.Recipient {
		newBalance = balance
	} else {
		if err := tx.QueryRow(ctx,
			`UPDATE accounts SET balance = balance - $1 WHERE id = $2 RETURNING balance`,
			commit.Amount, commit.Sender).Scan(&newBalance); err != nil {
			return 0, fmt.Errorf("debit sender: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = balance + $1 WHERE id = $2`,
			commit.Amount, commit.Recipient); err != nil {
			return 0, fmt.Errorf("credit recipient: %w", err)
		}
	}

	for _, pair := range []struct {
		accountID id.AccountID
		entry     models.Transaction
	}{
		{commit.Sender, commit.DebitEntry},
		{commit.Recipient, commit.CreditEntry},
	} {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (id, account_id, kind, amount, counterparty, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, pair.entry.ID, pair.accountID, pair.entry.Kind, pair.entry.Amount,
			pair.entry.Counterparty, pair.entry.CreatedAt)
		if isUniqueViolation(err) {
			return 0, sentinel.ErrConflict
		}
		if err != nil {
			return 0, fmt.Errorf("append ledger entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transfer: %w", err)
	}
	return id.Amount(newBalance), nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountID id.AccountID) ([]models.Transaction, error) {
	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, kind, amount, counterparty, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var entry models.Transaction
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Amount,
			&entry.Counterparty, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Address, &account.Balance,
		&account.PINHash, &account.Email, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
