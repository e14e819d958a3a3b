package fraud

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
)

// PostgresStore persists address bindings in PostgreSQL.
//
// Expected schema:
//
//	payment_addresses(address TEXT PRIMARY KEY,
//	                  owner_account TEXT NOT NULL REFERENCES accounts(id),
//	                  is_fraud BOOLEAN NOT NULL DEFAULT FALSE)
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Resolve(ctx context.Context, address id.PaymentAddress) (*models.AddressBinding, error) {
	var binding models.AddressBinding
	err := s.db.QueryRow(ctx, `
		SELECT address, owner_account, is_fraud
		FROM payment_addresses
		WHERE address = $1
	`, address).Scan(&binding.Address, &binding.OwnerAccount, &binding.IsFraud)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve address: %w", err)
	}
	return &binding, nil
}

// SetFraud is monotonic: the update never writes FALSE, so the flag cannot
// regress even under concurrent reports.
func (s *PostgresStore) SetFraud(ctx context.Context, address id.PaymentAddress) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE payment_addresses SET is_fraud = TRUE WHERE address = $1
	`, address)
	if err != nil {
		return fmt.Errorf("set fraud flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, binding *models.AddressBinding) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO payment_addresses (address, owner_account, is_fraud)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE SET
			owner_account = EXCLUDED.owner_account,
			is_fraud = payment_addresses.is_fraud OR EXCLUDED.is_fraud
	`, binding.Address, binding.OwnerAccount, binding.IsFraud)
	if err != nil {
		return fmt.Errorf("save address binding: %w", err)
	}
	return nil
}
