//go:build integration

package fraud_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	accountstore "bankbuddy/internal/bank/store/account"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/store/fraud"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
	"bankbuddy/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	accounts *accountstore.PostgresStore
	store    *fraud.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.accounts = accountstore.NewPostgres(s.postgres.DB)
	s.store = fraud.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "payment_addresses", "transactions", "accounts")
	s.Require().NoError(err)

	s.Require().NoError(s.accounts.Save(ctx, &models.Account{
		ID:        "acc_bob",
		Address:   "bob@oksbi",
		PINHash:   "hash",
		CreatedAt: time.Now(),
	}))
	s.Require().NoError(s.store.Save(ctx, &models.AddressBinding{
		Address:      "bob@oksbi",
		OwnerAccount: "acc_bob",
	}))
}

func (s *PostgresStoreSuite) TestResolve() {
	ctx := context.Background()

	binding, err := s.store.Resolve(ctx, "bob@oksbi")
	s.Require().NoError(err)
	s.Equal(id.AccountID("acc_bob"), binding.OwnerAccount)
	s.False(binding.IsFraud)

	_, err = s.store.Resolve(ctx, "nobody@oksbi")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSetFraud() {
	ctx := context.Background()

	s.Require().NoError(s.store.SetFraud(ctx, "bob@oksbi"))
	s.Require().NoError(s.store.SetFraud(ctx, "bob@oksbi"))

	binding, err := s.store.Resolve(ctx, "bob@oksbi")
	s.Require().NoError(err)
	s.True(binding.IsFraud)

	s.ErrorIs(s.store.SetFraud(ctx, "nobody@oksbi"), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveNeverClearsFraudFlag() {
	ctx := context.Background()

	s.Require().NoError(s.store.SetFraud(ctx, "bob@oksbi"))

	// Re-registering the binding with the flag unset must not unflag it.
	s.Require().NoError(s.store.Save(ctx, &models.AddressBinding{
		Address:      "bob@oksbi",
		OwnerAccount: "acc_bob",
	}))

	binding, err := s.store.Resolve(ctx, "bob@oksbi")
	s.Require().NoError(err)
	s.True(binding.IsFraud)
}
