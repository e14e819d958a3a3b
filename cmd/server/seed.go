package main

import (
	"context"
	"fmt"
	"time"

	"bankbuddy/internal/auth/pin"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/ports"
	id "bankbuddy/pkg/domain"
)

type demoAccount struct {
	accountID string
	address   string
	balance   int64
	pin       string
	email     string
	isFraud   bool
}

// Demo fixtures for memory mode. The fraudster address exists so the fraud
// denial path can be exercised without provisioning.
var demoAccounts = []demoAccount{
	{accountID: "acc_alice", address: "alice@okhdfc", balance: 10000, pin: "1234", email: "alice@example.com"},
	{accountID: "acc_bob", address: "bob@oksbi", balance: 5000, pin: "4321", email: "bob@example.com"},
	{accountID: "acc_scammer", address: "scammer@okfraud", balance: 0, pin: "9999", email: "", isFraud: true},
}

func seedDemoAccounts(ctx context.Context, accounts ports.AccountStore, registry ports.FraudRegistry) error {
	for _, demo := range demoAccounts {
		address, err := id.ParsePaymentAddress(demo.address)
		if err != nil {
			return fmt.Errorf("seed %s: %w", demo.accountID, err)
		}
		hash, err := pin.Hash(demo.pin)
		if err != nil {
			return fmt.Errorf("seed %s: %w", demo.accountID, err)
		}

		account := &models.Account{
			ID:        id.AccountID(demo.accountID),
			Address:   address,
			Balance:   id.Amount(demo.balance),
			PINHash:   hash,
			Email:     demo.email,
			CreatedAt: time.Now(),
		}
		if err := accounts.Save(ctx, account); err != nil {
			return fmt.Errorf("seed %s: %w", demo.accountID, err)
		}

		binding := &models.AddressBinding{
			Address:      address,
			OwnerAccount: account.ID,
			IsFraud:      demo.isFraud,
		}
		if err := registry.Save(ctx, binding); err != nil {
			return fmt.Errorf("seed %s: %w", demo.accountID, err)
		}
	}
	return nil
}
