package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bankbuddy/internal/audit"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/ports"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
	"bankbuddy/pkg/platform/sentinel"
)

// AccountService serves the read-side operations: balance inquiry,
// transaction history, and emailed statements.
type AccountService struct {
	accounts ports.AccountStore
	mailer   ports.Mailer
	logger   *slog.Logger
	auditor  ports.AuditPublisher
}

// AccountOption configures an AccountService.
type AccountOption func(*AccountService)

func WithAccountLogger(logger *slog.Logger) AccountOption {
	return func(s *AccountService) {
		s.logger = logger
	}
}

func WithAccountMailer(mailer ports.Mailer) AccountOption {
	return func(s *AccountService) {
		s.mailer = mailer
	}
}

func WithAccountAudit(publisher ports.AuditPublisher) AccountOption {
	return func(s *AccountService) {
		s.auditor = publisher
	}
}

func NewAccountService(accounts ports.AccountStore, opts ...AccountOption) (*AccountService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	svc := &AccountService{accounts: accounts}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Balance returns the caller's current balance.
func (s *AccountService) Balance(ctx context.Context, caller id.AccountID) (id.Amount, error) {
	account, err := s.accounts.Get(ctx, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "balance unavailable")
	}
	return account.Balance, nil
}

// Transactions returns the caller's ledger, newest first.
func (s *AccountService) Transactions(ctx context.Context, caller id.AccountID) ([]models.Transaction, error) {
	entries, err := s.accounts.ListTransactions(ctx, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transactions unavailable")
	}
	return entries, nil
}

// EmailStatement formats the caller's full ledger and mails it to the
// account's email address.
func (s *AccountService) EmailStatement(ctx context.Context, caller id.AccountID) (string, error) {
	if s.mailer == nil {
		return "", dErrors.New(dErrors.CodeUnavailable, "statement email is not configured")
	}

	account, err := s.accounts.Get(ctx, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "statement unavailable")
	}
	if account.Email == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "no email address on file")
	}

	entries, err := s.accounts.ListTransactions(ctx, caller)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "statement unavailable")
	}
	if len(entries) == 0 {
		return "no recent transactions found", nil
	}

	body := FormatStatement(entries)
	if err := s.mailer.Send(ctx, account.Email, "Your Transaction History", body); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "statement email failed", "error", err.Error())
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send statement email")
	}

	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		Actor:   caller.String(),
		Action:  audit.ActionStatementSent,
		Outcome: audit.OutcomeOK,
	})
	return "statement sent to your email address", nil
}

// FormatStatement renders ledger entries as the plain-text statement body,
// newest first.
func FormatStatement(entries []models.Transaction) string {
	var b strings.Builder
	b.WriteString("Hello,\n\nHere are your transactions:\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s %s | %s | %s | %s\n",
			titleKind(entry.Kind),
			entry.Amount,
			entry.Counterparty,
			entry.ID,
			entry.CreatedAt.Format("02 Jan 2006, 15:04"),
		)
	}
	b.WriteString("\nBest regards,\nBankBuddy\n")
	return b.String()
}

func titleKind(kind id.TransactionKind) string {
	switch kind {
	case id.KindDebit:
		return "Debit"
	case id.KindCredit:
		return "Credit"
	default:
		return string(kind)
	}
}
