package assistant

import (
	"context"
	"fmt"
	"strings"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

// TransferRunner is what the transfer capability needs from the bank layer.
type TransferRunner interface {
	ExecuteText(ctx context.Context, caller id.AccountID, raw string) (*models.TransferResult, error)
}

// FraudReporter is what the report capability needs.
type FraudReporter interface {
	ReportText(ctx context.Context, reporter id.AccountID, raw string) (string, error)
}

// AccountReader is what the read-side capabilities need.
type AccountReader interface {
	Balance(ctx context.Context, caller id.AccountID) (id.Amount, error)
	Transactions(ctx context.Context, caller id.AccountID) ([]models.Transaction, error)
	EmailStatement(ctx context.Context, caller id.AccountID) (string, error)
}

// TransferCapability moves money on instruction.
type TransferCapability struct {
	transfers TransferRunner
}

func NewTransferCapability(transfers TransferRunner) *TransferCapability {
	return &TransferCapability{transfers: transfers}
}

func (*TransferCapability) Intent() Intent { return IntentTransfer }

func (c *TransferCapability) Handle(ctx context.Context, req Request) (string, error) {
	result, err := c.transfers.ExecuteText(ctx, req.Caller, req.Query)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// ReportFraudCapability flags payment addresses.
type ReportFraudCapability struct {
	reports FraudReporter
}

func NewReportFraudCapability(reports FraudReporter) *ReportFraudCapability {
	return &ReportFraudCapability{reports: reports}
}

func (*ReportFraudCapability) Intent() Intent { return IntentReportFraud }

func (c *ReportFraudCapability) Handle(ctx context.Context, req Request) (string, error) {
	return c.reports.ReportText(ctx, req.Caller, req.Query)
}

// BalanceCapability answers balance inquiries.
type BalanceCapability struct {
	accounts AccountReader
}

func NewBalanceCapability(accounts AccountReader) *BalanceCapability {
	return &BalanceCapability{accounts: accounts}
}

func (*BalanceCapability) Intent() Intent { return IntentBalance }

func (c *BalanceCapability) Handle(ctx context.Context, req Request) (string, error) {
	balance, err := c.accounts.Balance(ctx, req.Caller)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your current balance is %s.", balance), nil
}

// HistoryCapability lists recent transactions.
type HistoryCapability struct {
	accounts AccountReader
}

func NewHistoryCapability(accounts AccountReader) *HistoryCapability {
	return &HistoryCapability{accounts: accounts}
}

func (*HistoryCapability) Intent() Intent { return IntentHistory }

func (c *HistoryCapability) Handle(ctx context.Context, req Request) (string, error) {
	entries, err := c.accounts.Transactions(ctx, req.Caller)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No recent transactions found.", nil
	}

	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s | %s | %s",
			strings.ToUpper(string(entry.Kind)[:1])+string(entry.Kind)[1:],
			entry.Amount,
			entry.Counterparty,
			entry.CreatedAt.Format("02 Jan 2006, 15:04"),
		)
	}
	return b.String(), nil
}

// StatementCapability mails the full ledger.
type StatementCapability struct {
	accounts AccountReader
}

func NewStatementCapability(accounts AccountReader) *StatementCapability {
	return &StatementCapability{accounts: accounts}
}

func (*StatementCapability) Intent() Intent { return IntentStatement }

func (c *StatementCapability) Handle(ctx context.Context, req Request) (string, error) {
	return c.accounts.EmailStatement(ctx, req.Caller)
}

// StaticCapability answers with canned text; used for loan and support
// inquiries that route out of the assistant.
type StaticCapability struct {
	intent Intent
	reply  string
}

func NewStaticCapability(intent Intent, reply string) *StaticCapability {
	return &StaticCapability{intent: intent, reply: reply}
}

func (c *StaticCapability) Intent() Intent { return c.intent }

func (c *StaticCapability) Handle(context.Context, Request) (string, error) {
	return c.reply, nil
}
