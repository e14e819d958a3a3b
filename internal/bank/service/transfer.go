package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bankbuddy/internal/audit"
	"bankbuddy/internal/bank/ledger"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/parser"
	"bankbuddy/internal/bank/ports"
	"bankbuddy/internal/platform/metrics"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
	"bankbuddy/pkg/platform/sentinel"
)

// TransferService executes single transfers as all-or-nothing operations.
// The check order is fixed: the PIN is verified before any balance or fraud
// state is consulted, so an unauthenticated caller learns nothing about the
// account.
type TransferService struct {
	accounts ports.AccountStore
	registry ports.FraudRegistry
	pins     ports.PINVerifier
	recorder *ledger.Recorder

	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor ports.AuditPublisher
	tracer  trace.Tracer
}

// TransferOption configures a TransferService.
type TransferOption func(*TransferService)

func WithTransferLogger(logger *slog.Logger) TransferOption {
	return func(s *TransferService) {
		s.logger = logger
	}
}

func WithTransferMetrics(m *metrics.Metrics) TransferOption {
	return func(s *TransferService) {
		s.metrics = m
	}
}

func WithTransferAudit(publisher ports.AuditPublisher) TransferOption {
	return func(s *TransferService) {
		s.auditor = publisher
	}
}

func NewTransferService(
	accounts ports.AccountStore,
	registry ports.FraudRegistry,
	pins ports.PINVerifier,
	recorder *ledger.Recorder,
	opts ...TransferOption,
) (*TransferService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("fraud registry is required")
	}
	if pins == nil {
		return nil, fmt.Errorf("pin verifier is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("ledger recorder is required")
	}

	svc := &TransferService{
		accounts: accounts,
		registry: registry,
		pins:     pins,
		recorder: recorder,
		tracer:   otel.Tracer("bankbuddy/bank/transfer"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ExecuteText is the inbound operation over raw instruction text: parse,
// then execute. Callers get either a committed result or a reason-coded
// denial; internal errors never cross this boundary un-coded.
func (s *TransferService) ExecuteText(ctx context.Context, caller id.AccountID, raw string) (*models.TransferResult, error) {
	req, err := parser.ParseTransfer(raw)
	if err != nil {
		s.recordDenial(ctx, caller, err)
		return nil, err
	}
	return s.Execute(ctx, caller, req)
}

// Execute runs the ordered check sequence and the atomic commit.
func (s *TransferService) Execute(ctx context.Context, caller id.AccountID, req models.TransferRequest) (*models.TransferResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "transfer.execute",
		trace.WithAttributes(attribute.Int64("transfer.amount", int64(req.Amount))))
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveTransfer(start)
		}
	}()

	result, err := s.execute(ctx, caller, req)
	if err != nil {
		span.SetStatus(codes.Error, string(reasonOf(err)))
		s.recordDenial(ctx, caller, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("transfer.txn_id", result.TransactionID.String()))
	if s.metrics != nil {
		s.metrics.TransfersCommitted.Inc()
	}
	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		Actor:     caller.String(),
		Action:    audit.ActionTransfer,
		Outcome:   audit.OutcomeCommitted,
		Reference: result.TransactionID.String(),
	}, "amount", int64(req.Amount), "recipient", req.Recipient.String())
	return result, nil
}

func (s *TransferService) execute(ctx context.Context, caller id.AccountID, req models.TransferRequest) (*models.TransferResult, error) {
	// 1. Lookup sender.
	sender, err := s.accounts.Get(ctx, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, models.Deny(models.ReasonSenderNotFound, "account not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transfer failed")
	}

	// 2. Authenticate before anything about the account can leak.
	if err := s.pins.Verify(req.PIN, sender.PINHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, models.Deny(models.ReasonInvalidPIN, "incorrect PIN, transaction cancelled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transfer failed")
	}

	// 3. Authorize funds. The store re-checks under its commit lock; this
	// pre-check exists so denial ordering stays stable for the caller.
	if req.Amount > sender.Balance {
		return nil, models.Deny(models.ReasonInsufficientFunds, "insufficient balance")
	}

	// 4. Resolve the recipient address.
	binding, err := s.registry.Resolve(ctx, req.Recipient)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, models.Deny(models.ReasonAddressNotFound, "payment address not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transfer failed")
	}

	// 5. Fraud check.
	if binding.IsFraud {
		return nil, models.Deny(models.ReasonFraudulentRecipient,
			"transaction cancelled: the recipient address is flagged for fraudulent activity")
	}

	// 6. Resolve the recipient account. A registered address pointing at a
	// missing account is a data-integrity fault, not a user error.
	recipient, err := s.accounts.Get(ctx, binding.OwnerAccount)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.recordIntegrityFault(ctx, caller, binding.OwnerAccount, req.Recipient)
		return nil, models.DenyWrap(err, models.ReasonRecipientAccountMissing,
			"transfer temporarily unavailable, please try again later")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transfer failed")
	}

	// 7. Commit: debit, credit, and both ledger appends, atomically.
	commit := s.recorder.Commit(sender, recipient, req.Amount)
	newBalance, err := s.accounts.ApplyTransfer(ctx, commit)
	if err != nil {
		if errors.Is(err, sentinel.ErrInsufficientFunds) {
			// A concurrent transfer won the race for these funds.
			return nil, models.Deny(models.ReasonInsufficientFunds, "insufficient balance")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transfer failed")
	}

	return &models.TransferResult{
		TransactionID: commit.DebitEntry.ID,
		NewBalance:    newBalance,
		Message: fmt.Sprintf("%s sent to %s. Your new balance is %s.",
			req.Amount, req.Recipient, newBalance),
	}, nil
}

func (s *TransferService) recordDenial(ctx context.Context, caller id.AccountID, err error) {
	reason := reasonOf(err)
	if s.metrics != nil {
		s.metrics.DenyTransfer(string(reason))
	}
	if denial, ok := models.AsDenial(err); ok && denial.Reason != models.ReasonRecipientAccountMissing {
		ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
			Actor:   caller.String(),
			Action:  audit.ActionTransfer,
			Outcome: audit.OutcomeDenied,
			Detail:  string(denial.Reason),
		})
	}
}

// recordIntegrityFault logs and audits a registry binding whose account is
// gone. This must page, not pass as a user mistake.
func (s *TransferService) recordIntegrityFault(ctx context.Context, caller, missing id.AccountID, address id.PaymentAddress) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "fraud registry references missing account",
			"address", address.String(),
			"owner_account", missing.String(),
		)
	}
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			Actor:     caller.String(),
			Action:    audit.ActionTransfer,
			Outcome:   audit.OutcomeFault,
			Reference: address.String(),
			Detail:    string(models.ReasonRecipientAccountMissing),
		})
	}
}

func reasonOf(err error) models.Reason {
	if denial, ok := models.AsDenial(err); ok {
		return denial.Reason
	}
	return "internal"
}
