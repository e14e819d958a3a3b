package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bankbuddy/internal/audit"
	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/bank/parser"
	"bankbuddy/internal/bank/ports"
	"bankbuddy/internal/platform/metrics"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
	"bankbuddy/pkg/platform/sentinel"
)

// FraudService flags payment addresses as fraudulent. Flagging is monotonic
// and idempotent; there is no reversal operation.
type FraudService struct {
	registry ports.FraudRegistry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  ports.AuditPublisher
}

// FraudOption configures a FraudService.
type FraudOption func(*FraudService)

func WithFraudLogger(logger *slog.Logger) FraudOption {
	return func(s *FraudService) {
		s.logger = logger
	}
}

func WithFraudMetrics(m *metrics.Metrics) FraudOption {
	return func(s *FraudService) {
		s.metrics = m
	}
}

func WithFraudAudit(publisher ports.AuditPublisher) FraudOption {
	return func(s *FraudService) {
		s.auditor = publisher
	}
}

func NewFraudService(registry ports.FraudRegistry, opts ...FraudOption) (*FraudService, error) {
	if registry == nil {
		return nil, fmt.Errorf("fraud registry is required")
	}
	svc := &FraudService{registry: registry}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ReportText parses a "report <address>" instruction and flags the address.
func (s *FraudService) ReportText(ctx context.Context, reporter id.AccountID, raw string) (string, error) {
	address, err := parser.ParseFraudReport(raw)
	if err != nil {
		return "", err
	}
	return s.Report(ctx, reporter, address)
}

// Report flags an address. Reporting an already-flagged address is a no-op
// success.
func (s *FraudService) Report(ctx context.Context, reporter id.AccountID, address id.PaymentAddress) (string, error) {
	if err := s.registry.SetFraud(ctx, address); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", models.Deny(models.ReasonAddressNotFound, "payment address not found, unable to report")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "fraud report failed")
	}

	if s.metrics != nil {
		s.metrics.FraudReports.Inc()
	}
	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		Actor:     reporter.String(),
		Action:    audit.ActionFraudReport,
		Outcome:   audit.OutcomeOK,
		Reference: address.String(),
	})

	return fmt.Sprintf("%s has been marked as fraudulent", address), nil
}
