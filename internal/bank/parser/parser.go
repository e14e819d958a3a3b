// Package parser extracts structured banking requests from free chat text.
// Parsing has no side effects; every failure carries a user-facing usage
// hint instead of internal detail.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

// TransferUsageHint is shown whenever a transfer instruction cannot be read.
const TransferUsageHint = "could not read that transfer. Try: send 100rs to name@upi pin=1234"

// ReportUsageHint is shown whenever a fraud report cannot be read.
const ReportUsageHint = "could not read that report. Try: report name@upi"

// Expected shape: "<amount><currency marker> ... <address> ... pin=<digits>",
// in that relative order; surrounding words are ignored.
var (
	reTransfer = regexp.MustCompile(`(?i)(\d+)\s*(?:rs\b|rupees\b|inr\b|₹)[\s\S]*?([a-z0-9][a-z0-9._-]*@[a-z][a-z0-9]*)\b[\s\S]*?\bpin\s*[=: ]\s*(\d{4,6})\b`)
	reReport   = regexp.MustCompile(`(?i)\breport\s+([a-z0-9][a-z0-9._-]*@[a-z][a-z0-9]*)\b`)
)

// ParseTransfer extracts amount, recipient address, and PIN from a transfer
// instruction. Fails with a malformed_request denial when any of the three
// cannot be located.
func ParseTransfer(text string) (models.TransferRequest, error) {
	m := reTransfer.FindStringSubmatch(text)
	if m == nil {
		return models.TransferRequest{}, models.Deny(models.ReasonMalformedRequest, TransferUsageHint)
	}

	raw, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return models.TransferRequest{}, models.Deny(models.ReasonMalformedRequest, TransferUsageHint)
	}
	amount, err := id.ParseAmount(raw)
	if err != nil {
		return models.TransferRequest{}, models.Deny(models.ReasonMalformedRequest, TransferUsageHint)
	}

	address, err := id.ParsePaymentAddress(m[2])
	if err != nil {
		return models.TransferRequest{}, models.Deny(models.ReasonMalformedRequest, TransferUsageHint)
	}

	return models.TransferRequest{
		Amount:    amount,
		Recipient: address,
		PIN:       m[3],
	}, nil
}

// ParseFraudReport extracts the reported address from report text.
func ParseFraudReport(text string) (id.PaymentAddress, error) {
	m := reReport.FindStringSubmatch(text)
	if m == nil {
		return "", models.Deny(models.ReasonMalformedRequest, ReportUsageHint)
	}
	return id.ParsePaymentAddress(m[1])
}

// LooksLikeTransfer reports whether text resembles a transfer instruction.
// Used for routing only; ParseTransfer remains the authority on validity.
func LooksLikeTransfer(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "send") && strings.Contains(lower, "to")
}

// LooksLikeReport reports whether text resembles a fraud report.
func LooksLikeReport(text string) bool {
	return strings.Contains(strings.ToLower(text), "report")
}
