package assistant

import (
	"context"
	"strings"
)

// Intent names one capability of the assistant. The classifier produces an
// Intent; dispatch is a map lookup over the registered capability set, never
// reflection.
type Intent string

const (
	IntentBalance     Intent = "balance"
	IntentHistory     Intent = "history"
	IntentTransfer    Intent = "transfer"
	IntentReportFraud Intent = "report_fraud"
	IntentStatement   Intent = "statement"
	IntentLoan        Intent = "loan"
	IntentSupport     Intent = "support"
	IntentUnknown     Intent = "unknown"
)

// Classifier decides what a banking query is asking for. The production
// implementation may call a hosted language model; RuleClassifier is the
// dependency-free default.
type Classifier interface {
	Classify(ctx context.Context, query string) (Intent, error)
}

// RuleClassifier routes on keywords, mirroring the dispatch order of the
// chat front end: explicit commands (report, statement, transfer) win over
// fuzzier inquiries.
type RuleClassifier struct{}

func NewRuleClassifier() RuleClassifier {
	return RuleClassifier{}
}

func (RuleClassifier) Classify(_ context.Context, query string) (Intent, error) {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "report"):
		return IntentReportFraud, nil
	case strings.Contains(q, "statement"):
		return IntentStatement, nil
	case strings.Contains(q, "send") && strings.Contains(q, "to"):
		return IntentTransfer, nil
	case strings.Contains(q, "balance"):
		return IntentBalance, nil
	case strings.Contains(q, "transaction") || strings.Contains(q, "history"):
		return IntentHistory, nil
	case strings.Contains(q, "loan"):
		return IntentLoan, nil
	case strings.Contains(q, "support") || strings.Contains(q, "help") || strings.Contains(q, "contact"):
		return IntentSupport, nil
	default:
		return IntentUnknown, nil
	}
}
