package audit

import "time"

// Event is emitted from domain logic to capture money-movement and fraud
// actions. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Reference string    `json:"reference,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions recorded by the transfer subsystem.
const (
	ActionTransfer      = "transfer"
	ActionFraudReport   = "fraud_report"
	ActionStatementSent = "statement_sent"
)

// Outcomes attached to audit events.
const (
	OutcomeCommitted = "committed"
	OutcomeDenied    = "denied"
	OutcomeFault     = "integrity_fault"
	OutcomeOK        = "ok"
)
