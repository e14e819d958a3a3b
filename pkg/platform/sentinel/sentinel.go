package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: concurrent modification lost the race
// - ErrInsufficientFunds: commit-time balance re-check failed
// - ErrFraudFlagged: destination address carries the fraud flag
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrFraudFlagged      = errors.New("fraud flagged")
	ErrUnavailable       = errors.New("unavailable")
)
