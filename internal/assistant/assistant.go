// Package assistant is the thin conversational layer over the banking
// services: greeting detection, intent classification, and dispatch over a
// fixed capability set. All state of record lives behind the services; the
// assistant holds none.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
)

// Request is one user turn, with the authenticated caller attached
// explicitly; there is no cross-request session state.
type Request struct {
	Caller id.AccountID
	Query  string
}

// Capability handles one intent.
type Capability interface {
	Intent() Intent
	Handle(ctx context.Context, req Request) (string, error)
}

const (
	greetingReply = "I am BankBuddy, your banking assistant. How can I help you today?"
	offTopicReply = "I am a banking assistant. Please ask me about your accounts, transfers, or reports."
	fallbackReply = "I'm sorry, I couldn't understand that. Can you rephrase?"
)

// Assistant routes user turns to capabilities.
type Assistant struct {
	classifier   Classifier
	capabilities map[Intent]Capability
	logger       *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

func New(classifier Classifier, capabilities []Capability, opts ...Option) (*Assistant, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	byIntent := make(map[Intent]Capability, len(capabilities))
	for _, c := range capabilities {
		if _, dup := byIntent[c.Intent()]; dup {
			return nil, fmt.Errorf("duplicate capability for intent %q", c.Intent())
		}
		byIntent[c.Intent()] = c
	}

	a := &Assistant{classifier: classifier, capabilities: byIntent}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Respond produces the reply for one user turn. Failures from capabilities
// are translated to user-safe text here; nothing internal leaks into chat.
func (a *Assistant) Respond(ctx context.Context, caller id.AccountID, query string) string {
	if IsGreeting(query) {
		return greetingReply
	}

	intent, err := a.classifier.Classify(ctx, query)
	if err != nil {
		if a.logger != nil {
			a.logger.WarnContext(ctx, "intent classification failed", "error", err.Error())
		}
		return fallbackReply
	}
	if intent == IntentUnknown {
		return offTopicReply
	}

	capability, ok := a.capabilities[intent]
	if !ok {
		return offTopicReply
	}

	reply, err := capability.Handle(ctx, Request{Caller: caller, Query: query})
	if err != nil {
		return a.explain(ctx, intent, err)
	}
	return reply
}

func (a *Assistant) explain(ctx context.Context, intent Intent, err error) string {
	if denial, ok := models.AsDenial(err); ok {
		return denial.Message
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	if a.logger != nil {
		a.logger.ErrorContext(ctx, "capability failed",
			"intent", string(intent),
			"error", err.Error(),
		)
	}
	return "something went wrong, please try again later"
}
