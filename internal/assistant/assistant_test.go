package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
)

func TestIsGreeting(t *testing.T) {
	t.Run("exact greetings", func(t *testing.T) {
		for _, text := range []string{"hi", "Hello", "HEY", "good morning", "  hii  "} {
			assert.True(t, IsGreeting(text), "text %q", text)
		}
	})

	t.Run("near misses still greet", func(t *testing.T) {
		for _, text := range []string{"helo", "good mornin"} {
			assert.True(t, IsGreeting(text), "text %q", text)
		}
	})

	t.Run("non-greetings", func(t *testing.T) {
		for _, text := range []string{"", "what is my balance", "send 100rs to bob@oksbi pin=1234", "goodbye forever"} {
			assert.False(t, IsGreeting(text), "text %q", text)
		}
	})
}

func TestRuleClassifier(t *testing.T) {
	classifier := NewRuleClassifier()
	ctx := context.Background()

	cases := []struct {
		query string
		want  Intent
	}{
		{"send 100rs to bob@oksbi pin=1234", IntentTransfer},
		{"what is my balance", IntentBalance},
		{"show my transaction history", IntentHistory},
		{"last transactions please", IntentHistory},
		{"report scammer@okfraud", IntentReportFraud},
		{"email me my statement", IntentStatement},
		{"I want a loan", IntentLoan},
		{"help me contact someone", IntentSupport},
		{"what's the weather", IntentUnknown},
	}
	for _, tc := range cases {
		got, err := classifier.Classify(ctx, tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "query %q", tc.query)
	}

	t.Run("report wins over transfer keywords", func(t *testing.T) {
		got, err := classifier.Classify(ctx, "report the guy I sent money to")
		require.NoError(t, err)
		assert.Equal(t, IntentReportFraud, got)
	})
}

type stubCapability struct {
	intent Intent
	reply  string
	err    error
}

func (c stubCapability) Intent() Intent { return c.intent }
func (c stubCapability) Handle(context.Context, Request) (string, error) {
	return c.reply, c.err
}

func newAssistant(t *testing.T, capabilities ...Capability) *Assistant {
	t.Helper()
	a, err := New(NewRuleClassifier(), capabilities)
	require.NoError(t, err)
	return a
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	caller := id.AccountID("acc_alice")

	t.Run("greets before classifying", func(t *testing.T) {
		a := newAssistant(t)
		reply := a.Respond(ctx, caller, "hello")
		assert.Equal(t, greetingReply, reply)
	})

	t.Run("dispatches to the matching capability", func(t *testing.T) {
		a := newAssistant(t, stubCapability{intent: IntentBalance, reply: "Your balance is ₹1000"})
		reply := a.Respond(ctx, caller, "what is my balance")
		assert.Equal(t, "Your balance is ₹1000", reply)
	})

	t.Run("off-topic queries get redirected", func(t *testing.T) {
		a := newAssistant(t, stubCapability{intent: IntentBalance, reply: "unused"})
		reply := a.Respond(ctx, caller, "tell me a joke")
		assert.Equal(t, offTopicReply, reply)
	})

	t.Run("unregistered intent is treated as off-topic", func(t *testing.T) {
		a := newAssistant(t)
		reply := a.Respond(ctx, caller, "what is my balance")
		assert.Equal(t, offTopicReply, reply)
	})

	t.Run("denials surface their user message", func(t *testing.T) {
		a := newAssistant(t, stubCapability{
			intent: IntentTransfer,
			err:    models.Deny(models.ReasonInsufficientFunds, "insufficient balance"),
		})
		reply := a.Respond(ctx, caller, "send 100rs to bob@oksbi pin=1234")
		assert.Equal(t, "insufficient balance", reply)
	})

	t.Run("coded errors surface their message", func(t *testing.T) {
		a := newAssistant(t, stubCapability{
			intent: IntentStatement,
			err:    dErrors.New(dErrors.CodeUnavailable, "statement email is not configured"),
		})
		reply := a.Respond(ctx, caller, "email my statement")
		assert.Equal(t, "statement email is not configured", reply)
	})

	t.Run("unexpected errors stay generic", func(t *testing.T) {
		a := newAssistant(t, stubCapability{
			intent: IntentBalance,
			err:    errors.New("pq: connection refused"),
		})
		reply := a.Respond(ctx, caller, "balance please")
		assert.NotContains(t, reply, "pq:")
		assert.Equal(t, "something went wrong, please try again later", reply)
	})
}

func TestNewRejectsDuplicateCapabilities(t *testing.T) {
	_, err := New(NewRuleClassifier(), []Capability{
		stubCapability{intent: IntentBalance},
		stubCapability{intent: IntentBalance},
	})
	assert.Error(t, err)
}
