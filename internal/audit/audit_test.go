package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	require.NoError(t, publisher.Emit(context.Background(), Event{
		Actor:  "acc_alice",
		Action: ActionTransfer,
	}))

	events, err := store.ListByActor(context.Background(), "acc_alice")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestChannelPublisherDoesNotBlockWhenFull(t *testing.T) {
	publisher := NewChannelPublisher(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			_ = publisher.Emit(context.Background(), Event{Actor: "acc_alice"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full buffer")
	}
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewChannelPublisher(16)
	worker := NewWorker(store, publisher.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerDone := make(chan error, 1)
	go func() { workerDone <- worker.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Emit(ctx, Event{
			Actor:   "acc_alice",
			Action:  ActionTransfer,
			Outcome: OutcomeCommitted,
		}))
	}

	require.Eventually(t, func() bool {
		events, err := store.ListByActor(context.Background(), "acc_alice")
		return err == nil && len(events) == 5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-workerDone, context.Canceled)
}

func TestListByActorFiltersOthers(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{Actor: "acc_alice", Action: ActionTransfer}))
	require.NoError(t, store.Append(ctx, Event{Actor: "acc_bob", Action: ActionFraudReport}))

	events, err := store.ListByActor(ctx, "acc_alice")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionTransfer, events[0].Action)
}
