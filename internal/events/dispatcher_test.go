package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []Event
	d.Subscribe(EventDepartmentSaved, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventDepartmentSaved, EntityID: "d1"}))
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].EntityID)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	called := false
	d.Subscribe(EventDepartmentSaved, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCollaboratorSaved}))
	assert.False(t, called)
}

func TestDispatcherFailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	second := false
	d.Subscribe(EventCollaboratorDeleted, func(context.Context, Event) error {
		return errors.New("handler down")
	})
	d.Subscribe(EventCollaboratorDeleted, func(context.Context, Event) error {
		second = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCollaboratorDeleted}))
	assert.True(t, second)
}

func TestDispatcherCountsPublishes(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, d.Publish(ctx, Event{Type: EventMembershipRelinked}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventMembershipRelinked}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventDepartmentDeleted}))

	assert.EqualValues(t, 2, d.Published(EventMembershipRelinked))
	assert.EqualValues(t, 1, d.Published(EventDepartmentDeleted))
	assert.Zero(t, d.Published(EventCollaboratorSaved))
}
