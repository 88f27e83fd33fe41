package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventProductDeleted, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("first failed")
	})
	d.Subscribe(EventProductDeleted, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		assert.Equal(t, EventProductDeleted, e.Type)
		return nil
	})
	d.Subscribe(EventImageUploaded, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventProductDeleted, Actor{UserID: "u"}, "p-7", nil))
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_PanickingHandlerIsContained(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventProductUpdated, func(context.Context, Event) error {
		panic("nil payload")
	})
	d.Subscribe(EventProductUpdated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	event := NewEvent(EventProductUpdated, Actor{UserID: "u"}, "p-7", nil)
	var err error
	require.NotPanics(t, func() { err = d.Publish(context.Background(), event) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic: nil payload")
	assert.Contains(t, err.Error(), event.ID)
	assert.True(t, delivered)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventImageDeleted, Actor{}, "", nil)))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventImageUploaded, Actor{UserID: "admin", Method: "basic"}, "", ImagePayload{Filename: "a.png"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Empty(t, e.ProductID)
}
