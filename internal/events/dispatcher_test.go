package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.UserID)
		return errors.New("first failed")
	})
	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLogout, UserID: "u1"})

	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
}

func TestDispatcherRecoversHandlerPanics(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false

	d.Subscribe(EventRegistered, func(context.Context, Event) error { panic("boom") })
	d.Subscribe(EventRegistered, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRegistered})

	assert.ErrorContains(t, err, "registered handler panicked: boom")
	assert.True(t, delivered)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventLoginSucceeded}))
}
