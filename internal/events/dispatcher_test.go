package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishReachesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var seen []string
	d.Subscribe(EventPostCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.EntityID)
		return boom
	})
	d.Subscribe(EventPostCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.EntityID)
		return nil
	})
	d.Subscribe(EventPostDeleted, func(context.Context, Event) error {
		t.Fatal("unexpected handler")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPostCreated, EntityID: "p1"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"first:p1", "second:p1"}, seen)

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventAdminLoggedIn}))
}
