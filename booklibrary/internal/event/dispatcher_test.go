package event_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
)

type trackedStub struct {
	domain.Entity
}

type firstEvent struct{}

func (firstEvent) EventName() string { return "test.first" }

type secondEvent struct{}

func (secondEvent) EventName() string { return "test.second" }

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	log := zap.NewNop()

	t.Run("publishes pending events and clears buffers", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher(log)
		var got []string
		d.Register("test.first", func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
			got = append(got, ev.EventName())
			return nil
		})

		stub := &trackedStub{}
		stub.Record(firstEvent{})
		stub.Record(firstEvent{})

		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Equal(t, []string{"test.first", "test.first"}, got)
		require.False(t, stub.HasEvents())
	})

	t.Run("events recorded by handlers run in the next round", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher(log)
		stub := &trackedStub{}
		var got []string
		d.Register("test.first", func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
			got = append(got, ev.EventName())
			stub.Record(secondEvent{})
			return nil
		})
		d.Register("test.second", func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
			got = append(got, ev.EventName())
			return nil
		})

		stub.Record(firstEvent{})
		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Equal(t, []string{"test.first", "test.second"}, got)
	})

	t.Run("unbounded cascade is an error", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher(log)
		stub := &trackedStub{}
		d.Register("test.first", func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
			stub.Record(firstEvent{})
			return nil
		})

		stub.Record(firstEvent{})
		err := d.Dispatch(context.Background(), nil, stub)
		require.Error(t, err)
		require.Contains(t, err.Error(), "did not terminate")
	})

	t.Run("handler error fails the dispatch", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher(log)
		boom := errors.New("boom")
		d.Register("test.first", func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
			return boom
		})

		stub := &trackedStub{}
		stub.Record(firstEvent{})
		require.ErrorIs(t, d.Dispatch(context.Background(), nil, stub), boom)
	})

	t.Run("event without handlers is dropped", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher(log)
		stub := &trackedStub{}
		stub.Record(firstEvent{})
		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.False(t, stub.HasEvents())
	})
}
