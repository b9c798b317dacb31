package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/service"
)

type outboxRecorder struct {
	appended []model.BookStatChange
}

func (o *outboxRecorder) Append(_ context.Context, _ sqlx.ExtContext, change model.BookStatChange) error {
	o.appended = append(o.appended, change)
	return nil
}

func (o *outboxRecorder) PendingBatch(context.Context, *sqlx.Tx, int) ([]model.BookStatChange, error) {
	return nil, nil
}

func (o *outboxRecorder) Delete(context.Context, sqlx.ExtContext, []int64) error {
	return nil
}

func TestStatChangeWatcher(t *testing.T) {
	t.Parallel()

	pubDate := time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC)

	newWatched := func(t *testing.T) (*event.Dispatcher, *outboxRecorder) {
		t.Helper()
		outbox := &outboxRecorder{}
		d := event.NewDispatcher(zap.NewNop())
		service.NewStatChangeWatcher(outbox, zap.NewNop()).Register(d)
		return d, outbox
	}

	t.Run("created event appends a counted delta", func(t *testing.T) {
		t.Parallel()
		d, outbox := newWatched(t)

		stub := &trackedStub{}
		stub.Record(domain.BookCreated{Isbn: "9780134190440", PublicationDate: pubDate, Count: 5})

		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Len(t, outbox.appended, 1)

		change := outbox.appended[0]
		require.Equal(t, "9780134190440", change.Isbn)
		require.Equal(t, pubDate, change.PublicationDate)
		require.Equal(t, 5, change.AvailableCount)
		require.Equal(t, 0, change.BorrowedCount)
		require.NotEqual(t, uuid.Nil, change.ChangeUID)
	})

	t.Run("borrowed event appends {-1,+1}", func(t *testing.T) {
		t.Parallel()
		d, outbox := newWatched(t)

		stub := &trackedStub{}
		stub.Record(domain.BookBorrowed{Isbn: "9780134190440", PublicationDate: pubDate})

		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Len(t, outbox.appended, 1)
		require.Equal(t, -1, outbox.appended[0].AvailableCount)
		require.Equal(t, 1, outbox.appended[0].BorrowedCount)
	})

	t.Run("returned event appends {+1,-1}", func(t *testing.T) {
		t.Parallel()
		d, outbox := newWatched(t)

		stub := &trackedStub{}
		stub.Record(domain.BookReturned{Isbn: "9780134190440", PublicationDate: pubDate})

		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Len(t, outbox.appended, 1)
		require.Equal(t, 1, outbox.appended[0].AvailableCount)
		require.Equal(t, -1, outbox.appended[0].BorrowedCount)
	})

	t.Run("every delta receives a distinct change uid", func(t *testing.T) {
		t.Parallel()
		d, outbox := newWatched(t)

		stub := &trackedStub{}
		stub.Record(domain.BookBorrowed{Isbn: "9780134190440", PublicationDate: pubDate})
		stub.Record(domain.BookReturned{Isbn: "9780134190440", PublicationDate: pubDate})

		require.NoError(t, d.Dispatch(context.Background(), nil, stub))
		require.Len(t, outbox.appended, 2)
		require.NotEqual(t, outbox.appended[0].ChangeUID, outbox.appended[1].ChangeUID)
	})
}

type trackedStub struct {
	domain.Entity
}
