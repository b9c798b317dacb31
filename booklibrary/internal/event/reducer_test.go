package event_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
)

func TestReduce(t *testing.T) {
	t.Parallel()

	pubDate := time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC)
	created := func(isbn string, count int) domain.BookCreated {
		return domain.BookCreated{
			Title:           "The Go Programming Language",
			Isbn:            isbn,
			PublicationDate: pubDate,
			Count:           count,
		}
	}

	t.Run("merges created events sharing the key", func(t *testing.T) {
		t.Parallel()

		out := event.Reduce([]domain.Event{
			created("9780134190440", 1),
			created("9780134190440", 1),
			created("9780134190440", 1),
		})

		require.Len(t, out, 1)
		merged, ok := out[0].(domain.BookCreated)
		require.True(t, ok)
		require.Equal(t, 3, merged.Count)
	})

	t.Run("distinct keys stay separate", func(t *testing.T) {
		t.Parallel()

		out := event.Reduce([]domain.Event{
			created("9780134190440", 1),
			created("9781491941959", 1),
			created("9780134190440", 1),
		})

		require.Len(t, out, 2)
		first, ok := out[0].(domain.BookCreated)
		require.True(t, ok)
		require.Equal(t, "9780134190440", first.Isbn)
		require.Equal(t, 2, first.Count)
		second, ok := out[1].(domain.BookCreated)
		require.True(t, ok)
		require.Equal(t, "9781491941959", second.Isbn)
		require.Equal(t, 1, second.Count)
	})

	t.Run("other events pass through in order", func(t *testing.T) {
		t.Parallel()

		borrowed := domain.BookBorrowed{BookID: uuid.New()}
		returned := domain.BookReturned{BookID: uuid.New()}

		out := event.Reduce([]domain.Event{borrowed, returned})
		require.Equal(t, []domain.Event{borrowed, returned}, out)
	})

	t.Run("single event fast path", func(t *testing.T) {
		t.Parallel()

		in := []domain.Event{created("9780134190440", 1)}
		require.Equal(t, in, event.Reduce(in))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, event.Reduce(nil))
	})
}
