package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
)

func newTestBook(t *testing.T) *domain.Book {
	t.Helper()
	title, err := domain.NewBookTitle("The Go Programming Language")
	require.NoError(t, err)
	isbn, err := domain.NewIsbn("9780134190440")
	require.NoError(t, err)
	pubDate, err := domain.NewPublicationDate(time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	author, err := domain.NewAuthor("Alan", "Donovan", "")
	require.NoError(t, err)

	book, err := domain.NewBook(uuid.New(), title, isbn, pubDate, []domain.Author{author}, time.Now().UTC())
	require.NoError(t, err)
	book.ClearEvents()
	return book
}

func TestNewBook(t *testing.T) {
	t.Parallel()

	title, _ := domain.NewBookTitle("SICP")
	isbn, _ := domain.NewIsbn("9780262510875")
	pubDate, _ := domain.NewPublicationDate(time.Date(1996, 7, 25, 0, 0, 0, 0, time.UTC))
	author, _ := domain.NewAuthor("Harold", "Abelson", "")

	t.Run("records a created event with count 1", func(t *testing.T) {
		t.Parallel()
		book, err := domain.NewBook(uuid.New(), title, isbn, pubDate, []domain.Author{author}, time.Now().UTC())
		require.NoError(t, err)

		events := book.PendingEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(domain.BookCreated)
		require.True(t, ok)
		require.Equal(t, "SICP", created.Title)
		require.Equal(t, "9780262510875", created.Isbn)
		require.Equal(t, 1, created.Count)
	})

	t.Run("nil id is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewBook(uuid.Nil, title, isbn, pubDate, []domain.Author{author}, time.Now().UTC())
		require.ErrorIs(t, err, errs.ErrInvalidBookID)
	})

	t.Run("book must have an author", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewBook(uuid.New(), title, isbn, pubDate, nil, time.Now().UTC())
		require.ErrorIs(t, err, errs.ErrBookMustHaveAuthors)
	})
}

func TestBook_Borrow(t *testing.T) {
	t.Parallel()

	var (
		abonentID  = uuid.New()
		borrowedAt = time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)
	)
	abonement := func(count int) domain.Abonement {
		a, err := domain.NewAbonement(abonentID, count)
		require.NoError(t, err)
		return a
	}

	t.Run("default window is 30 days", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)

		require.NoError(t, book.Borrow(abonement(0), borrowedAt, time.Time{}))

		info := book.BorrowInfo()
		require.NotNil(t, info)
		require.Equal(t, abonentID, info.AbonentID)
		require.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), info.ReturnBefore)

		events := book.PendingEvents()
		require.Len(t, events, 1)
		borrowed, ok := events[0].(domain.BookBorrowed)
		require.True(t, ok)
		require.Equal(t, abonentID, borrowed.AbonentID)
	})

	t.Run("return date on the borrow day is rejected", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)

		sameDay := time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC)
		err := book.Borrow(abonement(0), borrowedAt, sameDay)
		require.ErrorIs(t, err, errs.ErrInvalidBorrowingPeriod)
		require.Nil(t, book.BorrowInfo())
		require.False(t, book.HasEvents())
	})

	t.Run("same abonent borrow is an idempotent no-op", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)
		require.NoError(t, book.Borrow(abonement(0), borrowedAt, time.Time{}))
		book.ClearEvents()

		require.NoError(t, book.Borrow(abonement(1), borrowedAt.Add(time.Hour), time.Time{}))
		require.False(t, book.HasEvents())
	})

	t.Run("another abonent cannot borrow a held copy", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)
		require.NoError(t, book.Borrow(abonement(0), borrowedAt, time.Time{}))
		book.ClearEvents()

		other, err := domain.NewAbonement(uuid.New(), 0)
		require.NoError(t, err)
		err = book.Borrow(other, borrowedAt, time.Time{})
		require.ErrorIs(t, err, errs.ErrBookAlreadyBorrowed)
		require.False(t, book.HasEvents())

		info := book.BorrowInfo()
		require.NotNil(t, info)
		require.Equal(t, abonentID, info.AbonentID)
	})

	t.Run("borrow limit", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)

		err := book.Borrow(abonement(domain.MaxBorrowedBooks), borrowedAt, time.Time{})
		require.ErrorIs(t, err, errs.ErrTooManyBooksBorrowed)
		require.Nil(t, book.BorrowInfo())
		require.False(t, book.HasEvents())
	})

	t.Run("limit is not checked on the idempotent path", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)
		require.NoError(t, book.Borrow(abonement(0), borrowedAt, time.Time{}))
		book.ClearEvents()

		require.NoError(t, book.Borrow(abonement(domain.MaxBorrowedBooks), borrowedAt, time.Time{}))
	})
}

func TestBook_Return(t *testing.T) {
	t.Parallel()

	var (
		abonentID  = uuid.New()
		borrowedAt = time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)
		returnedAt = borrowedAt.AddDate(0, 0, 7)
	)
	borrowedBook := func(t *testing.T) *domain.Book {
		book := newTestBook(t)
		a, err := domain.NewAbonement(abonentID, 0)
		require.NoError(t, err)
		require.NoError(t, book.Borrow(a, borrowedAt, time.Time{}))
		book.ClearEvents()
		return book
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		book := borrowedBook(t)

		require.NoError(t, book.Return(abonentID, returnedAt))
		require.Nil(t, book.BorrowInfo())

		events := book.PendingEvents()
		require.Len(t, events, 1)
		returned, ok := events[0].(domain.BookReturned)
		require.True(t, ok)
		require.Equal(t, abonentID, returned.AbonentID)
		require.Equal(t, returnedAt, returned.ReturnedAt)
	})

	t.Run("nil abonent id", func(t *testing.T) {
		t.Parallel()
		book := borrowedBook(t)
		require.ErrorIs(t, book.Return(uuid.Nil, returnedAt), errs.ErrInvalidReturnAbonentID)
		require.NotNil(t, book.BorrowInfo())
	})

	t.Run("not borrowed at all", func(t *testing.T) {
		t.Parallel()
		book := newTestBook(t)
		require.ErrorIs(t, book.Return(abonentID, returnedAt), errs.ErrBookNotBorrowedByAnyone)
	})

	t.Run("borrowed by someone else", func(t *testing.T) {
		t.Parallel()
		book := borrowedBook(t)
		err := book.Return(uuid.New(), returnedAt)
		require.ErrorIs(t, err, errs.ErrBookNotBorrowedByAbonent)
		require.NotNil(t, book.BorrowInfo())
		require.False(t, book.HasEvents())
	})
}
