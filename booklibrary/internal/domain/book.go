package domain

import (
	"time"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/google/uuid"
)

// MaxBorrowedBooks is the library policy: no more than 3 books per abonent at
// the same time.
const MaxBorrowedBooks = 3

// DefaultBorrowDays is the default borrowing window when the abonent names no
// return date.
const DefaultBorrowDays = 30

// Book is the aggregate root. A copy is available iff BorrowInfo() is nil.
type Book struct {
	Entity

	id              uuid.UUID
	title           BookTitle
	isbn            Isbn
	publicationDate PublicationDate
	authors         []Author
	borrowInfo      *BorrowInfo
	createdAt       time.Time
}

// NewBook constructs a fresh copy and records a BookCreated event.
func NewBook(
	id uuid.UUID,
	title BookTitle,
	isbn Isbn,
	publicationDate PublicationDate,
	authors []Author,
	createdAt time.Time,
) (*Book, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidBookID
	}
	if len(authors) == 0 {
		return nil, errs.ErrBookMustHaveAuthors
	}

	b := &Book{
		id:              id,
		title:           title,
		isbn:            isbn,
		publicationDate: publicationDate,
		authors:         append([]Author(nil), authors...),
		createdAt:       createdAt,
	}
	b.Record(BookCreated{
		Title:           title.String(),
		Isbn:            isbn.String(),
		PublicationDate: publicationDate.Time(),
		Authors:         b.authors,
		Count:           1,
	})

	return b, nil
}

// RestoreBook rehydrates a persisted copy without emitting events.
func RestoreBook(
	id uuid.UUID,
	title BookTitle,
	isbn Isbn,
	publicationDate PublicationDate,
	authors []Author,
	borrowInfo *BorrowInfo,
	createdAt time.Time,
) *Book {
	return &Book{
		id:              id,
		title:           title,
		isbn:            isbn,
		publicationDate: publicationDate,
		authors:         authors,
		borrowInfo:      borrowInfo,
		createdAt:       createdAt,
	}
}

func (b *Book) ID() uuid.UUID                    { return b.id }
func (b *Book) Title() BookTitle                 { return b.title }
func (b *Book) Isbn() Isbn                       { return b.isbn }
func (b *Book) PublicationDate() PublicationDate { return b.publicationDate }
func (b *Book) Authors() []Author                { return b.authors }
func (b *Book) CreatedAt() time.Time             { return b.createdAt }

// BorrowInfo returns the active loan, nil when the copy is available.
func (b *Book) BorrowInfo() *BorrowInfo {
	if b.borrowInfo == nil {
		return nil
	}
	info := *b.borrowInfo
	return &info
}

// Borrow lends the copy to the abonement's owner. A zero returnBefore applies
// the default window. Borrowing a copy already held by the same abonent is an
// idempotent no-op; all failures leave the book untouched.
func (b *Book) Borrow(abonement Abonement, borrowedAt time.Time, returnBefore time.Time) error {
	if returnBefore.IsZero() {
		returnBefore = DateOf(borrowedAt.AddDate(0, 0, DefaultBorrowDays))
	} else {
		returnBefore = DateOf(returnBefore)
	}

	// return date must be in the future
	if !DateOf(borrowedAt).Before(returnBefore) {
		return errs.ErrInvalidBorrowingPeriod
	}

	if b.borrowInfo != nil {
		if b.borrowInfo.AbonentID != abonement.AbonentID {
			return errs.ErrBookAlreadyBorrowed
		}
		return nil
	}

	if abonement.BorrowedBooksCount >= MaxBorrowedBooks {
		return errs.ErrTooManyBooksBorrowed
	}

	b.borrowInfo = &BorrowInfo{
		AbonentID:    abonement.AbonentID,
		BorrowedAt:   borrowedAt,
		ReturnBefore: returnBefore,
	}
	b.Record(BookBorrowed{
		BookID:          b.id,
		AbonentID:       abonement.AbonentID,
		Isbn:            b.isbn.String(),
		PublicationDate: b.publicationDate.Time(),
		BorrowedAt:      borrowedAt,
		ReturnBefore:    returnBefore,
	})

	return nil
}

// Return gives the copy back. Only the abonent holding the loan may return it.
func (b *Book) Return(abonentID uuid.UUID, returnedAt time.Time) error {
	if abonentID == uuid.Nil {
		return errs.ErrInvalidReturnAbonentID
	}
	if b.borrowInfo == nil {
		return errs.ErrBookNotBorrowedByAnyone
	}
	if b.borrowInfo.AbonentID != abonentID {
		return errs.ErrBookNotBorrowedByAbonent
	}

	b.borrowInfo = nil
	b.Record(BookReturned{
		BookID:          b.id,
		AbonentID:       abonentID,
		Isbn:            b.isbn.String(),
		PublicationDate: b.publicationDate.Time(),
		ReturnedAt:      returnedAt,
	})

	return nil
}
