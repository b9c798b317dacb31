package errs

import (
	"errors"
	"fmt"
)

// Error is a business outcome with a stable code. Callers match with errors.Is
// against the package sentinels; codes are part of the external contract.
type Error struct {
	code string
	msg  string
}

func New(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Code() string {
	return e.code
}

// Wrap attaches an infrastructure cause to a coded error, preserving
// errors.Is matching against the sentinel.
func (e *Error) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return fmt.Errorf("%w: %w", e, cause)
}

var (
	ErrAbonentNotFound            = New("BL2", "abonent not found")
	ErrBookNotFound               = New("BL3", "book not found")
	ErrInvalidBookID              = New("BL4", "invalid book identifier")
	ErrInvalidAbonentID           = New("BL5", "invalid abonent identifier")
	ErrInvalidBookTitle           = New("BL7", "invalid book title")
	ErrInvalidAbonentName         = New("BL8", "invalid abonent name")
	ErrInvalidAbonentSurname      = New("BL9", "invalid abonent surname")
	ErrInvalidIsbn                = New("BL10", "invalid ISBN")
	ErrInvalidEmail               = New("BL11", "invalid email")
	ErrInvalidBorrowerAbonentID   = New("BL12", "invalid abonent identifier for borrow book")
	ErrBookAlreadyBorrowed        = New("BL13", "book already borrowed")
	ErrInvalidPublicationDate     = New("BL14", "invalid book publication date")
	ErrBookNotBorrowedByAnyone    = New("BL15", "book not borrowed by anyone")
	ErrInvalidAuthorName          = New("BL16", "invalid book author name")
	ErrInvalidAuthorSurname       = New("BL17", "invalid book author surname")
	ErrBookMustHaveAuthors        = New("BL18", "book must have an author")
	ErrBookAddingFailed           = New("BL19", "book adding failed")
	ErrBookGettingFailed          = New("BL20", "book getting failed")
	ErrAbonentRegisteringFailed   = New("BL21", "abonent registering failed")
	ErrEmailAlreadyExists         = New("BL22", "email already exists")
	ErrNoBookToBorrow             = New("BL24", "there is no book that can be borrowed")
	ErrInvalidBorrowedBooksCount  = New("BL25", "invalid borrowed books count")
	ErrBookBorrowingFailed        = New("BL26", "book borrowing failed")
	ErrTooManyBooksBorrowed       = New("BL27", "too many books borrowed already")
	ErrInvalidReturnAbonentID     = New("BL28", "invalid abonent identifier for return book")
	ErrBookNotBorrowedByAbonent   = New("BL29", "book can't be returned if you not borrowed it")
	ErrBookReturningFailed        = New("BL30", "book returning failed")
	ErrBorrowedBooksGettingFailed = New("BL31", "borrowed books getting failed")
	ErrGetBookPageFailed          = New("BL33", "books getting failed")
	ErrInvalidBorrowingPeriod     = New("BL34", "book return date must be later than borrowing time")
)

// CodeOf extracts the stable code from an error chain, empty when uncoded.
func CodeOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
