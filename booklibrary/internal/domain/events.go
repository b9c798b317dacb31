package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookCreated       = "book.created"
	EventBookBorrowed      = "book.borrowed"
	EventBookReturned      = "book.returned"
	EventAbonentRegistered = "abonent.registered"
)

// BookCreated is emitted once per constructed Book; the reducer merges events
// sharing (title, isbn, publication date) into one with the total Count.
type BookCreated struct {
	Title           string
	Isbn            string
	PublicationDate time.Time
	Authors         []Author
	Count           int
}

func (BookCreated) EventName() string { return EventBookCreated }

type BookBorrowed struct {
	BookID          uuid.UUID
	AbonentID       uuid.UUID
	Isbn            string
	PublicationDate time.Time
	BorrowedAt      time.Time
	ReturnBefore    time.Time
}

func (BookBorrowed) EventName() string { return EventBookBorrowed }

type BookReturned struct {
	BookID          uuid.UUID
	AbonentID       uuid.UUID
	Isbn            string
	PublicationDate time.Time
	ReturnedAt      time.Time
}

func (BookReturned) EventName() string { return EventBookReturned }

type AbonentRegistered struct {
	AbonentID uuid.UUID
}

func (AbonentRegistered) EventName() string { return EventAbonentRegistered }
