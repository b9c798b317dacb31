package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListStats struct {
	Paging `json:",inline"`
	Items  []BookStat `json:"items"`
}

type Author struct {
	Name       string `json:"name" validate:"required"`
	Surname    string `json:"surname" validate:"required"`
	Patronymic string `json:"patronymic,omitempty"`
}

// Book is the catalog row and the API shape of a single copy.
type Book struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Isbn            string         `json:"isbn" db:"isbn"`
	PublicationDate time.Time      `json:"publicationDate" db:"publication_date"`
	Authors         types.JSONText `json:"authors" db:"authors"`
	BorrowedBy      *uuid.UUID     `json:"borrowedBy,omitempty" db:"borrowed_by"`
	BorrowedAt      *time.Time     `json:"borrowedAt,omitempty" db:"borrowed_at"`
	ReturnBefore    *time.Time     `json:"returnBefore,omitempty" db:"return_before"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

type Abonent struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Surname    string    `json:"surname" db:"surname"`
	Patronymic *string   `json:"patronymic,omitempty" db:"patronymic"`
	Email      string    `json:"email" db:"email"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// BookStat is the eventually-consistent availability read model, keyed by
// (isbn, publication_date). Counters never go below zero.
type BookStat struct {
	Isbn            string    `json:"isbn" db:"isbn"`
	PublicationDate time.Time `json:"publicationDate" db:"publication_date"`
	Title           string    `json:"title" db:"title"`
	Authors         string    `json:"authors" db:"authors"`
	AvailableCount  int       `json:"availableCount" db:"available_count"`
	BorrowedCount   int       `json:"borrowedCount" db:"borrowed_count"`
}

// BookStatChange is one outbox delta. Rows are applied in insertion order (id)
// and deleted once folded into BookStat.
type BookStatChange struct {
	ID              int64     `db:"id"`
	ChangeUID       uuid.UUID `db:"change_uid"`
	Isbn            string    `db:"isbn"`
	PublicationDate time.Time `db:"publication_date"`
	AvailableCount  int       `db:"available_count"`
	BorrowedCount   int       `db:"borrowed_count"`
	CreatedAt       time.Time `db:"created_at"`
}

// StatsEvent is a kafka-consumed activity record.
type StatsEvent struct {
	ID        int64          `json:"id" db:"id"`
	EventType string         `json:"eventType" db:"event_type"`
	Payload   types.JSONText `json:"payload" db:"payload"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

type AddBooksRequest struct {
	Title           string   `json:"title" validate:"required"`
	Isbn            string   `json:"isbn" validate:"required"`
	PublicationDate string   `json:"publicationDate" validate:"required"`
	Authors         []Author `json:"authors" validate:"required,min=1,dive"`
	Count           int      `json:"count" validate:"required,min=1"`
}

type RegisterAbonentRequest struct {
	Name       string `json:"name" validate:"required"`
	Surname    string `json:"surname" validate:"required"`
	Patronymic string `json:"patronymic,omitempty"`
	Email      string `json:"email" validate:"required,email"`
}

// BorrowBookRequest targets either a concrete copy (bookId) or any available
// copy of (isbn, publicationDate).
type BorrowBookRequest struct {
	AbonentID       uuid.UUID `json:"abonentId" validate:"required"`
	BookID          uuid.UUID `json:"bookId,omitempty"`
	Isbn            string    `json:"isbn,omitempty"`
	PublicationDate string    `json:"publicationDate,omitempty"`
	ReturnBefore    string    `json:"returnBefore,omitempty"`
}

type ReturnBookRequest struct {
	AbonentID uuid.UUID `json:"abonentId" validate:"required"`
}
