package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/google/uuid"
)

var isbnRegexp = regexp.MustCompile(`(?i)^(\d{9}[\dX]|\d{12}[\dX])$`)

// Isbn is a validated international standard book number (ISBN-10 or ISBN-13).
type Isbn struct {
	value string
}

func NewIsbn(raw string) (Isbn, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !isbnRegexp.MatchString(raw) {
		return Isbn{}, errs.ErrInvalidIsbn
	}
	return Isbn{value: raw}, nil
}

func (i Isbn) String() string { return i.value }

type BookTitle struct {
	value string
}

func NewBookTitle(raw string) (BookTitle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BookTitle{}, errs.ErrInvalidBookTitle
	}
	return BookTitle{value: raw}, nil
}

func (t BookTitle) String() string { return t.value }

// PublicationDate is a calendar date, normalized to midnight UTC.
type PublicationDate struct {
	value time.Time
}

func NewPublicationDate(value time.Time) (PublicationDate, error) {
	if value.IsZero() {
		return PublicationDate{}, errs.ErrInvalidPublicationDate
	}
	return PublicationDate{value: DateOf(value)}, nil
}

func (d PublicationDate) Time() time.Time { return d.value }

func (d PublicationDate) String() string { return d.value.Format(time.DateOnly) }

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

type Author struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic,omitempty"`
}

func NewAuthor(name, surname, patronymic string) (Author, error) {
	if strings.TrimSpace(name) == "" {
		return Author{}, errs.ErrInvalidAuthorName
	}
	if strings.TrimSpace(surname) == "" {
		return Author{}, errs.ErrInvalidAuthorSurname
	}
	return Author{Name: name, Surname: surname, Patronymic: patronymic}, nil
}

func (a Author) String() string {
	if a.Patronymic == "" {
		return a.Surname + " " + a.Name
	}
	return a.Surname + " " + a.Name + " " + a.Patronymic
}

// AuthorsText is the concatenated form stored in the stats read model.
func AuthorsText(authors []Author) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ",")
}

// BorrowInfo marks an active loan; its presence is the sole source of truth
// for "this copy is borrowed".
type BorrowInfo struct {
	AbonentID    uuid.UUID
	BorrowedAt   time.Time
	ReturnBefore time.Time
}

// Abonement is the borrow-time tuple of an abonent and the count of books it
// currently holds. It is recomputed per borrow attempt and never persisted.
type Abonement struct {
	AbonentID          uuid.UUID
	BorrowedBooksCount int
}

func NewAbonement(abonentID uuid.UUID, borrowedBooksCount int) (Abonement, error) {
	if abonentID == uuid.Nil {
		return Abonement{}, errs.ErrInvalidBorrowerAbonentID
	}
	if borrowedBooksCount < 0 {
		return Abonement{}, errs.ErrInvalidBorrowedBooksCount
	}
	return Abonement{AbonentID: abonentID, BorrowedBooksCount: borrowedBooksCount}, nil
}

type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return Email{}, errs.ErrInvalidEmail
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

type AbonentName struct {
	Name       string
	Surname    string
	Patronymic string
}

func NewAbonentName(name, surname, patronymic string) (AbonentName, error) {
	if strings.TrimSpace(name) == "" {
		return AbonentName{}, errs.ErrInvalidAbonentName
	}
	if strings.TrimSpace(surname) == "" {
		return AbonentName{}, errs.ErrInvalidAbonentSurname
	}
	return AbonentName{Name: name, Surname: surname, Patronymic: patronymic}, nil
}
