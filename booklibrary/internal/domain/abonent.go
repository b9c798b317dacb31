package domain

import (
	"time"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/google/uuid"
)

// Abonent is a registered library patron.
type Abonent struct {
	Entity

	id        uuid.UUID
	name      AbonentName
	email     Email
	createdAt time.Time
}

func NewAbonent(id uuid.UUID, name AbonentName, email Email, createdAt time.Time) (*Abonent, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidAbonentID
	}

	a := &Abonent{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
	}
	a.Record(AbonentRegistered{AbonentID: id})

	return a, nil
}

func (a *Abonent) ID() uuid.UUID        { return a.id }
func (a *Abonent) Name() AbonentName    { return a.name }
func (a *Abonent) Email() Email         { return a.email }
func (a *Abonent) CreatedAt() time.Time { return a.createdAt }
