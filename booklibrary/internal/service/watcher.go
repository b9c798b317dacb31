package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/repository"
)

// StatChangeWatcher subscribes to book lifecycle events and appends one
// outbox delta per state transition, inside the transaction that persists the
// transition itself.
type StatChangeWatcher struct {
	outbox repository.Outbox
	log    *zap.Logger
}

func NewStatChangeWatcher(outbox repository.Outbox, log *zap.Logger) *StatChangeWatcher {
	return &StatChangeWatcher{
		outbox: outbox,
		log:    log.Named("stat-watcher"),
	}
}

// Register wires the watcher into the dispatch table.
func (w *StatChangeWatcher) Register(d *event.Dispatcher) {
	d.Register(domain.EventBookCreated, w.onBookCreated)
	d.Register(domain.EventBookBorrowed, w.onBookBorrowed)
	d.Register(domain.EventBookReturned, w.onBookReturned)
}

func (w *StatChangeWatcher) onBookCreated(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
	created, ok := ev.(domain.BookCreated)
	if !ok {
		return errors.Errorf("unexpected event %s", ev.EventName())
	}
	return w.outbox.Append(ctx, tx, model.BookStatChange{
		ChangeUID:       uuid.New(),
		Isbn:            created.Isbn,
		PublicationDate: created.PublicationDate,
		AvailableCount:  created.Count,
		BorrowedCount:   0,
		CreatedAt:       time.Now().UTC(),
	})
}

func (w *StatChangeWatcher) onBookBorrowed(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
	borrowed, ok := ev.(domain.BookBorrowed)
	if !ok {
		return errors.Errorf("unexpected event %s", ev.EventName())
	}
	return w.outbox.Append(ctx, tx, model.BookStatChange{
		ChangeUID:       uuid.New(),
		Isbn:            borrowed.Isbn,
		PublicationDate: borrowed.PublicationDate,
		AvailableCount:  -1,
		BorrowedCount:   1,
		CreatedAt:       time.Now().UTC(),
	})
}

func (w *StatChangeWatcher) onBookReturned(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error {
	returned, ok := ev.(domain.BookReturned)
	if !ok {
		return errors.Errorf("unexpected event %s", ev.EventName())
	}
	return w.outbox.Append(ctx, tx, model.BookStatChange{
		ChangeUID:       uuid.New(),
		Isbn:            returned.Isbn,
		PublicationDate: returned.PublicationDate,
		AvailableCount:  1,
		BorrowedCount:   -1,
		CreatedAt:       time.Now().UTC(),
	})
}
