package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/repository"
	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
)

// StatsLog publishes activity events to the broker after commit, best effort.
type StatsLog interface {
	Log(ev kafka.EventStats) error
}

type Service struct {
	log        *zap.Logger
	repo       repository.Repository
	statsRepo  repository.Stats
	dispatcher *event.Dispatcher
	statsLog   StatsLog
}

func NewService(
	repo repository.Repository,
	statsRepo repository.Stats,
	dispatcher *event.Dispatcher,
	statsLog StatsLog,
	log *zap.Logger,
) *Service {
	return &Service{
		log:        log,
		repo:       repo,
		statsRepo:  statsRepo,
		dispatcher: dispatcher,
		statsLog:   statsLog,
	}
}

// AddBooks creates req.Count identical copies in one unit of work. The
// dispatcher reduces the per-copy created events into a single counted one,
// so the outbox receives one {+N, 0} delta.
func (s *Service) AddBooks(ctx context.Context, req model.AddBooksRequest) error {
	title, err := domain.NewBookTitle(req.Title)
	if err != nil {
		return err
	}
	isbn, err := domain.NewIsbn(req.Isbn)
	if err != nil {
		return err
	}
	pubDate, err := parsePublicationDate(req.PublicationDate)
	if err != nil {
		return err
	}
	authors := make([]domain.Author, 0, len(req.Authors))
	for _, a := range req.Authors {
		author, err := domain.NewAuthor(a.Name, a.Surname, a.Patronymic)
		if err != nil {
			return err
		}
		authors = append(authors, author)
	}

	now := time.Now().UTC()
	books := make([]*domain.Book, 0, req.Count)
	tracked := make([]domain.Tracked, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		book, err := domain.NewBook(uuid.New(), title, isbn, pubDate, authors, now)
		if err != nil {
			return err
		}
		books = append(books, book)
		tracked = append(tracked, book)
	}

	s.log.Info("adding new books", zap.Int("count", req.Count), zap.String("isbn", req.Isbn))

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateBooks(ctx, tx, books); err != nil {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, tracked...)
	})
	if err != nil {
		return s.failWith(errs.ErrBookAddingFailed, err)
	}
	return nil
}

func (s *Service) RegisterAbonent(ctx context.Context, req model.RegisterAbonentRequest) (model.Abonent, error) {
	name, err := domain.NewAbonentName(req.Name, req.Surname, req.Patronymic)
	if err != nil {
		return model.Abonent{}, err
	}
	email, err := domain.NewEmail(req.Email)
	if err != nil {
		return model.Abonent{}, err
	}

	abonent, err := domain.NewAbonent(uuid.New(), name, email, time.Now().UTC())
	if err != nil {
		return model.Abonent{}, err
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateAbonent(ctx, tx, abonent); err != nil {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, abonent)
	})
	if err != nil {
		return model.Abonent{}, s.failWith(errs.ErrAbonentRegisteringFailed, err)
	}

	s.logStats(kafka.EventStats{
		EventType:  domain.EventAbonentRegistered,
		AbonentID:  abonent.ID().String(),
		OccurredAt: time.Now().UTC(),
	})

	return s.GetAbonent(ctx, abonent.ID())
}

// BorrowBook lends a copy to the abonent: either the exact copy from
// req.BookID or any available copy of (isbn, publicationDate).
func (s *Service) BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.Book, error) {
	if _, err := s.repo.GetAbonent(ctx, req.AbonentID); err != nil {
		return model.Book{}, err
	}

	var returnBefore time.Time
	if req.ReturnBefore != "" {
		t, err := time.Parse(time.DateOnly, req.ReturnBefore)
		if err != nil {
			return model.Book{}, errs.ErrInvalidBorrowingPeriod
		}
		returnBefore = t
	}

	var bookID uuid.UUID
	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.fetchBookForBorrow(ctx, tx, req)
		if err != nil {
			return err
		}

		borrowedCount, err := s.repo.CountBorrowed(ctx, tx, req.AbonentID)
		if err != nil {
			return err
		}
		abonement, err := domain.NewAbonement(req.AbonentID, borrowedCount)
		if err != nil {
			return err
		}

		if err := book.Borrow(abonement, time.Now().UTC(), returnBefore); err != nil {
			return err
		}
		if err := s.repo.SaveBorrowInfo(ctx, tx, book); err != nil {
			return err
		}

		bookID = book.ID()
		return s.dispatcher.Dispatch(ctx, tx, book)
	})
	if err != nil {
		return model.Book{}, s.failWith(errs.ErrBookBorrowingFailed, err)
	}

	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.Book{}, s.failWith(errs.ErrBookGettingFailed, err)
	}

	s.logStats(kafka.EventStats{
		EventType:       domain.EventBookBorrowed,
		Isbn:            book.Isbn,
		PublicationDate: book.PublicationDate.Format(time.DateOnly),
		AbonentID:       req.AbonentID.String(),
		BookID:          bookID.String(),
		OccurredAt:      time.Now().UTC(),
	})

	return book, nil
}

func (s *Service) ReturnBook(ctx context.Context, bookID uuid.UUID, req model.ReturnBookRequest) error {
	var (
		isbn    string
		pubDate time.Time
	)
	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.repo.GetBookForUpdate(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if err := book.Return(req.AbonentID, time.Now().UTC()); err != nil {
			return err
		}
		if err := s.repo.SaveBorrowInfo(ctx, tx, book); err != nil {
			return err
		}

		isbn, pubDate = book.Isbn().String(), book.PublicationDate().Time()
		return s.dispatcher.Dispatch(ctx, tx, book)
	})
	if err != nil {
		return s.failWith(errs.ErrBookReturningFailed, err)
	}

	s.logStats(kafka.EventStats{
		EventType:       domain.EventBookReturned,
		Isbn:            isbn,
		PublicationDate: pubDate.Format(time.DateOnly),
		AbonentID:       req.AbonentID.String(),
		BookID:          bookID.String(),
		OccurredAt:      time.Now().UTC(),
	})

	return nil
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	list, err := s.repo.ListBooks(ctx, page, size)
	if err != nil {
		return model.ListBooks{}, s.failWith(errs.ErrGetBookPageFailed, err)
	}
	return list, nil
}

// GetBorrowedBooks returns the abonent and its current loans, fetched
// concurrently.
func (s *Service) GetBorrowedBooks(ctx context.Context, abonentID uuid.UUID) (model.Abonent, []model.Book, error) {
	var (
		abonent model.Abonent
		books   []model.Book
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		abonent, err = s.repo.GetAbonent(ctx, abonentID)
		return err
	})
	gg.Go(func() error {
		var err error
		books, err = s.repo.GetBorrowedBooks(ctx, abonentID)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Abonent{}, nil, s.failWith(errs.ErrBorrowedBooksGettingFailed, err)
	}
	return abonent, books, nil
}

func (s *Service) GetAbonent(ctx context.Context, id uuid.UUID) (model.Abonent, error) {
	return s.repo.GetAbonent(ctx, id)
}

func (s *Service) GetStats(ctx context.Context, page, size int) (model.ListStats, error) {
	return s.statsRepo.List(ctx, page, size)
}

// RecordStatsEvent stores one kafka-consumed activity event.
func (s *Service) RecordStatsEvent(ctx context.Context, ev kafka.EventStats) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.statsRepo.RecordStatsEvent(ctx, ev.EventType, payload)
}

func (s *Service) ListStatsEvents(ctx context.Context, limit int) ([]model.StatsEvent, error) {
	return s.statsRepo.ListStatsEvents(ctx, limit)
}

func (s *Service) fetchBookForBorrow(ctx context.Context, tx *sqlx.Tx, req model.BorrowBookRequest) (*domain.Book, error) {
	if req.BookID != uuid.Nil {
		return s.repo.GetBookForUpdate(ctx, tx, req.BookID)
	}

	isbn, err := domain.NewIsbn(req.Isbn)
	if err != nil {
		return nil, err
	}
	pubDate, err := parsePublicationDate(req.PublicationDate)
	if err != nil {
		return nil, err
	}
	return s.repo.GetAvailableBookForUpdate(ctx, tx, isbn.String(), pubDate.Time())
}

// failWith passes business outcomes through untouched and maps everything
// else to the operation's generic code, keeping the cause for the log.
func (s *Service) failWith(op *errs.Error, err error) error {
	if errs.CodeOf(err) != "" {
		return err
	}
	s.log.Error(op.Error(), zap.Error(err))
	return op.Wrap(err)
}

func (s *Service) logStats(ev kafka.EventStats) {
	if s.statsLog == nil {
		return
	}
	if err := s.statsLog.Log(ev); err != nil {
		s.log.Warn("stats log", zap.String("event", ev.EventType), zap.Error(err))
	}
}

func parsePublicationDate(raw string) (domain.PublicationDate, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return domain.PublicationDate{}, errs.ErrInvalidPublicationDate
	}
	return domain.NewPublicationDate(t)
}
