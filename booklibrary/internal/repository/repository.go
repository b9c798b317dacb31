package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
)

const (
	booksTableName    = `books`
	abonentsTableName = `abonents`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error

	CreateBooks(ctx context.Context, tx sqlx.ExtContext, books []*domain.Book) error
	GetBookForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Book, error)
	GetAvailableBookForUpdate(ctx context.Context, tx *sqlx.Tx, isbn string, publicationDate time.Time) (*domain.Book, error)
	SaveBorrowInfo(ctx context.Context, tx sqlx.ExtContext, book *domain.Book) error
	CountBorrowed(ctx context.Context, tx sqlx.ExtContext, abonentID uuid.UUID) (int, error)

	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBorrowedBooks(ctx context.Context, abonentID uuid.UUID) ([]model.Book, error)

	CreateAbonent(ctx context.Context, tx sqlx.ExtContext, abonent *domain.Abonent) error
	GetAbonent(ctx context.Context, id uuid.UUID) (model.Abonent, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

// WithTx runs fn inside one transaction, rolling back on error.
func (r *repository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

func (r *repository) CreateBooks(ctx context.Context, tx sqlx.ExtContext, books []*domain.Book) error {
	ib := qb.Insert(booksTableName).
		Columns("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at")

	for _, b := range books {
		authors, err := json.Marshal(b.Authors())
		if err != nil {
			return errors.Wrap(err, "marshal authors")
		}
		ib = ib.Values(
			b.ID(), b.Title().String(), b.Isbn().String(), b.PublicationDate().Time(),
			types.JSONText(authors), nil, nil, nil, b.CreatedAt(),
		)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) GetBookForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Book, error) {
	query, args, err := qb.Select("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return nil, err
	}

	var row model.Book
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrBookNotFound
		}
		return nil, err
	}
	return restoreBook(row)
}

func (r *repository) GetAvailableBookForUpdate(ctx context.Context, tx *sqlx.Tx, isbn string, publicationDate time.Time) (*domain.Book, error) {
	query, args, err := qb.Select("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at").
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		Where(sq.Eq{"publication_date": publicationDate}).
		Where("borrowed_by is null").
		OrderBy("created_at").
		Limit(1).
		Suffix("for update skip locked").
		ToSql()
	if err != nil {
		return nil, err
	}

	var row model.Book
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNoBookToBorrow
		}
		return nil, err
	}
	return restoreBook(row)
}

// SaveBorrowInfo persists the aggregate's loan columns after Borrow/Return.
func (r *repository) SaveBorrowInfo(ctx context.Context, tx sqlx.ExtContext, book *domain.Book) error {
	ub := qb.Update(booksTableName).Where(sq.Eq{"id": book.ID()})
	if info := book.BorrowInfo(); info != nil {
		ub = ub.
			Set("borrowed_by", info.AbonentID).
			Set("borrowed_at", info.BorrowedAt).
			Set("return_before", info.ReturnBefore)
	} else {
		ub = ub.
			Set("borrowed_by", nil).
			Set("borrowed_at", nil).
			Set("return_before", nil)
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *repository) CountBorrowed(ctx context.Context, tx sqlx.ExtContext, abonentID uuid.UUID) (int, error) {
	q := `
	select count(*) from books
	where borrowed_by = $1
`
	var count int
	if err := tx.QueryRowxContext(ctx, q, abonentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	query, args, err := qb.Select("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := qb.Select("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at").
		From(booksTableName).
		OrderBy("created_at", "id")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) GetBorrowedBooks(ctx context.Context, abonentID uuid.UUID) ([]model.Book, error) {
	query, args, err := qb.Select("id", "title", "isbn", "publication_date", "authors", "borrowed_by", "borrowed_at", "return_before", "created_at").
		From(booksTableName).
		Where(sq.Eq{"borrowed_by": abonentID}).
		OrderBy("borrowed_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) CreateAbonent(ctx context.Context, tx sqlx.ExtContext, abonent *domain.Abonent) error {
	name := abonent.Name()
	var patronymic *string
	if name.Patronymic != "" {
		patronymic = &name.Patronymic
	}

	query, args, err := qb.Insert(abonentsTableName).
		Columns("id", "name", "surname", "patronymic", "email", "created_at").
		Values(abonent.ID(), name.Name, name.Surname, patronymic, abonent.Email().String(), abonent.CreatedAt()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return errs.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repository) GetAbonent(ctx context.Context, id uuid.UUID) (model.Abonent, error) {
	query, args, err := qb.Select("id", "name", "surname", "patronymic", "email", "created_at").
		From(abonentsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Abonent{}, err
	}

	var ab model.Abonent
	if err := r.db.GetContext(ctx, &ab, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Abonent{}, errs.ErrAbonentNotFound
		}
		return model.Abonent{}, err
	}
	return ab, nil
}

func restoreBook(row model.Book) (*domain.Book, error) {
	title, err := domain.NewBookTitle(row.Title)
	if err != nil {
		return nil, err
	}
	isbn, err := domain.NewIsbn(row.Isbn)
	if err != nil {
		return nil, err
	}
	pubDate, err := domain.NewPublicationDate(row.PublicationDate)
	if err != nil {
		return nil, err
	}

	var authors []domain.Author
	if err := json.Unmarshal(row.Authors, &authors); err != nil {
		return nil, errors.Wrap(err, "unmarshal authors")
	}

	var borrowInfo *domain.BorrowInfo
	if row.BorrowedBy != nil && row.BorrowedAt != nil && row.ReturnBefore != nil {
		borrowInfo = &domain.BorrowInfo{
			AbonentID:    *row.BorrowedBy,
			BorrowedAt:   *row.BorrowedAt,
			ReturnBefore: *row.ReturnBefore,
		}
	}

	return domain.RestoreBook(row.ID, title, isbn, pubDate, authors, borrowInfo, row.CreatedAt), nil
}
