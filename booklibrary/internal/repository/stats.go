package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
)

const (
	bookStatsTableName   = `book_stats`
	statsEventsTableName = `stats_events`
)

// StatKey addresses one statistics row.
type StatKey struct {
	Isbn            string
	PublicationDate string
}

// Stats persists the book_stats read model and the kafka-fed activity log.
type Stats interface {
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, keys []StatKey) ([]model.BookStat, error)
	Add(ctx context.Context, tx sqlx.ExtContext, stat model.BookStat) error
	Insert(ctx context.Context, tx sqlx.ExtContext, stats []model.BookStat) error
	CatalogInfo(ctx context.Context, tx *sqlx.Tx, key StatKey) (title, authors string, err error)

	List(ctx context.Context, page, size int) (model.ListStats, error)

	RecordStatsEvent(ctx context.Context, eventType string, payload []byte) error
	ListStatsEvents(ctx context.Context, limit int) ([]model.StatsEvent, error)
}

type stats struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewStats(db *sqlx.DB, log *zap.Logger) (*stats, error) {
	return &stats{
		db:  db,
		log: log.Named("stats-repo"),
	}, nil
}

func (s *stats) GetForUpdate(ctx context.Context, tx *sqlx.Tx, keys []StatKey) ([]model.BookStat, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	or := sq.Or{}
	for _, key := range keys {
		or = append(or, sq.Eq{"isbn": key.Isbn, "publication_date": key.PublicationDate})
	}

	query, args, err := qb.Select("isbn", "publication_date", "title", "authors", "available_count", "borrowed_count").
		From(bookStatsTableName).
		Where(or).
		Suffix("for update").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []model.BookStat
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Add overwrites the counters of an existing row.
func (s *stats) Add(ctx context.Context, tx sqlx.ExtContext, stat model.BookStat) error {
	query, args, err := qb.Update(bookStatsTableName).
		Set("available_count", stat.AvailableCount).
		Set("borrowed_count", stat.BorrowedCount).
		Where(sq.Eq{"isbn": stat.Isbn}).
		Where(sq.Eq{"publication_date": stat.PublicationDate}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (s *stats) Insert(ctx context.Context, tx sqlx.ExtContext, statRows []model.BookStat) error {
	if len(statRows) == 0 {
		return nil
	}

	ib := qb.Insert(bookStatsTableName).
		Columns("isbn", "publication_date", "title", "authors", "available_count", "borrowed_count")
	for _, st := range statRows {
		ib = ib.Values(st.Isbn, st.PublicationDate, st.Title, st.Authors, st.AvailableCount, st.BorrowedCount)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// CatalogInfo fetches title/authors metadata for a key from the books table,
// used when a stats row does not exist yet.
func (s *stats) CatalogInfo(ctx context.Context, tx *sqlx.Tx, key StatKey) (string, string, error) {
	q := `
	select title, authors from books
	where isbn = $1 and publication_date = $2
	order by created_at
	limit 1
`
	var row struct {
		Title   string         `db:"title"`
		Authors types.JSONText `db:"authors"`
	}
	if err := tx.GetContext(ctx, &row, q, key.Isbn, key.PublicationDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", errors.Errorf("no catalog entry for isbn %s", key.Isbn)
		}
		return "", "", err
	}

	authors, err := authorsTextFromJSON(row.Authors)
	if err != nil {
		return "", "", err
	}
	return row.Title, authors, nil
}

func (s *stats) List(ctx context.Context, page, size int) (model.ListStats, error) {
	q := qb.Select("isbn", "publication_date", "title", "authors", "available_count", "borrowed_count").
		From(bookStatsTableName).
		OrderBy("isbn", "publication_date")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListStats{}, err
	}

	var items []model.BookStat
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return model.ListStats{}, err
	}

	return model.ListStats{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (s *stats) RecordStatsEvent(ctx context.Context, eventType string, payload []byte) error {
	query, args, err := qb.Insert(statsEventsTableName).
		Columns("event_type", "payload").
		Values(eventType, types.JSONText(payload)).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func authorsTextFromJSON(raw types.JSONText) (string, error) {
	var authors []domain.Author
	if err := json.Unmarshal(raw, &authors); err != nil {
		return "", errors.Wrap(err, "unmarshal authors")
	}
	return domain.AuthorsText(authors), nil
}

func (s *stats) ListStatsEvents(ctx context.Context, limit int) ([]model.StatsEvent, error) {
	query, args, err := qb.Select("id", "event_type", "payload", "created_at").
		From(statsEventsTableName).
		OrderBy("id desc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var events []model.StatsEvent
	if err := s.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}
	return events, nil
}
