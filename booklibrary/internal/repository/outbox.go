package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
)

const bookStatChangesTableName = `book_stat_changes`

// Outbox is the durable append log of statistics deltas. Rows are appended in
// the same transaction as the aggregate write and retired by the batch
// processor once folded into book_stats.
type Outbox interface {
	Append(ctx context.Context, tx sqlx.ExtContext, change model.BookStatChange) error
	PendingBatch(ctx context.Context, tx *sqlx.Tx, limit int) ([]model.BookStatChange, error)
	Delete(ctx context.Context, tx sqlx.ExtContext, ids []int64) error
}

type outbox struct {
	log *zap.Logger
}

func NewOutbox(log *zap.Logger) *outbox {
	return &outbox{log: log.Named("outbox")}
}

func (o *outbox) Append(ctx context.Context, tx sqlx.ExtContext, change model.BookStatChange) error {
	query, args, err := qb.Insert(bookStatChangesTableName).
		Columns("change_uid", "isbn", "publication_date", "available_count", "borrowed_count", "created_at").
		Values(change.ChangeUID, change.Isbn, change.PublicationDate, change.AvailableCount, change.BorrowedCount, change.CreatedAt).
		Suffix("on conflict (change_uid) do nothing").
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// PendingBatch locks and returns up to limit oldest rows in strict insertion
// order. Plain FOR UPDATE keeps concurrent processors serialized on the same
// head of the queue, which preserves per-key ordering.
func (o *outbox) PendingBatch(ctx context.Context, tx *sqlx.Tx, limit int) ([]model.BookStatChange, error) {
	query, args, err := qb.Select("id", "change_uid", "isbn", "publication_date", "available_count", "borrowed_count", "created_at").
		From(bookStatChangesTableName).
		OrderBy("id").
		Limit(uint64(limit)).
		Suffix("for update").
		ToSql()
	if err != nil {
		return nil, err
	}

	var changes []model.BookStatChange
	if err := tx.SelectContext(ctx, &changes, query, args...); err != nil {
		return nil, err
	}
	return changes, nil
}

func (o *outbox) Delete(ctx context.Context, tx sqlx.ExtContext, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := qb.Delete(bookStatChangesTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
