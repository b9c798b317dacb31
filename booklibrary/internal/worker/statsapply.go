package worker

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/repository"
	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
)

// StatsLog publishes folded statistics to the broker after commit.
type StatsLog interface {
	Log(ev kafka.EventStats) error
}

// Processor folds pending book_stat_changes rows into the book_stats read
// model. It is the only writer of book_stats. One batch is one transaction:
// rows are locked in insertion order, summed per key, applied with a
// non-negative clamp, and deleted — so a crash at any point retries the whole
// batch and a double application folds to the same counters.
type Processor struct {
	repo     repository.Repository
	outbox   repository.Outbox
	stats    repository.Stats
	statsLog StatsLog
	log      *zap.Logger

	batchSize int
	interval  time.Duration
}

func NewProcessor(
	repo repository.Repository,
	outbox repository.Outbox,
	stats repository.Stats,
	statsLog StatsLog,
	batchSize int,
	interval time.Duration,
	log *zap.Logger,
) *Processor {
	return &Processor{
		repo:      repo,
		outbox:    outbox,
		stats:     stats,
		statsLog:  statsLog,
		log:       log.Named("stats-processor"),
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run processes batches on a timer until ctx is cancelled. A single goroutine
// runs the loop; per-key ordering relies on batches being serialized.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

// drain processes batches until the backlog is shorter than one batch.
func (p *Processor) drain(ctx context.Context) {
	for {
		n, err := p.ProcessBatch(ctx)
		if err != nil {
			p.log.Error("process batch", zap.Error(err))
			return
		}
		if n < p.batchSize {
			return
		}
	}
}

// ProcessBatch folds one batch, returns the number of outbox rows retired.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	var (
		processed int
		folded    []model.BookStat
	)
	err := p.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		processed, folded = 0, nil

		changes, err := p.outbox.PendingBatch(ctx, tx, p.batchSize)
		if err != nil {
			return errors.Wrap(err, "pending batch")
		}
		if len(changes) == 0 {
			return nil
		}

		deltas, order := foldChanges(changes)

		existing, err := p.stats.GetForUpdate(ctx, tx, order)
		if err != nil {
			return errors.Wrap(err, "stats for update")
		}
		existingByKey := make(map[repository.StatKey]model.BookStat, len(existing))
		for _, st := range existing {
			existingByKey[statKeyOf(st.Isbn, st.PublicationDate)] = st
		}

		var inserts []model.BookStat
		for _, key := range order {
			delta := deltas[key]

			if current, ok := existingByKey[key]; ok {
				current.AvailableCount = nonNegativeSum(nonNegative(current.AvailableCount), delta.AvailableCount)
				current.BorrowedCount = nonNegativeSum(nonNegative(current.BorrowedCount), delta.BorrowedCount)
				if err := p.stats.Add(ctx, tx, current); err != nil {
					return errors.Wrap(err, "update stat")
				}
				folded = append(folded, current)
				continue
			}

			title, authors, err := p.stats.CatalogInfo(ctx, tx, key)
			if err != nil {
				return errors.Wrap(err, "catalog info")
			}
			row := model.BookStat{
				Isbn:            delta.Isbn,
				PublicationDate: delta.PublicationDate,
				Title:           title,
				Authors:         authors,
				AvailableCount:  nonNegative(delta.AvailableCount),
				BorrowedCount:   nonNegative(delta.BorrowedCount),
			}
			inserts = append(inserts, row)
			folded = append(folded, row)
		}

		if err := p.stats.Insert(ctx, tx, inserts); err != nil {
			return errors.Wrap(err, "insert stats")
		}

		ids := make([]int64, 0, len(changes))
		for _, ch := range changes {
			ids = append(ids, ch.ID)
		}
		if err := p.outbox.Delete(ctx, tx, ids); err != nil {
			return errors.Wrap(err, "retire batch")
		}

		processed = len(changes)
		return nil
	})
	if err != nil {
		return 0, err
	}

	p.publishFolded(folded)

	return processed, nil
}

// publishFolded mirrors committed counters to the broker, best effort.
func (p *Processor) publishFolded(folded []model.BookStat) {
	if p.statsLog == nil {
		return
	}
	for _, st := range folded {
		err := p.statsLog.Log(kafka.EventStats{
			EventType:       "book.stats.updated",
			Isbn:            st.Isbn,
			PublicationDate: st.PublicationDate.Format(time.DateOnly),
			AvailableCount:  st.AvailableCount,
			BorrowedCount:   st.BorrowedCount,
			OccurredAt:      time.Now().UTC(),
		})
		if err != nil {
			p.log.Warn("publish stats", zap.String("isbn", st.Isbn), zap.Error(err))
		}
	}
}

// foldChanges sums deltas per (isbn, publication date), preserving first-seen
// key order. The fold is a pure sum: replaying the same batch yields the same
// result.
func foldChanges(changes []model.BookStatChange) (map[repository.StatKey]model.BookStatChange, []repository.StatKey) {
	deltas := make(map[repository.StatKey]model.BookStatChange, len(changes))
	var order []repository.StatKey

	for _, ch := range changes {
		key := statKeyOf(ch.Isbn, ch.PublicationDate)
		acc, seen := deltas[key]
		if !seen {
			order = append(order, key)
			deltas[key] = ch
			continue
		}
		acc.AvailableCount += ch.AvailableCount
		acc.BorrowedCount += ch.BorrowedCount
		deltas[key] = acc
	}

	return deltas, order
}

func statKeyOf(isbn string, publicationDate time.Time) repository.StatKey {
	return repository.StatKey{
		Isbn:            isbn,
		PublicationDate: publicationDate.Format(time.DateOnly),
	}
}

// Counters never go below zero: a transiently negative sum is an ordering
// artifact, not a state to persist.
func nonNegativeSum(left, right int) int {
	return nonNegative(left + right)
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
