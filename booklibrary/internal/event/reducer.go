package event

import (
	"time"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
)

type createdKey struct {
	title string
	isbn  string
	date  string
}

// Reduce collapses BookCreated events sharing (title, isbn, publication date)
// into a single counted event. All other events pass through in their original
// relative order; merged events follow them, ordered by first occurrence.
func Reduce(events []domain.Event) []domain.Event {
	// nothing to reduce
	if len(events) <= 1 {
		return events
	}

	var (
		out      = make([]domain.Event, 0, len(events))
		merged   = make(map[createdKey]domain.BookCreated)
		keyOrder []createdKey
	)

	for _, ev := range events {
		created, ok := ev.(domain.BookCreated)
		if !ok {
			out = append(out, ev)
			continue
		}

		key := createdKey{
			title: created.Title,
			isbn:  created.Isbn,
			date:  created.PublicationDate.Format(time.DateOnly),
		}
		acc, seen := merged[key]
		if !seen {
			keyOrder = append(keyOrder, key)
			merged[key] = created
			continue
		}
		acc.Count += created.Count
		merged[key] = acc
	}

	for _, key := range keyOrder {
		out = append(out, merged[key])
	}

	return out
}
