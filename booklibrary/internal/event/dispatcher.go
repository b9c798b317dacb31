package event

import (
	"context"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Handler reacts to one event inside the unit of work that produced it.
// Returning an error fails the whole save.
type Handler func(ctx context.Context, tx sqlx.ExtContext, ev domain.Event) error

// maxRounds bounds the drain loop: handlers may record new events on tracked
// aggregates, but an unbounded cascade is a programming defect.
const maxRounds = 16

// Dispatcher drains, reduces and publishes pending domain events of all
// aggregates tracked in a unit of work, before the transaction commits.
// The dispatch table is built explicitly at startup; there is no ambient
// registry.
type Dispatcher struct {
	handlers map[string][]Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      log.Named("dispatcher"),
	}
}

func (d *Dispatcher) Register(eventName string, h Handler) {
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

// Dispatch loops until no tracked aggregate holds pending events. Buffers are
// cleared before publishing, so events recorded by handlers land in the next
// round instead of being conflated with the current batch.
func (d *Dispatcher) Dispatch(ctx context.Context, tx sqlx.ExtContext, tracked ...domain.Tracked) error {
	for round := 0; ; round++ {
		var batch []domain.Event
		for _, t := range tracked {
			if !t.HasEvents() {
				continue
			}
			batch = append(batch, t.PendingEvents()...)
			t.ClearEvents()
		}
		if len(batch) == 0 {
			return nil
		}
		if round >= maxRounds {
			return errors.Errorf("domain event cascade did not terminate after %d rounds", maxRounds)
		}

		for _, ev := range Reduce(batch) {
			d.log.Debug("publish", zap.String("event", ev.EventName()))
			for _, h := range d.handlers[ev.EventName()] {
				if err := h(ctx, tx, ev); err != nil {
					return errors.Wrapf(err, "handle %s", ev.EventName())
				}
			}
		}
	}
}
