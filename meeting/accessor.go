package meeting

import (
	"context"
	"database/sql"
	"log/slog"

	"meeting-scheduler/slot"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type UserAccessor interface {
	FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// Accessor is the meeting scheduler. Booking runs the slot store inside its own transaction.
type Accessor struct {
	db           *sql.DB
	userAccessor UserAccessor
	slotAccessor *slot.Accessor
	logger       *slog.Logger
	scheduled    prometheus.Counter
}

type Option func(*Accessor)

// WithScheduledCounter counts meetings whose booking transaction committed.
func WithScheduledCounter(c prometheus.Counter) Option {
	return func(a *Accessor) {
		a.scheduled = c
	}
}

func NewAccessor(db *sql.DB, userAccessor UserAccessor, slotAccessor *slot.Accessor, logger *slog.Logger, opts ...Option) *Accessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Accessor{
		db:           db,
		userAccessor: userAccessor,
		slotAccessor: slotAccessor,
		logger:       logger,
		scheduled:    prometheus.NewCounter(prometheus.CounterOpts{Name: "meetings_scheduled_total"}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
