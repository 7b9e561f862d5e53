package slot

import (
	"context"
	"database/sql"

	"meeting-scheduler/database"

	"github.com/prometheus/client_golang/prometheus"
)

// Accessor is the slot store. It runs against the pool or, through WithTx, inside a caller's transaction.
type Accessor struct {
	db      database.DBTX
	created prometheus.Counter
}

type Option func(*Accessor)

// WithCreatedCounter counts slots created through the accessor.
func WithCreatedCounter(c prometheus.Counter) Option {
	return func(a *Accessor) {
		a.created = c
	}
}

func NewAccessor(db database.DBTX, opts ...Option) *Accessor {
	a := &Accessor{
		db:      db,
		created: prometheus.NewCounter(prometheus.CounterOpts{Name: "slots_created_total"}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Accessor) WithTx(tx *sql.Tx) *Accessor {
	return &Accessor{db: tx, created: a.created}
}

// inTx runs fn in its own transaction unless the accessor is already bound to one.
func (a *Accessor) inTx(ctx context.Context, fn func(*Accessor) error) error {
	db, ok := a.db.(*sql.DB)
	if !ok {
		return fn(a)
	}
	return database.InTx(ctx, db, func(tx *sql.Tx) error {
		return fn(a.WithTx(tx))
	})
}
