package calendar

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type UserAccessor interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Accessor is the DB layer entrypoint for calendar-related queries.
type Accessor struct {
	db           *sql.DB
	userAccessor UserAccessor
}

func NewAccessor(db *sql.DB, userAccessor UserAccessor) *Accessor {
	return &Accessor{
		db:           db,
		userAccessor: userAccessor,
	}
}
