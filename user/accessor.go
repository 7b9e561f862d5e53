package user

import "database/sql"

const (
	// MinSearchLength is the shortest query SearchUsers will run.
	MinSearchLength = 2
	// MaxSearchResults caps every search.
	MaxSearchResults = 10
)

// Accessor is the DB layer entrypoint for user-related queries.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
