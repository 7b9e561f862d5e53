package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"meeting-scheduler/apperr"
	"meeting-scheduler/database"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func (a *Accessor) CreateUser(ctx context.Context, user User, now time.Time) (User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if err := user.Validate(); err != nil {
		return User{}, err
	}

	var emailTaken, usernameTaken bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1), EXISTS(SELECT 1 FROM users WHERE username = $2)`
	if err := a.db.QueryRowContext(ctx, query, user.Email, user.Username).Scan(&emailTaken, &usernameTaken); err != nil {
		return User{}, apperr.Internal("check identity", err)
	}
	if emailTaken {
		return User{}, apperr.Conflict("email already in use: %s", user.Email)
	}
	if usernameTaken {
		return User{}, apperr.Conflict("username already in use: %s", user.Username)
	}

	id := uuid.New()
	now = now.UTC()

	query = `INSERT INTO users (id, username, email, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := a.db.ExecContext(ctx, query, id, user.Username, user.Email, now); err != nil {
		switch {
		case database.IsUniqueViolation(err, "users_email_key"):
			return User{}, apperr.Conflict("email already in use: %s", user.Email)
		case database.IsUniqueViolation(err, ""):
			return User{}, apperr.Conflict("username already in use: %s", user.Username)
		}
		return User{}, apperr.Internal("insert user", err)
	}

	return User{
		ID:        id,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: now,
	}, nil
}

// GetUser returns nil without error when no user has the given id.
func (a *Accessor) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User

	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("scan user", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func (a *Accessor) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	if err := a.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, apperr.Internal("check user", err)
	}
	return exists, nil
}

// SearchUsers matches query case-insensitively against username and email.
// Queries shorter than MinSearchLength return no users; limit is clamped to MaxSearchResults.
func (a *Accessor) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return []User{}, nil
	}
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	sqlQuery := `SELECT id, username, email, created_at FROM users WHERE username ILIKE $1 OR email ILIKE $1 ORDER BY username, id LIMIT $2`
	rows, err := a.db.QueryContext(ctx, sqlQuery, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, apperr.Internal("search users", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, apperr.Internal("scan user", err)
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate users", err)
	}

	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindMissing returns the ids from ids that do not belong to any user, in input order.
func (a *Accessor) FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM users WHERE id = ANY($1)`
	rows, err := a.db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, apperr.Internal("query users", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal("scan user id", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate users", err)
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
