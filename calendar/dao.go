package calendar

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

func (a *Accessor) CreateCalendar(ctx context.Context, calendar Calendar, now time.Time) (*Calendar, error) {
	calendar.Name = strings.TrimSpace(calendar.Name)
	if err := calendar.Validate(); err != nil {
		return nil, err
	}

	exists, err := a.userAccessor.Exists(ctx, calendar.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user not found: %s", calendar.UserID)
	}

	id := uuid.New()
	now = now.UTC()

	query := `INSERT INTO calendars (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := a.db.ExecContext(ctx, query, id, calendar.UserID, calendar.Name, now); err != nil {
		return nil, apperr.Internal("insert calendar", err)
	}

	return &Calendar{
		ID:        id,
		UserID:    calendar.UserID,
		Name:      calendar.Name,
		CreatedAt: now,
	}, nil
}

// GetCalendar returns nil without error when the calendar does not exist.
func (a *Accessor) GetCalendar(ctx context.Context, id uuid.UUID) (*Calendar, error) {
	var calendar Calendar

	query := `SELECT id, user_id, name, created_at FROM calendars WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&calendar.ID, &calendar.UserID, &calendar.Name, &calendar.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("scan calendar", err)
	}

	calendar.CreatedAt = calendar.CreatedAt.UTC()
	return &calendar, nil
}

func (a *Accessor) GetCalendarsByUser(ctx context.Context, userID uuid.UUID) ([]Calendar, error) {
	query := `SELECT id, user_id, name, created_at FROM calendars WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Internal("query calendars", err)
	}
	defer rows.Close()

	calendars := []Calendar{}
	for rows.Next() {
		var calendar Calendar
		if err := rows.Scan(&calendar.ID, &calendar.UserID, &calendar.Name, &calendar.CreatedAt); err != nil {
			return nil, apperr.Internal("scan calendar", err)
		}
		calendar.CreatedAt = calendar.CreatedAt.UTC()
		calendars = append(calendars, calendar)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate calendars", err)
	}

	return calendars, nil
}
