package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

const selectColumns = `SELECT id, calendar_id, start_time, end_time, status, meeting_id FROM time_slots`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (Slot, error) {
	var s Slot
	var meetingID uuid.NullUUID
	if err := row.Scan(&s.ID, &s.CalendarID, &s.StartTime, &s.EndTime, &s.Status, &meetingID); err != nil {
		return Slot{}, err
	}
	if meetingID.Valid {
		id := meetingID.UUID
		s.MeetingID = &id
	}
	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	return s, nil
}

// CreateSlot adds a FREE slot to the calendar. The calendar row is locked for the duration of the
// overlap check so concurrent creates in one calendar cannot both succeed.
func (a *Accessor) CreateSlot(ctx context.Context, calendarID uuid.UUID, start, end time.Time) (*Slot, error) {
	start, end = normalize(start), normalize(end)
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}

	created := &Slot{
		ID:         uuid.New(),
		CalendarID: calendarID,
		StartTime:  start,
		EndTime:    end,
		Status:     StatusFree,
	}

	err := a.inTx(ctx, func(tx *Accessor) error {
		if err := tx.lockCalendar(ctx, calendarID); err != nil {
			return err
		}
		if err := tx.checkOverlap(ctx, calendarID, start, end, uuid.Nil); err != nil {
			return err
		}

		query := `INSERT INTO time_slots (id, calendar_id, start_time, end_time, status) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.db.ExecContext(ctx, query, created.ID, calendarID, start, end, string(StatusFree)); err != nil {
			return apperr.Internal("insert slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	a.created.Inc()
	return created, nil
}

// GetSlot returns nil without error when the slot does not exist.
func (a *Accessor) GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error) {
	s, err := scanSlot(a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("scan slot", err)
	}
	return &s, nil
}

// GetSlotForUpdate reads the slot and holds its row lock until the surrounding transaction ends.
// It returns nil without error when the slot does not exist.
func (a *Accessor) GetSlotForUpdate(ctx context.Context, id uuid.UUID) (*Slot, error) {
	s, err := scanSlot(a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("lock slot", err)
	}
	return &s, nil
}

// ListSlots returns the calendar's slots intersecting [filter.From, filter.To), ordered by start time then id.
func (a *Accessor) ListSlots(ctx context.Context, calendarID uuid.UUID, filter Filter) ([]Slot, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var query strings.Builder
	query.WriteString(selectColumns + ` WHERE calendar_id = $1`)
	args := []any{calendarID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		fmt.Fprintf(&query, ` AND status = $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, normalize(*filter.To))
		fmt.Fprintf(&query, ` AND start_time < $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, normalize(*filter.From))
		fmt.Fprintf(&query, ` AND end_time > $%d`, len(args))
	}
	query.WriteString(` ORDER BY start_time, id`)

	rows, err := a.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, apperr.Internal("query slots", err)
	}
	defer rows.Close()

	slots := []Slot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, apperr.Internal("scan slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate slots", err)
	}

	return slots, nil
}

// UpdateSlot applies patch to a FREE slot. Booked slots are immutable and only scheduling may mark a slot BUSY.
func (a *Accessor) UpdateSlot(ctx context.Context, id uuid.UUID, patch Patch) (*Slot, error) {
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperr.Validation("invalid slot status %q", *patch.Status)
		}
		if *patch.Status == StatusBusy {
			return nil, apperr.Validation("slots become busy only by scheduling a meeting")
		}
	}

	var updated Slot
	err := a.inTx(ctx, func(tx *Accessor) error {
		current, err := scanSlot(tx.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("slot not found: %s", id)
			}
			return apperr.Internal("scan slot", err)
		}
		if current.Status == StatusBusy {
			return apperr.Conflict("slot %s is linked to a meeting", id)
		}

		updated = current
		if patch.StartTime != nil {
			updated.StartTime = normalize(*patch.StartTime)
		}
		if patch.EndTime != nil {
			updated.EndTime = normalize(*patch.EndTime)
		}
		if updated.StartTime.Equal(current.StartTime) && updated.EndTime.Equal(current.EndTime) {
			return nil
		}
		if err := ValidateRange(updated.StartTime, updated.EndTime); err != nil {
			return err
		}

		if err := tx.lockCalendar(ctx, current.CalendarID); err != nil {
			return err
		}
		if err := tx.checkOverlap(ctx, current.CalendarID, updated.StartTime, updated.EndTime, id); err != nil {
			return err
		}

		query := `UPDATE time_slots SET start_time = $1, end_time = $2 WHERE id = $3`
		if _, err := tx.db.ExecContext(ctx, query, updated.StartTime, updated.EndTime, id); err != nil {
			return apperr.Internal("update slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}

	return &updated, nil
}

// DeleteSlot removes a FREE slot. Deleting a missing slot is a no-op.
func (a *Accessor) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1 AND status = 'FREE'`, id)
	if err != nil {
		return apperr.Internal("delete slot", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return apperr.Internal("delete slot", err)
	} else if n > 0 {
		return nil
	}

	var status Status
	err = a.db.QueryRowContext(ctx, `SELECT status FROM time_slots WHERE id = $1`, id).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return apperr.Internal("scan slot status", err)
	case status == StatusBusy:
		return apperr.Conflict("cannot delete slot %s: it is linked to a meeting", id)
	}
	return apperr.Conflict("slot %s changed concurrently", id)
}

// ClaimSlot flips a FREE slot to BUSY and links the meeting in a single conditional update.
// Exactly one of any number of concurrent claims on the same slot succeeds; the others get ErrConflict.
func (a *Accessor) ClaimSlot(ctx context.Context, id, meetingID uuid.UUID) error {
	query := `UPDATE time_slots SET status = 'BUSY', meeting_id = $1 WHERE id = $2 AND status = 'FREE'`
	res, err := a.db.ExecContext(ctx, query, meetingID, id)
	if err != nil {
		return apperr.Internal("claim slot", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("claim slot", err)
	}
	if n == 0 {
		return apperr.Conflict("slot already booked: %s", id)
	}
	return nil
}

func (a *Accessor) lockCalendar(ctx context.Context, calendarID uuid.UUID) error {
	var id uuid.UUID
	err := a.db.QueryRowContext(ctx, `SELECT id FROM calendars WHERE id = $1 FOR UPDATE`, calendarID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("calendar not found: %s", calendarID)
	}
	if err != nil {
		return apperr.Internal("lock calendar", err)
	}
	return nil
}

// checkOverlap fails with ErrOverlap if [start, end) intersects any slot of the calendar other than exclude.
func (a *Accessor) checkOverlap(ctx context.Context, calendarID uuid.UUID, start, end time.Time, exclude uuid.UUID) error {
	query := `SELECT EXISTS(SELECT 1 FROM time_slots WHERE calendar_id = $1 AND start_time < $3 AND end_time > $2 AND id <> $4)`

	var overlaps bool
	if err := a.db.QueryRowContext(ctx, query, calendarID, start, end, exclude).Scan(&overlaps); err != nil {
		return apperr.Internal("check overlap", err)
	}
	if overlaps {
		return apperr.ErrOverlap
	}
	return nil
}
