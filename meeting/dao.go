package meeting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"meeting-scheduler/apperr"
	"meeting-scheduler/database"
	"meeting-scheduler/slot"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectColumns = `SELECT id, title, description, organizer_id, slot_id, start_time, end_time, created_at FROM meetings`

// ScheduleMeeting books a FREE slot for the organizer and participants. The meeting row, its
// participants and the slot claim commit together or not at all.
func (a *Accessor) ScheduleMeeting(ctx context.Context, req ScheduleRequest, now time.Time) (*Meeting, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	participants := uniqueSorted(req.ParticipantIDs)

	if err := a.checkUsers(ctx, req.OrganizerID, participants); err != nil {
		return nil, err
	}

	m := &Meeting{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    strings.TrimSpace(req.Description),
		OrganizerID:    req.OrganizerID,
		SlotID:         req.SlotID,
		ParticipantIDs: participants,
		CreatedAt:      now.UTC(),
	}

	err := database.InTx(ctx, a.db, func(tx *sql.Tx) error {
		slots := a.slotAccessor.WithTx(tx)

		// The row lock keeps the copied times equal to the slot the claim flips.
		s, err := slots.GetSlotForUpdate(ctx, req.SlotID)
		if err != nil {
			return err
		}
		if s == nil {
			return apperr.NotFound("slot not found: %s", req.SlotID)
		}
		if s.Status != slot.StatusFree {
			return apperr.Conflict("slot already booked: %s", req.SlotID)
		}
		m.StartTime, m.EndTime = s.StartTime, s.EndTime

		if err := insertMeeting(ctx, tx, m); err != nil {
			return err
		}
		return slots.ClaimSlot(ctx, s.ID, m.ID)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			a.logger.Debug("slot not bookable", "slot_id", req.SlotID, "error", err)
		}
		return nil, fmt.Errorf("schedule meeting: %w", err)
	}

	a.scheduled.Inc()
	a.logger.Info("meeting scheduled", "meeting_id", m.ID, "slot_id", m.SlotID, "organizer_id", m.OrganizerID, "participants", len(m.ParticipantIDs))
	return m, nil
}

func (a *Accessor) checkUsers(ctx context.Context, organizerID uuid.UUID, participants []uuid.UUID) error {
	ids := uniqueSorted(append([]uuid.UUID{organizerID}, participants...))
	missing, err := a.userAccessor.FindMissing(ctx, ids)
	if err != nil {
		return fmt.Errorf("find users: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	for _, id := range missing {
		if id == organizerID {
			return apperr.NotFound("organizer not found: %s", organizerID)
		}
	}
	names := make([]string, len(missing))
	for i, id := range missing {
		names[i] = id.String()
	}
	return apperr.NotFound("participants not found: %s", strings.Join(names, ", "))
}

func insertMeeting(ctx context.Context, tx *sql.Tx, m *Meeting) error {
	description := sql.NullString{String: m.Description, Valid: m.Description != ""}

	query := `INSERT INTO meetings (id, title, description, organizer_id, slot_id, start_time, end_time, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(ctx, query, m.ID, m.Title, description, m.OrganizerID, m.SlotID, m.StartTime, m.EndTime, m.CreatedAt); err != nil {
		if database.IsUniqueViolation(err, "meetings_slot_id_key") {
			return apperr.Conflict("slot already booked: %s", m.SlotID)
		}
		return apperr.Internal("insert meeting", err)
	}

	for _, userID := range m.ParticipantIDs {
		query := `INSERT INTO meeting_participants (meeting_id, user_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, m.ID, userID); err != nil {
			return apperr.Internal("insert participant", err)
		}
	}
	return nil
}

// GetMeeting returns nil without error when the meeting does not exist.
func (a *Accessor) GetMeeting(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	m, err := scanMeeting(a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("scan meeting", err)
	}

	meetings := []Meeting{m}
	if err := a.loadParticipants(ctx, meetings); err != nil {
		return nil, err
	}
	return &meetings[0], nil
}

// ListMeetingsByUser returns meetings the user organizes or participates in, ordered by start time then id.
func (a *Accessor) ListMeetingsByUser(ctx context.Context, userID uuid.UUID) ([]Meeting, error) {
	query := selectColumns + ` WHERE organizer_id = $1 OR id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = $1) ORDER BY start_time, id`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Internal("query meetings", err)
	}
	defer rows.Close()

	meetings := []Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, apperr.Internal("scan meeting", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate meetings", err)
	}

	if err := a.loadParticipants(ctx, meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (Meeting, error) {
	var m Meeting
	var description sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &description, &m.OrganizerID, &m.SlotID, &m.StartTime, &m.EndTime, &m.CreatedAt); err != nil {
		return Meeting{}, err
	}
	m.Description = description.String
	m.StartTime = m.StartTime.UTC()
	m.EndTime = m.EndTime.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.ParticipantIDs = []uuid.UUID{}
	return m, nil
}

// loadParticipants fills ParticipantIDs for all meetings with one query.
func (a *Accessor) loadParticipants(ctx context.Context, meetings []Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(meetings))
	ids := make([]string, len(meetings))
	for i, m := range meetings {
		index[m.ID] = i
		ids[i] = m.ID.String()
	}

	query := `SELECT meeting_id, user_id FROM meeting_participants WHERE meeting_id = ANY($1) ORDER BY meeting_id, user_id`
	rows, err := a.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return apperr.Internal("query participants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var meetingID, userID uuid.UUID
		if err := rows.Scan(&meetingID, &userID); err != nil {
			return apperr.Internal("scan participant", err)
		}
		if i, ok := index[meetingID]; ok {
			meetings[i].ParticipantIDs = append(meetings[i].ParticipantIDs, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return apperr.Internal("iterate participants", err)
	}
	return nil
}
