package meeting

import (
	"bytes"
	"slices"
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

// Meeting is a booked slot. Start and end are copied from the slot at booking time and never change.
type Meeting struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	OrganizerID    uuid.UUID   `json:"organizer_id"`
	SlotID         uuid.UUID   `json:"slot_id"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	CreatedAt      time.Time   `json:"created_at"`
}

type ScheduleRequest struct {
	SlotID         uuid.UUID
	OrganizerID    uuid.UUID
	Title          string
	Description    string
	ParticipantIDs []uuid.UUID
}

func (r *ScheduleRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperr.Validation("title is required")
	}
	if r.SlotID == uuid.Nil {
		return apperr.Validation("slot ID is required")
	}
	if r.OrganizerID == uuid.Nil {
		return apperr.Validation("organizer ID is required")
	}
	if slices.Contains(r.ParticipantIDs, uuid.Nil) {
		return apperr.Validation("participant IDs must not be empty")
	}
	return nil
}

// uniqueSorted drops duplicate ids and orders the rest bytewise.
func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, compareIDs)
	out = slices.Compact(out)
	if out == nil {
		out = []uuid.UUID{}
	}
	return out
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
