package slot

import (
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

type Status string

const (
	StatusFree Status = "FREE"
	StatusBusy Status = "BUSY"
)

func (s Status) Valid() bool {
	return s == StatusFree || s == StatusBusy
}

// ParseStatus accepts FREE or BUSY in any case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", apperr.Validation("invalid slot status %q", raw)
	}
	return s, nil
}

// Slot is a bookable interval of one calendar. MeetingID is set iff Status is BUSY.
type Slot struct {
	ID         uuid.UUID  `json:"id"`
	CalendarID uuid.UUID  `json:"calendar_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	Status     Status     `json:"status"`
	MeetingID  *uuid.UUID `json:"meeting_id"`
}

// Overlaps reports whether the slot intersects [start, end). Back-to-back intervals do not overlap.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

// Filter narrows ListSlots. Nil fields are not applied.
type Filter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
}

func (f Filter) Validate() error {
	if f.Status != nil && !f.Status.Valid() {
		return apperr.Validation("invalid slot status %q", *f.Status)
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return apperr.Validation("from must be before to")
	}
	return nil
}

// Patch is a partial update of a FREE slot.
type Patch struct {
	StartTime *time.Time
	EndTime   *time.Time
	Status    *Status
}

func ValidateRange(start, end time.Time) error {
	if start.IsZero() {
		return apperr.Validation("start time is required")
	}
	if end.IsZero() {
		return apperr.Validation("end time is required")
	}
	if !start.Before(end) {
		return apperr.Validation("end time must be after start time")
	}
	return nil
}

// normalize brings a timestamp to the stored precision and zone.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
