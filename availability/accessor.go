package availability

import (
	"context"

	"meeting-scheduler/calendar"
	"meeting-scheduler/slot"

	"github.com/google/uuid"
)

// maxFanOut bounds the number of calendars queried at once for one request.
const maxFanOut = 4

type CalendarAccessor interface {
	GetCalendarsByUser(ctx context.Context, userID uuid.UUID) ([]calendar.Calendar, error)
}

type SlotAccessor interface {
	ListSlots(ctx context.Context, calendarID uuid.UUID, filter slot.Filter) ([]slot.Slot, error)
}

type Accessor struct {
	calendarAccessor CalendarAccessor
	slotAccessor     SlotAccessor
}

func NewAccessor(calendarAccessor CalendarAccessor, slotAccessor SlotAccessor) *Accessor {
	return &Accessor{
		calendarAccessor: calendarAccessor,
		slotAccessor:     slotAccessor,
	}
}
