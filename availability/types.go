package availability

import (
	"time"

	"meeting-scheduler/slot"

	"github.com/google/uuid"
)

// Item is one slot as seen in a user's merged free/busy view.
type Item struct {
	SlotID    uuid.UUID   `json:"slot_id"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Status    slot.Status `json:"status"`
}

func itemFromSlot(s slot.Slot) Item {
	return Item{
		SlotID:    s.ID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
	}
}
