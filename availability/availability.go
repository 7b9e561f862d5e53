package availability

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"meeting-scheduler/apperr"
	"meeting-scheduler/slot"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GetAvailability returns every slot of every calendar owned by userID that intersects [from, to),
// ordered by start time then slot id. Adjacent free slots are not merged.
func (a *Accessor) GetAvailability(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Item, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperr.Validation("from and to are required")
	}
	if !from.Before(to) {
		return nil, apperr.Validation("from must be before to")
	}

	calendars, err := a.calendarAccessor.GetCalendarsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get calendars: %w", err)
	}
	if len(calendars) == 0 {
		return []Item{}, nil
	}

	perCalendar := make([][]Item, len(calendars))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i, c := range calendars {
		g.Go(func() error {
			slots, err := a.slotAccessor.ListSlots(gctx, c.ID, slotFilter(from, to))
			if err != nil {
				return fmt.Errorf("list slots for calendar %s: %w", c.ID, err)
			}
			items := make([]Item, len(slots))
			for j, s := range slots {
				items[j] = itemFromSlot(s)
			}
			perCalendar[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := slices.Concat(perCalendar...)
	if items == nil {
		items = []Item{}
	}
	slices.SortFunc(items, func(x, y Item) int {
		if c := x.StartTime.Compare(y.StartTime); c != 0 {
			return c
		}
		return bytes.Compare(x.SlotID[:], y.SlotID[:])
	})

	return items, nil
}

func slotFilter(from, to time.Time) slot.Filter {
	return slot.Filter{From: &from, To: &to}
}
