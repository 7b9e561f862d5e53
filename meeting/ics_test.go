package meeting_test

import (
	"bytes"
	"testing"
	"time"

	"meeting-scheduler/meeting"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := meeting.Meeting{
		ID:             uuid.New(),
		Title:          "Sync",
		Description:    "weekly",
		OrganizerID:    uuid.New(),
		SlotID:         uuid.New(),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		ParticipantIDs: []uuid.UUID{uuid.New(), uuid.New()},
		CreatedAt:      start.Add(-24 * time.Hour),
	}

	var buf bytes.Buffer
	require.NoError(t, meeting.WriteICS(&buf, []meeting.Meeting{m}))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "VALUE=TEXT")

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)
	ev := events[0]

	uid, err := ev.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, m.ID.String(), uid)

	summary, err := ev.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Sync", summary)

	dtStart, err := ev.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, dtStart.Equal(m.StartTime))

	dtEnd, err := ev.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, dtEnd.Equal(m.EndTime))

	assert.Len(t, ev.Props[ical.PropAttendee], 2)

	organizer := ev.Props.Get(ical.PropOrganizer)
	require.NotNil(t, organizer)
	assert.Equal(t, "urn:uuid:"+m.OrganizerID.String(), organizer.Value)
	assert.Equal(t, ical.ValueCalendarAddress, organizer.ValueType())
	assert.Empty(t, organizer.Params.Get(ical.ParamValue))
	for _, attendee := range ev.Props[ical.PropAttendee] {
		assert.Equal(t, ical.ValueCalendarAddress, attendee.ValueType())
	}
}
