package meeting

import (
	"fmt"
	"io"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//meeting-scheduler//EN"

// WriteICS encodes meetings as an iCalendar feed.
func WriteICS(w io.Writer, meetings []Meeting) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, m := range meetings {
		cal.Children = append(cal.Children, toICal(m))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toICal(m Meeting) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, m.ID.String())
	ve.Props.SetText(ical.PropSummary, m.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, m.CreatedAt.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.UTC())
	ve.Props.SetText(ical.PropStatus, "CONFIRMED")

	if m.Description != "" {
		ve.Props.SetText(ical.PropDescription, m.Description)
	}

	ve.Props.Add(calAddress(ical.PropOrganizer, m.OrganizerID))
	for _, id := range m.ParticipantIDs {
		ve.Props.Add(calAddress(ical.PropAttendee, id))
	}
	return ve
}

// calAddress keeps the property's default CAL-ADDRESS type, so no VALUE parameter is written.
func calAddress(name string, id uuid.UUID) *ical.Prop {
	p := ical.NewProp(name)
	p.Value = "urn:uuid:" + id.String()
	return p
}
