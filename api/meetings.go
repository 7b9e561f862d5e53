package api

import (
	"bytes"
	"fmt"
	"net/http"

	"meeting-scheduler/apperr"
	"meeting-scheduler/meeting"

	"github.com/google/uuid"
)

type scheduleMeetingRequest struct {
	SlotID         string   `json:"slot_id"`
	OrganizerID    string   `json:"organizer_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ParticipantIDs []string `json:"participant_ids"`
}

func (req scheduleMeetingRequest) toSchedule() (meeting.ScheduleRequest, error) {
	slotID, err := parseID("slot ID", req.SlotID)
	if err != nil {
		return meeting.ScheduleRequest{}, err
	}
	organizerID, err := parseID("organizer ID", req.OrganizerID)
	if err != nil {
		return meeting.ScheduleRequest{}, err
	}

	participants := make([]uuid.UUID, len(req.ParticipantIDs))
	for i, raw := range req.ParticipantIDs {
		if participants[i], err = parseID("participant ID", raw); err != nil {
			return meeting.ScheduleRequest{}, err
		}
	}

	return meeting.ScheduleRequest{
		SlotID:         slotID,
		OrganizerID:    organizerID,
		Title:          req.Title,
		Description:    req.Description,
		ParticipantIDs: participants,
	}, nil
}

func (a *API) scheduleMeeting(w http.ResponseWriter, r *http.Request) {
	var req scheduleMeetingRequest
	if err := decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}
	payload, err := req.toSchedule()
	if err != nil {
		a.Error(w, r, err)
		return
	}

	m, err := a.meetings.ScheduleMeeting(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, m)
}

func (a *API) getMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathID(r, "meeting ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	m, err := a.meetings.GetMeeting(r.Context(), meetingID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if m == nil {
		a.Error(w, r, apperr.NotFound("meeting not found: %s", meetingID))
		return
	}
	a.Response(w, http.StatusOK, m)
}

type getMeetingsResponse struct {
	Meetings []meeting.Meeting `json:"meetings"`
}

func (a *API) getUserMeetings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	meetings, err := a.meetings.ListMeetingsByUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getMeetingsResponse{Meetings: meetings})
}

func (a *API) exportUserMeetings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	meetings, err := a.meetings.ListMeetingsByUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := meeting.WriteICS(&buf, meetings); err != nil {
		a.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", userID.String()+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
