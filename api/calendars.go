package api

import (
	"net/http"

	"meeting-scheduler/apperr"
	"meeting-scheduler/calendar"
)

type createCalendarRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (a *API) createCalendar(w http.ResponseWriter, r *http.Request) {
	var req createCalendarRequest
	if err := decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}
	userID, err := parseID("user ID", req.UserID)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	created, err := a.calendars.CreateCalendar(r.Context(), calendar.Calendar{UserID: userID, Name: req.Name}, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

func (a *API) getCalendar(w http.ResponseWriter, r *http.Request) {
	calendarID, err := pathID(r, "calendar ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	c, err := a.calendars.GetCalendar(r.Context(), calendarID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if c == nil {
		a.Error(w, r, apperr.NotFound("calendar not found: %s", calendarID))
		return
	}
	a.Response(w, http.StatusOK, c)
}

type getCalendarsResponse struct {
	Calendars []calendar.Calendar `json:"calendars"`
}

func (a *API) getUserCalendars(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}
	calendars, err := a.calendars.GetCalendarsByUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getCalendarsResponse{Calendars: calendars})
}
