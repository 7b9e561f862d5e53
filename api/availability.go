package api

import (
	"net/http"
	"time"

	"meeting-scheduler/availability"
)

// defaultWindow is used when the caller leaves to unset.
const defaultWindow = 7 * 24 * time.Hour

type getAvailabilityResponse struct {
	From  time.Time           `json:"from"`
	To    time.Time           `json:"to"`
	Items []availability.Item `json:"items"`
}

func (a *API) getAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	q := r.URL.Query()
	from := a.now().UTC().Truncate(time.Second)
	if raw := q.Get("from"); raw != "" {
		if from, err = parseTime("from", raw); err != nil {
			a.Error(w, r, err)
			return
		}
	}
	to := from.Add(defaultWindow)
	if raw := q.Get("to"); raw != "" {
		if to, err = parseTime("to", raw); err != nil {
			a.Error(w, r, err)
			return
		}
	}

	items, err := a.availability.GetAvailability(r.Context(), userID, from, to)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getAvailabilityResponse{From: from, To: to, Items: items})
}
