package api

import (
	"net/http"

	"meeting-scheduler/apperr"
	"meeting-scheduler/slot"
)

type createSlotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (a *API) createSlot(w http.ResponseWriter, r *http.Request) {
	calendarID, err := pathID(r, "calendar ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	var req createSlotRequest
	if err := decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}
	start, err := parseTime("start_time", req.StartTime)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	end, err := parseTime("end_time", req.EndTime)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	created, err := a.slots.CreateSlot(r.Context(), calendarID, start, end)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

type getSlotsResponse struct {
	Slots []slot.Slot `json:"slots"`
}

func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	calendarID, err := pathID(r, "calendar ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	filter, err := slotFilter(r)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	slots, err := a.slots.ListSlots(r.Context(), calendarID, filter)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getSlotsResponse{Slots: slots})
}

func slotFilter(r *http.Request) (slot.Filter, error) {
	q := r.URL.Query()

	var filter slot.Filter
	if raw := q.Get("status"); raw != "" {
		status, err := slot.ParseStatus(raw)
		if err != nil {
			return slot.Filter{}, err
		}
		filter.Status = &status
	}

	var err error
	if filter.From, err = parseOptionalTime("from", q.Get("from")); err != nil {
		return slot.Filter{}, err
	}
	if filter.To, err = parseOptionalTime("to", q.Get("to")); err != nil {
		return slot.Filter{}, err
	}
	return filter, nil
}

func (a *API) getSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slot ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	s, err := a.slots.GetSlot(r.Context(), slotID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if s == nil {
		a.Error(w, r, apperr.NotFound("slot not found: %s", slotID))
		return
	}
	a.Response(w, http.StatusOK, s)
}

// updateSlotRequest fields are optional; omitted ones keep their current value.
type updateSlotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

func (a *API) updateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slot ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	var req updateSlotRequest
	if err := decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}

	var patch slot.Patch
	if patch.StartTime, err = parseOptionalTime("start_time", req.StartTime); err != nil {
		a.Error(w, r, err)
		return
	}
	if patch.EndTime, err = parseOptionalTime("end_time", req.EndTime); err != nil {
		a.Error(w, r, err)
		return
	}
	if req.Status != "" {
		status, err := slot.ParseStatus(req.Status)
		if err != nil {
			a.Error(w, r, err)
			return
		}
		patch.Status = &status
	}

	updated, err := a.slots.UpdateSlot(r.Context(), slotID, patch)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, updated)
}

func (a *API) deleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slot ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	if err := a.slots.DeleteSlot(r.Context(), slotID); err != nil {
		a.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
