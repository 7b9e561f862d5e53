package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// naiveLayout is accepted for timestamps without an offset; they are read as UTC.
const naiveLayout = "2006-01-02T15:04:05"

func parseTime(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(naiveLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("invalid %s: %q", field, value)
}

// parseOptionalTime returns nil for an empty value.
func parseOptionalTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTime(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, apperr.Validation("%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", field)
	}
	return id, nil
}

func pathID(r *http.Request, field string) (uuid.UUID, error) {
	return parseID(field, mux.Vars(r)["id"])
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}
