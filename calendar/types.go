package calendar

import (
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

type Calendar struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Calendar) Validate() error {
	if c.UserID == uuid.Nil {
		return apperr.Validation("user ID is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("name is required")
	}
	return nil
}
