package user

import (
	"strings"
	"time"

	"meeting-scheduler/apperr"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return apperr.Validation("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperr.Validation("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return apperr.Validation("email is invalid")
	}
	return nil
}
