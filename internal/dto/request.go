package dto

import (
	"time"

	"github.com/Eursukkul/registration-service/internal/models"
)

type CreateRegistrationRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// UpdateRegistrationRequest replaces status and check-in as a pair. An absent
// check_in clears the stored value.
type UpdateRegistrationRequest struct {
	Status  models.RegistrationStatus `json:"status"`
	CheckIn *time.Time                `json:"check_in"`
}
