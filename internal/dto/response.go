package dto

import (
	"time"

	"github.com/Eursukkul/registration-service/internal/models"
)

type RegistrationResponse struct {
	ID        string                    `json:"id"`
	EventID   string                    `json:"event_id"`
	UserID    string                    `json:"user_id"`
	CheckIn   *time.Time                `json:"check_in,omitempty"`
	Status    models.RegistrationStatus `json:"status"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	DeletedAt *time.Time                `json:"deleted_at,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		UserID:    r.UserID,
		CheckIn:   r.CheckIn,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DeletedAt: r.DeletedAt,
	}
}

func ToRegistrationResponses(regs []models.Registration) []RegistrationResponse {
	resp := make([]RegistrationResponse, len(regs))
	for i := range regs {
		resp[i] = ToRegistrationResponse(&regs[i])
	}
	return resp
}
