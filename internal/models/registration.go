package models

import "time"

type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "CONFIRMED"
	StatusCheckedIn RegistrationStatus = "CHECKED_IN"
	StatusCanceled  RegistrationStatus = "CANCELED"
	StatusDeleted   RegistrationStatus = "DELETED"
)

// Valid reports whether s is one of the known registration statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCanceled, StatusDeleted:
		return true
	}
	return false
}

// Registration is a user's registration to an event. Records are never
// physically removed; logical deletion sets Status to DELETED and DeletedAt.
type Registration struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EventID   string             `gorm:"column:events_id;not null;index" json:"event_id"`
	UserID    string             `gorm:"column:users_id;not null;index" json:"user_id"`
	CheckIn   *time.Time         `gorm:"column:check_in" json:"check_in,omitempty"`
	Status    RegistrationStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time         `json:"deleted_at,omitempty"`
}

// Active reports whether the registration is visible in active listings.
func (r *Registration) Active() bool {
	return r.DeletedAt == nil
}

// CheckedIn reports whether attendance has been recorded.
func (r *Registration) CheckedIn() bool {
	return r.CheckIn != nil
}
