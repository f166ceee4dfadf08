package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the signed-in actor. PatientID is set only for the Patient role
// and scopes every portal view to that patient.
type Session struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	PatientID   string    `json:"patient_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// IsPatient reports whether the session acts for a single patient.
func (s Session) IsPatient() bool {
	return s.Role == RolePatient
}
