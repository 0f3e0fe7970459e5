package entity

import (
	"time"

	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for listing appointments.
// Exactly one of PatientID or ProviderID scopes the list to its owner.
type AppointmentFilter struct {
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	From       *time.Time // inclusive
	To         *time.Time // exclusive
	Status     *scheduling.Status
	Limit      int
}
