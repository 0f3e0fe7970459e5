package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a slot. Patients may omit patient_id;
// providers booking on behalf of a patient must set it.
type CreateAppointmentRequest struct {
	PatientID       *uuid.UUID `json:"patient_id" validate:"omitempty"`
	ProviderID      uuid.UUID  `json:"provider_id" validate:"required"`
	AppointmentTime string     `json:"appointment_time" validate:"required"` // RFC3339 or 2006-01-02T15:04:05 in clinic time
	Notes           *string    `json:"notes" validate:"omitempty,max=500"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RescheduleAppointmentRequest struct {
	AppointmentTime string `json:"appointment_time" validate:"required"`
}

// AppointmentQuery carries the optional list filters from the query string.
type AppointmentQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	Status    string
}

// Response DTOs

type AppointmentResponse struct {
	ID                uuid.UUID `json:"id"`
	PatientID         uuid.UUID `json:"patient_id"`
	PatientName       string    `json:"patient_name,omitempty"`
	PatientEmail      string    `json:"patient_email,omitempty"`
	PatientPhone      string    `json:"patient_phone,omitempty"`
	ProviderID        uuid.UUID `json:"provider_id"`
	ProviderName      string    `json:"provider_name,omitempty"`
	ProviderSpecialty string    `json:"provider_specialty,omitempty"`
	ProviderPhone     string    `json:"provider_phone,omitempty"`
	ClinicAddress     string    `json:"clinic_address,omitempty"`
	AppointmentTime   time.Time `json:"appointment_time"`
	Notes             *string   `json:"notes,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AppointmentSummaryResponse struct {
	Total     int64                 `json:"total"`
	Scheduled int64                 `json:"scheduled"`
	Completed int64                 `json:"completed"`
	Cancelled int64                 `json:"cancelled"`
	NoShow    int64                 `json:"no_show"`
	Upcoming  []AppointmentResponse `json:"upcoming"`
	Today     []AppointmentResponse `json:"today"`
}
