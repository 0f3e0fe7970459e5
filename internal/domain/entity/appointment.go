package entity

import (
	"time"

	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
)

// Appointment is one booked slot between a patient and a provider.
// At most one scheduled appointment may exist per (provider, scheduled_at).
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"provider_id"`
	ScheduledAt time.Time         `gorm:"type:timestamptz;not null;index" json:"scheduled_at"`
	Notes       *string           `gorm:"type:varchar(500)" json:"notes,omitempty"`
	Status      scheduling.Status `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Provider User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == scheduling.StatusScheduled
}

// StatusCount is one row of a GROUP BY status query.
type StatusCount struct {
	Status scheduling.Status
	Count  int64
}
