package repository

import (
	"context"
	"time"

	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	List(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	CountByStatus(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.StatusCount, error)

	// FindScheduledTimes returns start times of scheduled appointments in [from, to).
	FindScheduledTimes(ctx context.Context, db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]time.Time, error)
	ExistsScheduledAt(ctx context.Context, db *gorm.DB, providerID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error)
	ExistsSameDay(ctx context.Context, db *gorm.DB, patientID, providerID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) (bool, error)

	// UpdateStatus only succeeds while the stored status still equals from.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to scheduling.Status) (int64, error)
	Reschedule(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
}
