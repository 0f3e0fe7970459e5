package repository

import (
	"context"
	"errors"
	"time"

	"healthcare-portal/internal/domain/entity"
	domainRepo "healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Patient", "Provider").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := withParticipants(db.WithContext(ctx)).Where("appointments.id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := applyFilter(withParticipants(db.WithContext(ctx)), filter).Order("scheduled_at ASC")
	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.StatusCount, error) {
	var counts []entity.StatusCount
	err := applyFilter(db.WithContext(ctx).Model(&entity.Appointment{}), filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *appointmentRepository) FindScheduledTimes(ctx context.Context, db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("provider_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			providerID, scheduling.StatusScheduled, from, to).
		Order("scheduled_at ASC").
		Pluck("scheduled_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) ExistsScheduledAt(ctx context.Context, db *gorm.DB, providerID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error) {
	query := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("provider_id = ? AND scheduled_at = ? AND status = ?", providerID, at, scheduling.StatusScheduled)
	return exists(excluding(query, excludeID))
}

func (r *appointmentRepository) ExistsSameDay(ctx context.Context, db *gorm.DB, patientID, providerID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) (bool, error) {
	query := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("patient_id = ? AND provider_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			patientID, providerID, scheduling.StatusScheduled, from, to)
	return exists(excluding(query, excludeID))
}

// UpdateStatus atomically moves an appointment from one status to another.
// Returns affected rows: 1 = success, 0 = status changed underneath us.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to scheduling.Status) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Reschedule(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, scheduling.StatusScheduled).
		Update("scheduled_at", at)
	return result.RowsAffected, result.Error
}

func withParticipants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patient").Preload("Patient.PatientProfile").
		Preload("Provider").Preload("Provider.ProviderProfile")
}

func applyFilter(query *gorm.DB, filter *entity.AppointmentFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.PatientID != nil {
		query = query.Where("appointments.patient_id = ?", *filter.PatientID)
	}
	if filter.ProviderID != nil {
		query = query.Where("appointments.provider_id = ?", *filter.ProviderID)
	}
	if filter.From != nil {
		query = query.Where("appointments.scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointments.scheduled_at < ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("appointments.status = ?", *filter.Status)
	}
	return query
}

func excluding(query *gorm.DB, id *uuid.UUID) *gorm.DB {
	if id == nil {
		return query
	}
	return query.Where("id <> ?", *id)
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
