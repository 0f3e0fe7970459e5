package repository

import (
	"context"
	"errors"

	"healthcare-portal/internal/domain/entity"
	domainRepo "healthcare-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type providerScheduleRepository struct{}

func NewProviderScheduleRepository() domainRepo.ProviderScheduleRepository {
	return &providerScheduleRepository{}
}

func (r *providerScheduleRepository) FindByProviderID(ctx context.Context, db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error) {
	var schedule entity.ProviderSchedule
	err := db.WithContext(ctx).Where("provider_id = ?", providerID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *providerScheduleRepository) Upsert(ctx context.Context, db *gorm.DB, schedule *entity.ProviderSchedule) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"day_start", "day_end", "lunch_start", "lunch_end", "slot_length_minutes", "updated_at",
		}),
	}).Create(schedule).Error
}
