package repository

import (
	"context"

	"healthcare-portal/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderScheduleRepository interface {
	FindByProviderID(ctx context.Context, db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error)
	Upsert(ctx context.Context, db *gorm.DB, schedule *entity.ProviderSchedule) error
}
