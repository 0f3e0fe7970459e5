package repository

import (
	"context"

	"healthcare-portal/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderFilter narrows the provider directory. Empty fields match all.
type ProviderFilter struct {
	Name      string
	Specialty string
}

type ProviderProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error)
	FindAllActive(ctx context.Context, db *gorm.DB, filter ProviderFilter) ([]entity.ProviderProfile, error)
}
