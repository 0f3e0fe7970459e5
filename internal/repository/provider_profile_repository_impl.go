package repository

import (
	"context"
	"errors"

	"healthcare-portal/internal/domain/entity"
	domainRepo "healthcare-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerProfileRepository struct{}

func NewProviderProfileRepository() domainRepo.ProviderProfileRepository {
	return &providerProfileRepository{}
}

func (r *providerProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return db.WithContext(ctx).Omit("User", "Schedule").Create(profile).Error
}

func (r *providerProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	var profile entity.ProviderProfile
	err := db.WithContext(ctx).
		Preload("User").Preload("Schedule").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAllActive lists providers whose user account is active.
// Name and specialty match case-insensitively as substrings.
func (r *providerProfileRepository) FindAllActive(ctx context.Context, db *gorm.DB, filter domainRepo.ProviderFilter) ([]entity.ProviderProfile, error) {
	var profiles []entity.ProviderProfile
	query := db.WithContext(ctx).
		Joins("JOIN users ON users.id = provider_profiles.user_id").
		Where("users.is_active = ?", true)

	if filter.Name != "" {
		query = query.Where("users.full_name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Specialty != "" {
		query = query.Where("provider_profiles.specialty ILIKE ?", "%"+filter.Specialty+"%")
	}

	err := query.Preload("User").Order("users.full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
