package usecase

import (
	"context"

	"healthcare-portal/internal/converter"
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProviderUsecase interface {
	ListProviders(ctx context.Context, filter repository.ProviderFilter) (*dto.ProviderListResponse, error)
	GetProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderResponse, error)
}

type providerUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	providerProfileRepo repository.ProviderProfileRepository
}

func NewProviderUsecase(db *gorm.DB, log *logrus.Logger, providerProfileRepo repository.ProviderProfileRepository) ProviderUsecase {
	return &providerUsecase{
		db:                  db,
		log:                 log,
		providerProfileRepo: providerProfileRepo,
	}
}

func (u *providerUsecase) ListProviders(ctx context.Context, filter repository.ProviderFilter) (*dto.ProviderListResponse, error) {
	profiles, err := u.providerProfileRepo.FindAllActive(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list providers: %+v", err)
		return nil, err
	}

	providers := converter.ProvidersToResponses(profiles)
	return &dto.ProviderListResponse{Providers: providers, Total: len(providers)}, nil
}

func (u *providerUsecase) GetProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderResponse, error) {
	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile: %+v", err)
		return nil, err
	}
	if profile == nil || !profile.User.Active() {
		return nil, ErrProviderNotFound
	}

	return converter.ProviderToResponse(profile), nil
}

type PatientUsecase interface {
	ListPatients(ctx context.Context, actor scheduling.Actor) (*dto.PatientListResponse, error)
}

type patientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	patientProfileRepo repository.PatientProfileRepository
}

func NewPatientUsecase(db *gorm.DB, log *logrus.Logger, patientProfileRepo repository.PatientProfileRepository) PatientUsecase {
	return &patientUsecase{
		db:                 db,
		log:                log,
		patientProfileRepo: patientProfileRepo,
	}
}

// ListPatients lets providers pick a patient when booking on their behalf.
func (u *patientUsecase) ListPatients(ctx context.Context, actor scheduling.Actor) (*dto.PatientListResponse, error) {
	if !actor.IsProvider() {
		return nil, ErrProvidersOnly
	}

	profiles, err := u.patientProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	patients := converter.PatientsToResponses(profiles)
	return &dto.PatientListResponse{Patients: patients, Total: len(patients)}, nil
}
