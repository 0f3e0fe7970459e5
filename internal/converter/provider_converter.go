package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
)

func ProviderToResponse(profile *entity.ProviderProfile) *dto.ProviderResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProviderResponse{
		ID:              profile.UserID,
		FullName:        profile.User.FullName,
		Email:           profile.User.Email,
		PhoneNumber:     profile.User.PhoneNumber,
		Specialty:       profile.Specialty,
		ClinicAddress:   profile.ClinicAddress,
		ConsultationFee: profile.ConsultationFee,
		Biography:       profile.Biography,
	}
}

func ProvidersToResponses(profiles []entity.ProviderProfile) []dto.ProviderResponse {
	responses := make([]dto.ProviderResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProviderToResponse(&profiles[i])
	}
	return responses
}
