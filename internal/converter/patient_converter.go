package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
)

func PatientToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          profile.UserID,
		FullName:    profile.User.FullName,
		Email:       profile.User.Email,
		PhoneNumber: profile.User.PhoneNumber,
		Age:         profile.Age,
		Gender:      profile.Gender,
		Address:     profile.Address,
	}
}

func PatientsToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PatientToResponse(&profiles[i])
	}
	return responses
}
