package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Profiles are included when they are loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Role:        RoleName(user.RoleID),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	if user.ProviderProfile != nil {
		response.ProviderProfile = &dto.ProviderProfileResponse{
			Specialty:       user.ProviderProfile.Specialty,
			ClinicAddress:   user.ProviderProfile.ClinicAddress,
			ConsultationFee: user.ProviderProfile.ConsultationFee,
			Biography:       user.ProviderProfile.Biography,
		}
	}

	if user.PatientProfile != nil {
		response.PatientProfile = &dto.PatientProfileResponse{
			Age:     user.PatientProfile.Age,
			Gender:  user.PatientProfile.Gender,
			Address: user.PatientProfile.Address,
		}
	}

	return response
}

func RoleName(roleID int) string {
	switch roleID {
	case entity.RoleIDProvider:
		return entity.RoleProvider
	case entity.RoleIDPatient:
		return entity.RolePatient
	default:
		return ""
	}
}
