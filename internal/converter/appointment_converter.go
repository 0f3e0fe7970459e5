package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Participant details are filled only when the relations are loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		ProviderID:      appointment.ProviderID,
		AppointmentTime: appointment.ScheduledAt,
		Notes:           appointment.Notes,
		Status:          appointment.Status.String(),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Patient.ID == appointment.PatientID {
		response.PatientName = appointment.Patient.FullName
		response.PatientEmail = appointment.Patient.Email
		response.PatientPhone = appointment.Patient.PhoneNumber
	}

	if appointment.Provider.ID == appointment.ProviderID {
		response.ProviderName = appointment.Provider.FullName
		response.ProviderPhone = appointment.Provider.PhoneNumber
		if profile := appointment.Provider.ProviderProfile; profile != nil {
			response.ProviderSpecialty = profile.Specialty
			response.ClinicAddress = profile.ClinicAddress
		}
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
