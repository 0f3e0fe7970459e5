package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
)

func DaySlotsToResponse(providerID uuid.UUID, date string, slots []scheduling.Slot) *dto.DaySlotsResponse {
	response := &dto.DaySlotsResponse{
		ProviderID: providerID,
		Date:       date,
		Slots:      make([]dto.SlotResponse, len(slots)),
	}
	for i, slot := range slots {
		response.Slots[i] = dto.SlotResponse{StartTime: slot.Start, Available: slot.Available}
		if slot.Available {
			response.AvailableCount++
		}
	}
	return response
}
