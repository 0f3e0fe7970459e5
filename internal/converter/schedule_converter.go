package converter

import (
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
)

func WindowToScheduleResponse(providerID uuid.UUID, w scheduling.BusinessWindow, custom bool) *dto.ScheduleResponse {
	response := &dto.ScheduleResponse{
		ProviderID:        providerID,
		DayStart:          scheduling.FormatClock(w.Start),
		DayEnd:            scheduling.FormatClock(w.End),
		SlotLengthMinutes: int(w.SlotLength.Minutes()),
		LeadTimeMinutes:   int(w.LeadTime.Minutes()),
		Custom:            custom,
	}
	if w.HasLunch() {
		response.LunchStart = scheduling.FormatClock(w.LunchStart)
		response.LunchEnd = scheduling.FormatClock(w.LunchEnd)
	}
	return response
}
