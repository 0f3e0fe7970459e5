package dto

import (
	"time"

	"github.com/google/uuid"
)

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	Available bool      `json:"available"`
}

type DaySlotsResponse struct {
	ProviderID     uuid.UUID      `json:"provider_id"`
	Date           string         `json:"date"` // Format: YYYY-MM-DD
	Slots          []SlotResponse `json:"slots"`
	AvailableCount int            `json:"available_count"`
}

type WeekSlotsResponse struct {
	ProviderID uuid.UUID          `json:"provider_id"`
	StartDate  string             `json:"start_date"`
	Days       []DaySlotsResponse `json:"days"`
}
