package dto

import "github.com/google/uuid"

// Request DTOs

type UpdateScheduleRequest struct {
	DayStart          string `json:"day_start" validate:"required,datetime=15:04"`
	DayEnd            string `json:"day_end" validate:"required,datetime=15:04"`
	LunchStart        string `json:"lunch_start" validate:"omitempty,datetime=15:04,required_with=LunchEnd"`
	LunchEnd          string `json:"lunch_end" validate:"omitempty,datetime=15:04,required_with=LunchStart"`
	SlotLengthMinutes int    `json:"slot_length_minutes" validate:"required,min=5,max=240"`
}

// Response DTOs

type ScheduleResponse struct {
	ProviderID        uuid.UUID `json:"provider_id"`
	DayStart          string    `json:"day_start"`
	DayEnd            string    `json:"day_end"`
	LunchStart        string    `json:"lunch_start,omitempty"`
	LunchEnd          string    `json:"lunch_end,omitempty"`
	SlotLengthMinutes int       `json:"slot_length_minutes"`
	LeadTimeMinutes   int       `json:"lead_time_minutes"`
	// Custom is false when the provider follows the clinic default.
	Custom bool `json:"custom"`
}
