package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProviderResponse struct {
	ID              uuid.UUID       `json:"id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	PhoneNumber     string          `json:"phone_number,omitempty"`
	Specialty       string          `json:"specialty"`
	ClinicAddress   string          `json:"clinic_address"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Biography       string          `json:"biography,omitempty"`
}

type ProviderListResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Total     int                `json:"total"`
}
