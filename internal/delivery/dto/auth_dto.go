package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Age         int    `json:"age" validate:"required,min=1,max=120"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Address     string `json:"address" validate:"omitempty,max=500"`
}

type RegisterProviderRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=6"`
	FullName        string          `json:"full_name" validate:"required,min=2,max=100"`
	PhoneNumber     string          `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Specialty       string          `json:"specialty" validate:"required,max=100"`
	ClinicAddress   string          `json:"clinic_address" validate:"required,max=200"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Biography       string          `json:"biography" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID              uuid.UUID                `json:"id"`
	Email           string                   `json:"email"`
	FullName        string                   `json:"full_name"`
	PhoneNumber     string                   `json:"phone_number,omitempty"`
	Role            string                   `json:"role"`
	ProviderProfile *ProviderProfileResponse `json:"provider_profile,omitempty"`
	PatientProfile  *PatientProfileResponse  `json:"patient_profile,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type ProviderProfileResponse struct {
	Specialty       string          `json:"specialty"`
	ClinicAddress   string          `json:"clinic_address"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Biography       string          `json:"biography,omitempty"`
}

type PatientProfileResponse struct {
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address,omitempty"`
}
