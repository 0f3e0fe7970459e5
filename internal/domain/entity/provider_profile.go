package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderProfile holds the practice details of a provider account
type ProviderProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialty       string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	ClinicAddress   string          `gorm:"type:varchar(200);not null" json:"clinic_address"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User     User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedule *ProviderSchedule `gorm:"foreignKey:ProviderID" json:"schedule,omitempty"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
