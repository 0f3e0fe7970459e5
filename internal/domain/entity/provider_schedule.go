package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderSchedule overrides the clinic business window for one provider.
// Clock columns use "15:04". Empty lunch columns mean no lunch break.
type ProviderSchedule struct {
	ProviderID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"provider_id"`
	DayStart          string    `gorm:"type:varchar(5);not null" json:"day_start"`
	DayEnd            string    `gorm:"type:varchar(5);not null" json:"day_end"`
	LunchStart        string    `gorm:"type:varchar(5)" json:"lunch_start,omitempty"`
	LunchEnd          string    `gorm:"type:varchar(5)" json:"lunch_end,omitempty"`
	SlotLengthMinutes int       `gorm:"not null" json:"slot_length_minutes"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProviderSchedule) TableName() string {
	return "provider_schedules"
}

func (s *ProviderSchedule) SlotLength() time.Duration {
	return time.Duration(s.SlotLengthMinutes) * time.Minute
}
