package repository

import (
	"context"

	"healthcare-portal/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindByEntityID(ctx context.Context, db *gorm.DB, entityID uuid.UUID) ([]entity.AuditLog, error)
}
