package service

import (
	"context"

	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, newValue any) error
	LogUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, oldValue, newValue any) error
	LogEvent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate records a newly created record
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, newValue any) error {
	return s.write(ctx, tx, userID, action, &entityID, entity.JSON{
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate records a change with the values before and after it
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, oldValue, newValue any) error {
	return s.write(ctx, tx, userID, action, &entityID, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogEvent records an action that touches no particular record, like a login.
func (s *auditService) LogEvent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) error {
	return s.write(ctx, tx, userID, action, nil, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID *uuid.UUID, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   &userID,
		Action:   action,
		EntityID: entityID,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
