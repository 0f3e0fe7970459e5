package usecase

import (
	"context"
	"time"

	"healthcare-portal/config"
	"healthcare-portal/internal/converter"
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/internal/service"
	"healthcare-portal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewClinicWindow builds the clinic-wide business window from config.
func NewClinicWindow(cfg config.ScheduleConfig) (scheduling.BusinessWindow, error) {
	return scheduling.NewWindow(cfg.DayStart, cfg.DayEnd, cfg.LunchStart, cfg.LunchEnd, cfg.SlotLength, cfg.LeadTime)
}

// windowFor returns the provider's own window when one is stored, otherwise
// the clinic default. Lead time always comes from the clinic default.
func windowFor(defaults scheduling.BusinessWindow, profile *entity.ProviderProfile) (scheduling.BusinessWindow, bool) {
	if profile == nil || profile.Schedule == nil {
		return defaults, false
	}
	s := profile.Schedule
	w, err := scheduling.NewWindow(s.DayStart, s.DayEnd, s.LunchStart, s.LunchEnd, s.SlotLength(), defaults.LeadTime)
	if err != nil {
		// Stored rows passed validation on write; fall back rather than lock the calendar.
		return defaults, false
	}
	return w, true
}

type ScheduleUsecase interface {
	GetSchedule(ctx context.Context, providerID uuid.UUID) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, actor scheduling.Actor, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
}

type scheduleUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	providerProfileRepo repository.ProviderProfileRepository
	scheduleRepo        repository.ProviderScheduleRepository
	auditService        service.AuditService
	defaults            scheduling.BusinessWindow
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerProfileRepo repository.ProviderProfileRepository,
	scheduleRepo repository.ProviderScheduleRepository,
	auditService service.AuditService,
	defaults scheduling.BusinessWindow,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:                  db,
		log:                 log,
		providerProfileRepo: providerProfileRepo,
		scheduleRepo:        scheduleRepo,
		auditService:        auditService,
		defaults:            defaults,
	}
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, providerID uuid.UUID) (*dto.ScheduleResponse, error) {
	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderNotFound
	}

	w, custom := windowFor(u.defaults, profile)
	return converter.WindowToScheduleResponse(providerID, w, custom), nil
}

// UpdateSchedule replaces the calling provider's business window.
// Existing appointments are left untouched even when they fall outside it.
func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, actor scheduling.Actor, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	if !actor.IsProvider() {
		return nil, ErrProvidersOnly
	}

	slotLength := time.Duration(req.SlotLengthMinutes) * time.Minute
	w, err := scheduling.NewWindow(req.DayStart, req.DayEnd, req.LunchStart, req.LunchEnd, slotLength, u.defaults.LeadTime)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidRequest, err.Error(), ErrInvalidSchedule)
	}

	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, actor.ID())
	if err != nil {
		u.log.Warnf("Failed to find provider profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderNotFound
	}

	oldWindow, _ := windowFor(u.defaults, profile)
	schedule := &entity.ProviderSchedule{
		ProviderID:        actor.ID(),
		DayStart:          scheduling.FormatClock(w.Start),
		DayEnd:            scheduling.FormatClock(w.End),
		SlotLengthMinutes: req.SlotLengthMinutes,
	}
	if w.HasLunch() {
		schedule.LunchStart = scheduling.FormatClock(w.LunchStart)
		schedule.LunchEnd = scheduling.FormatClock(w.LunchEnd)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.scheduleRepo.Upsert(ctx, tx, schedule); err != nil {
		u.log.Warnf("Failed to save provider schedule: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.ID(), entity.AuditActionScheduleUpdate, actor.ID(),
		converter.WindowToScheduleResponse(actor.ID(), oldWindow, profile.Schedule != nil), schedule,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.WindowToScheduleResponse(actor.ID(), w, true), nil
}
