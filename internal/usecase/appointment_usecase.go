package usecase

import (
	"context"
	"time"

	"healthcare-portal/internal/converter"
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/internal/service"
	"healthcare-portal/pkg/apperror"
	"healthcare-portal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	upcomingLimit        = 10
	summaryUpcomingLimit = 5
	weekDays             = 7
)

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.DaySlotsResponse, error)
	GetWeekSlots(ctx context.Context, providerID uuid.UUID, startDate string) (*dto.WeekSlotsResponse, error)

	Book(ctx context.Context, actor scheduling.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)

	GetAppointment(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor scheduling.Actor, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
	Upcoming(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentListResponse, error)
	Summary(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentSummaryResponse, error)
	History(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AuditLogListResponse, error)
}

type appointmentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	userRepo            repository.UserRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditRepo           repository.AuditLogRepository
	auditService        service.AuditService
	locker              service.SlotLocker
	metrics             *metrics.Collector
	clock               scheduling.Clock
	loc                 *time.Location
	defaults            scheduling.BusinessWindow
	tracer              trace.Tracer
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditRepo repository.AuditLogRepository,
	auditService service.AuditService,
	locker service.SlotLocker,
	collector *metrics.Collector,
	clock scheduling.Clock,
	loc *time.Location,
	defaults scheduling.BusinessWindow,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		userRepo:            userRepo,
		providerProfileRepo: providerProfileRepo,
		auditRepo:           auditRepo,
		auditService:        auditService,
		locker:              locker,
		metrics:             collector,
		clock:               clock,
		loc:                 loc,
		defaults:            defaults,
		tracer:              otel.Tracer("healthcare-portal/usecase"),
	}
}

func (u *appointmentUsecase) now() time.Time {
	return u.clock.Now().In(u.loc)
}

// findProvider loads an active provider with its schedule.
func (u *appointmentUsecase) findProvider(ctx context.Context, providerID uuid.UUID) (*entity.ProviderProfile, error) {
	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile: %+v", err)
		return nil, err
	}
	if profile == nil || !profile.User.Active() {
		return nil, ErrProviderNotFound
	}
	return profile, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// ownerFilter scopes a listing to the appointments of the actor.
func ownerFilter(actor scheduling.Actor) (*entity.AppointmentFilter, error) {
	if !actor.Valid() {
		return nil, scheduling.ErrUnknownActor
	}
	id := actor.ID()
	if actor.IsProvider() {
		return &entity.AppointmentFilter{ProviderID: &id}, nil
	}
	return &entity.AppointmentFilter{PatientID: &id}, nil
}

func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.DaySlotsResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.GetAvailableSlots",
		trace.WithAttributes(attribute.String("provider.id", providerID.String()), attribute.String("date", date)))
	defer span.End()

	day, err := scheduling.ParseDate(date, u.loc)
	if err != nil {
		return nil, err
	}

	days, err := u.slotsFrom(ctx, providerID, day, 1)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &days[0], nil
}

// GetWeekSlots lists seven consecutive days starting at startDate. Weekend
// days are present with no slots.
func (u *appointmentUsecase) GetWeekSlots(ctx context.Context, providerID uuid.UUID, startDate string) (*dto.WeekSlotsResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.GetWeekSlots",
		trace.WithAttributes(attribute.String("provider.id", providerID.String()), attribute.String("start_date", startDate)))
	defer span.End()

	start, err := scheduling.ParseDate(startDate, u.loc)
	if err != nil {
		return nil, err
	}

	days, err := u.slotsFrom(ctx, providerID, start, weekDays)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &dto.WeekSlotsResponse{
		ProviderID: providerID,
		StartDate:  start.Format(scheduling.DateLayout),
		Days:       days,
	}, nil
}

// slotsFrom builds the slot lists of n days from start with one query for
// the booked times of the whole range.
func (u *appointmentUsecase) slotsFrom(ctx context.Context, providerID uuid.UUID, start time.Time, n int) ([]dto.DaySlotsResponse, error) {
	profile, err := u.findProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	w, _ := windowFor(u.defaults, profile)

	from := scheduling.StartOfDay(start)
	to := from.AddDate(0, 0, n)
	booked, err := u.appointmentRepo.FindScheduledTimes(ctx, u.db, providerID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load booked slots: %+v", err)
		return nil, err
	}
	bookedSet := scheduling.NewBookedSet(booked)

	now := u.now()
	days := make([]dto.DaySlotsResponse, 0, n)
	for i := 0; i < n; i++ {
		day := from.AddDate(0, 0, i)
		slots := scheduling.DaySlots(day, now, w, bookedSet)
		days = append(days, *converter.DaySlotsToResponse(providerID, day.Format(scheduling.DateLayout), slots))
	}

	u.metrics.SlotQueries.Inc()
	return days, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scheduling.AuthorizeView(actor, appointment.PatientID, appointment.ProviderID); err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments returns the actor's appointments ordered by time. The date
// range covers whole days: start_date from midnight, end_date through its end.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor scheduling.Actor, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	filter, err := ownerFilter(actor)
	if err != nil {
		return nil, err
	}

	if query != nil {
		if err := u.applyQuery(filter, query); err != nil {
			return nil, err
		}
	}

	appointments, err := u.appointmentRepo.List(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	responses := converter.AppointmentsToResponses(appointments)
	return &dto.AppointmentListResponse{Appointments: responses, Total: len(responses)}, nil
}

func (u *appointmentUsecase) applyQuery(filter *entity.AppointmentFilter, query *dto.AppointmentQuery) error {
	if query.StartDate != "" {
		start, err := scheduling.ParseDate(query.StartDate, u.loc)
		if err != nil {
			return err
		}
		filter.From = &start
	}
	if query.EndDate != "" {
		end, err := scheduling.ParseDate(query.EndDate, u.loc)
		if err != nil {
			return err
		}
		_, next := scheduling.DayBounds(end)
		filter.To = &next
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return ErrInvalidDateRange
	}
	if query.Status != "" {
		status, err := scheduling.ParseStatus(query.Status)
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	return nil
}

// Upcoming returns the next scheduled appointments of the actor.
func (u *appointmentUsecase) Upcoming(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentListResponse, error) {
	filter, err := ownerFilter(actor)
	if err != nil {
		return nil, err
	}

	now := u.now()
	status := scheduling.StatusScheduled
	filter.From = &now
	filter.Status = &status
	filter.Limit = upcomingLimit

	appointments, err := u.appointmentRepo.List(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list upcoming appointments: %+v", err)
		return nil, err
	}

	responses := converter.AppointmentsToResponses(appointments)
	return &dto.AppointmentListResponse{Appointments: responses, Total: len(responses)}, nil
}

// Summary collects status counts, the next few scheduled appointments and
// today's scheduled appointments in parallel.
func (u *appointmentUsecase) Summary(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentSummaryResponse, error) {
	base, err := ownerFilter(actor)
	if err != nil {
		return nil, err
	}

	now := u.now()
	status := scheduling.StatusScheduled
	dayStart, dayEnd := scheduling.DayBounds(now)

	upcomingFilter := *base
	upcomingFilter.From = &now
	upcomingFilter.Status = &status
	upcomingFilter.Limit = summaryUpcomingLimit

	todayFilter := *base
	todayFilter.From = &dayStart
	todayFilter.To = &dayEnd
	todayFilter.Status = &status

	var (
		counts   []entity.StatusCount
		upcoming []entity.Appointment
		today    []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = u.appointmentRepo.CountByStatus(gctx, u.db, base)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = u.appointmentRepo.List(gctx, u.db, &upcomingFilter)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = u.appointmentRepo.List(gctx, u.db, &todayFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build appointment summary: %+v", err)
		return nil, err
	}

	summary := &dto.AppointmentSummaryResponse{
		Upcoming: converter.AppointmentsToResponses(upcoming),
		Today:    converter.AppointmentsToResponses(today),
	}
	for _, c := range counts {
		summary.Total += c.Count
		switch c.Status {
		case scheduling.StatusScheduled:
			summary.Scheduled = c.Count
		case scheduling.StatusCompleted:
			summary.Completed = c.Count
		case scheduling.StatusCancelled:
			summary.Cancelled = c.Count
		case scheduling.StatusNoShow:
			summary.NoShow = c.Count
		}
	}
	return summary, nil
}

// History returns the audit trail of one appointment to its participants.
func (u *appointmentUsecase) History(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AuditLogListResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scheduling.AuthorizeView(actor, appointment.PatientID, appointment.ProviderID); err != nil {
		return nil, err
	}

	logs, err := u.auditRepo.FindByEntityID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to load appointment history: %+v", err)
		return nil, err
	}

	responses := converter.AuditLogsToResponses(logs)
	return &dto.AuditLogListResponse{Logs: responses, Total: len(responses)}, nil
}

// rejected counts a refused booking or reschedule by error kind.
func (u *appointmentUsecase) rejected(span trace.Span, err error) error {
	kind := apperror.KindOf(err)
	if kind != apperror.KindInternal {
		u.metrics.BookingRejections.WithLabelValues(string(kind)).Inc()
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))
	return err
}
