package usecase

import (
	"context"
	"unicode/utf8"

	"healthcare-portal/internal/converter"
	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Book creates a scheduled appointment.
//
// Step 1: resolve who the appointment is for and check the actor may book it.
// Step 2: load the provider and apply the calendar rules of their window.
// Step 3: check the patient exists.
// Step 4: under the provider day lock, re-check the slot and the same-day
// rule against stored bookings and insert. The unique index on scheduled
// slots rejects a concurrent insert that slipped past the checks.
func (u *appointmentUsecase) Book(ctx context.Context, actor scheduling.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.Book",
		trace.WithAttributes(attribute.String("provider.id", req.ProviderID.String())))
	defer span.End()

	if !actor.Valid() {
		return nil, scheduling.ErrUnknownActor
	}

	// Step 1
	patientID := actor.ID()
	if req.PatientID != nil {
		patientID = *req.PatientID
	} else if actor.IsProvider() {
		return nil, u.rejected(span, ErrPatientRequired)
	}
	if err := scheduling.AuthorizeBooking(actor, patientID, req.ProviderID); err != nil {
		return nil, u.rejected(span, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > maxNoteLength {
		return nil, u.rejected(span, ErrNoteTooLong)
	}

	at, err := scheduling.ParseTimestamp(req.AppointmentTime, u.loc)
	if err != nil {
		return nil, u.rejected(span, err)
	}

	// Step 2
	profile, err := u.findProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	w, _ := windowFor(u.defaults, profile)
	if err := scheduling.CheckSlot(w, at, u.now()); err != nil {
		return nil, u.rejected(span, err)
	}

	// Step 3
	patient, err := u.userRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() || !patient.Active() {
		return nil, ErrPatientNotFound
	}

	// Step 4
	appointment := &entity.Appointment{
		PatientID:   patientID,
		ProviderID:  req.ProviderID,
		ScheduledAt: at,
		Notes:       req.Notes,
		Status:      scheduling.StatusScheduled,
	}

	err = u.locker.WithProviderDayLock(ctx, req.ProviderID, at, func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		if err := u.checkBookable(ctx, tx, appointment, nil); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			if isDuplicateKeyError(err, slotConstraint) {
				return scheduling.ErrSlotTaken
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		if err := u.auditService.LogCreate(ctx, tx, actor.ID(), entity.AuditActionAppointmentBook, appointment.ID,
			converter.AppointmentToResponse(appointment),
		); err != nil {
			return err
		}

		if err := tx.Commit().Error; err != nil {
			if isDuplicateKeyError(err, slotConstraint) {
				return scheduling.ErrSlotTaken
			}
			u.log.Warnf("Failed commit transaction: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, u.rejected(span, err)
	}

	u.metrics.AppointmentsBooked.Inc()
	span.SetAttributes(attribute.String("appointment.id", appointment.ID.String()))

	appointment.Patient = *patient
	appointment.Provider = profile.User
	appointment.Provider.ProviderProfile = profile
	return converter.AppointmentToResponse(appointment), nil
}

// checkBookable runs the stored-state checks for placing appointment at its
// ScheduledAt: the slot must be free and the patient must hold no other
// scheduled appointment with the provider that day. excludeID skips the
// appointment being moved.
func (u *appointmentUsecase) checkBookable(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, excludeID *uuid.UUID) error {
	taken, err := u.appointmentRepo.ExistsScheduledAt(ctx, tx, appointment.ProviderID, appointment.ScheduledAt, excludeID)
	if err != nil {
		u.log.Warnf("Failed to check slot availability: %+v", err)
		return err
	}
	if taken {
		return scheduling.ErrSlotTaken
	}

	from, to := scheduling.DayBounds(appointment.ScheduledAt)
	conflict, err := u.appointmentRepo.ExistsSameDay(ctx, tx, appointment.PatientID, appointment.ProviderID, from, to, excludeID)
	if err != nil {
		u.log.Warnf("Failed to check same day conflict: %+v", err)
		return err
	}
	if conflict {
		return scheduling.ErrSameDayConflict
	}
	return nil
}

// UpdateStatus moves an appointment along the lifecycle. Only the assigned
// provider may do so and the stored status must not have changed since it
// was read.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.UpdateStatus",
		trace.WithAttributes(attribute.String("appointment.id", id.String())))
	defer span.End()

	target, err := scheduling.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := scheduling.AuthorizeStatusChange(actor, appointment.ProviderID,
		appointment.Status, target, appointment.ScheduledAt, u.now(),
	); err != nil {
		span.RecordError(err)
		return nil, err
	}

	action := entity.AuditActionAppointmentStatus
	if target == scheduling.StatusCancelled {
		action = entity.AuditActionAppointmentCancel
	}
	if err := u.transition(ctx, actor, appointment, target, action); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Cancel lets either participant cancel a scheduled appointment that has not
// started yet.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.Cancel",
		trace.WithAttributes(attribute.String("appointment.id", id.String())))
	defer span.End()

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := scheduling.AuthorizeCancel(actor, appointment.PatientID, appointment.ProviderID,
		appointment.Status, appointment.ScheduledAt, u.now(),
	); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := u.transition(ctx, actor, appointment, scheduling.StatusCancelled, entity.AuditActionAppointmentCancel); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// transition persists an already authorized status change and records it.
func (u *appointmentUsecase) transition(ctx context.Context, actor scheduling.Actor, appointment *entity.Appointment, target scheduling.Status, action string) error {
	from := appointment.Status

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.appointmentRepo.UpdateStatus(ctx, tx, appointment.ID, from, target)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.ID(), action, appointment.ID,
		map[string]any{"status": from},
		map[string]any{"status": target},
	); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	appointment.Status = target
	appointment.UpdatedAt = u.now()
	u.metrics.AppointmentTransitions.WithLabelValues(target.String()).Inc()
	return nil
}

// Reschedule moves a scheduled appointment to a new slot. It follows the
// cancellation rules for who may move it and the booking rules for where it
// may go.
func (u *appointmentUsecase) Reschedule(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	ctx, span := u.tracer.Start(ctx, "AppointmentUsecase.Reschedule",
		trace.WithAttributes(attribute.String("appointment.id", id.String())))
	defer span.End()

	at, err := scheduling.ParseTimestamp(req.AppointmentTime, u.loc)
	if err != nil {
		return nil, u.rejected(span, err)
	}

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if err := scheduling.AuthorizeReschedule(actor, appointment.PatientID, appointment.ProviderID,
		appointment.Status, appointment.ScheduledAt, now,
	); err != nil {
		return nil, u.rejected(span, err)
	}

	if at.Equal(appointment.ScheduledAt) {
		return converter.AppointmentToResponse(appointment), nil
	}

	profile, err := u.findProvider(ctx, appointment.ProviderID)
	if err != nil {
		return nil, err
	}
	w, _ := windowFor(u.defaults, profile)
	if err := scheduling.CheckSlot(w, at, now); err != nil {
		return nil, u.rejected(span, err)
	}

	oldTime := appointment.ScheduledAt
	moved := *appointment
	moved.ScheduledAt = at

	err = u.locker.WithProviderDayLock(ctx, appointment.ProviderID, at, func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		if err := u.checkBookable(ctx, tx, &moved, &appointment.ID); err != nil {
			return err
		}

		rows, err := u.appointmentRepo.Reschedule(ctx, tx, appointment.ID, at)
		if err != nil {
			if isDuplicateKeyError(err, slotConstraint) {
				return scheduling.ErrSlotTaken
			}
			u.log.Warnf("Failed to reschedule appointment: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrConcurrentUpdate
		}

		if err := u.auditService.LogUpdate(ctx, tx, actor.ID(), entity.AuditActionAppointmentReschedule, appointment.ID,
			map[string]any{"appointment_time": oldTime},
			map[string]any{"appointment_time": at},
		); err != nil {
			return err
		}

		if err := tx.Commit().Error; err != nil {
			u.log.Warnf("Failed commit transaction: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, u.rejected(span, err)
	}

	moved.UpdatedAt = now
	return converter.AppointmentToResponse(&moved), nil
}
