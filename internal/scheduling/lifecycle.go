package scheduling

import (
	"fmt"
	"strings"
	"time"

	"healthcare-portal/pkg/apperror"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// transitions is the only source of allowed status changes.
// A no-show may still be completed when the patient arrives late.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: nil,
	StatusCancelled: nil,
	StatusNoShow:    {StatusCompleted},
}

var (
	ErrInvalidStatus       = apperror.InvalidRequest("unknown appointment status")
	ErrInvalidTransition   = apperror.InvalidRequest("invalid status transition")
	ErrNotAssignedProvider = apperror.Forbidden("only the assigned provider can update appointment status")
	ErrNotParticipant      = apperror.Forbidden("you can only access your own appointments")
	ErrBookForOthers       = apperror.Forbidden("you can only book appointments for yourself")
	ErrNotCancellable      = apperror.InvalidRequest("only scheduled appointments can be cancelled")
	ErrPastAppointment     = apperror.InvalidRequest("cannot change past appointments")
	ErrNotReschedulable    = apperror.InvalidRequest("only scheduled appointments can be rescheduled")
	ErrUnknownActor        = apperror.Unauthenticated("caller identity is missing")
)

func AllStatuses() []Status {
	return []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}
}

// ParseStatus accepts the stored form ("no_show") as well as the
// PascalCase form ("NoShow"), case-insensitively.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if normalized == "noshow" {
		normalized = string(StatusNoShow)
	}
	status := Status(normalized)
	if !status.Valid() {
		return "", apperror.Wrap(apperror.KindInvalidRequest, fmt.Sprintf("unknown appointment status %q", s), ErrInvalidStatus)
	}
	return status, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates moving an appointment from one status to another.
func Transition(from, to Status) error {
	if !to.Valid() {
		return apperror.Wrap(apperror.KindInvalidRequest, fmt.Sprintf("unknown appointment status %q", to), ErrInvalidStatus)
	}
	if !CanTransition(from, to) {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("invalid status transition from %s to %s", from, to),
			ErrInvalidTransition)
	}
	return nil
}

// AuthorizeStatusChange lets only the assigned provider drive status changes,
// then validates the transition itself. Cancelling through a status change
// obeys the same future-only rule as AuthorizeCancel.
func AuthorizeStatusChange(actor Actor, providerID uuid.UUID, from, to Status, at, now time.Time) error {
	if !actor.Valid() {
		return ErrUnknownActor
	}
	if !actor.IsProvider() || actor.ID() != providerID {
		return ErrNotAssignedProvider
	}
	if err := Transition(from, to); err != nil {
		return err
	}
	if to == StatusCancelled && !at.After(now) {
		return apperror.Wrap(apperror.KindInvalidRequest, "cannot cancel past appointments", ErrPastAppointment)
	}
	return nil
}

// AuthorizeCancel lets the patient or the provider of an appointment cancel
// it while it is scheduled and still in the future.
func AuthorizeCancel(actor Actor, patientID, providerID uuid.UUID, status Status, at, now time.Time) error {
	if !actor.Valid() {
		return ErrUnknownActor
	}
	if !actor.Participates(patientID, providerID) {
		return apperror.Wrap(apperror.KindForbidden, "you can only cancel your own appointments", ErrNotParticipant)
	}
	if status != StatusScheduled {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("cannot cancel %s appointments", status),
			ErrNotCancellable)
	}
	if !at.After(now) {
		return apperror.Wrap(apperror.KindInvalidRequest, "cannot cancel past appointments", ErrPastAppointment)
	}
	return Transition(status, StatusCancelled)
}

// AuthorizeReschedule follows the cancellation rules: a participant may move
// a scheduled appointment that has not started yet.
func AuthorizeReschedule(actor Actor, patientID, providerID uuid.UUID, status Status, at, now time.Time) error {
	if !actor.Valid() {
		return ErrUnknownActor
	}
	if !actor.Participates(patientID, providerID) {
		return apperror.Wrap(apperror.KindForbidden, "you can only reschedule your own appointments", ErrNotParticipant)
	}
	if status != StatusScheduled {
		return ErrNotReschedulable
	}
	if !at.After(now) {
		return apperror.Wrap(apperror.KindInvalidRequest, "cannot reschedule past appointments", ErrPastAppointment)
	}
	return nil
}

// AuthorizeBooking checks who may create an appointment. A patient books only
// for themselves. A provider books on behalf of any patient, but only into
// their own calendar.
func AuthorizeBooking(actor Actor, patientID, providerID uuid.UUID) error {
	if !actor.Valid() {
		return ErrUnknownActor
	}
	if actor.IsPatient() && actor.ID() != patientID {
		return ErrBookForOthers
	}
	if actor.IsProvider() && actor.ID() != providerID {
		return apperror.Wrap(apperror.KindForbidden, "providers can only book into their own calendar", ErrBookForOthers)
	}
	return nil
}

// AuthorizeView lets participants read an appointment.
func AuthorizeView(actor Actor, patientID, providerID uuid.UUID) error {
	if !actor.Valid() {
		return ErrUnknownActor
	}
	if !actor.Participates(patientID, providerID) {
		return ErrNotParticipant
	}
	return nil
}
