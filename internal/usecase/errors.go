package usecase

import (
	"errors"
	"strings"

	"healthcare-portal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	slotConstraint = "uq_appointments_provider_slot"

	// maxNoteLength matches the notes column, counted in characters.
	maxNoteLength = 500
)

var (
	ErrEmailAlreadyExists  = apperror.Conflict("email already exists")
	ErrInvalidCredentials  = apperror.Unauthenticated("invalid email or password")
	ErrInvalidToken        = apperror.Unauthenticated("invalid or expired token")
	ErrTokenRevoked        = apperror.Unauthenticated("token has been revoked")
	ErrAccountInactive     = apperror.Forbidden("account is inactive")
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrProviderNotFound    = apperror.NotFound("provider not found")
	ErrPatientNotFound     = apperror.NotFound("patient not found")
	ErrAppointmentNotFound = apperror.NotFound("appointment not found")
	ErrPatientRequired     = apperror.InvalidRequest("patient_id is required when a provider books an appointment")
	ErrNoteTooLong         = apperror.InvalidRequest("notes must be at most 500 characters")
	ErrInvalidFee          = apperror.InvalidRequest("consultation fee must not be negative")
	ErrInvalidDateRange    = apperror.InvalidRequest("end_date must not be before start_date")
	ErrInvalidSchedule     = apperror.InvalidRequest("invalid schedule")
	ErrConcurrentUpdate    = apperror.Conflict("appointment was changed by another request, reload and retry")
	ErrProvidersOnly       = apperror.Forbidden("only providers can access this resource")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
