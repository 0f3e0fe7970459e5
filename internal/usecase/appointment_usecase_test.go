package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/internal/service"
	"healthcare-portal/pkg/apperror"
	"healthcare-portal/pkg/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	// Friday 2026-10-16 10:00, the Monday after is 2026-10-19.
	testNow  = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	monday10 = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	monday14 = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
)

type appointmentFixture struct {
	uc           *appointmentUsecase
	sql          sqlmock.Sqlmock
	appointments *MockAppointmentRepository
	users        *MockUserRepository
	providers    *MockProviderProfileRepository
	auditLogs    *MockAuditLogRepository
	audit        *MockAuditService
	collector    *metrics.Collector

	providerID uuid.UUID
	patientID  uuid.UUID
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	db, sqlMock := newMockDB(t)
	f := &appointmentFixture{
		sql:          sqlMock,
		appointments: &MockAppointmentRepository{},
		users:        &MockUserRepository{},
		providers:    &MockProviderProfileRepository{},
		auditLogs:    &MockAuditLogRepository{},
		audit:        &MockAuditService{},
		collector:    metrics.NewCollector("test"),
		providerID:   uuid.New(),
		patientID:    uuid.New(),
	}

	uc := NewAppointmentUsecase(db, newTestLogger(),
		f.appointments, f.users, f.providers, f.auditLogs, f.audit,
		service.NewNoopSlotLocker(), f.collector,
		scheduling.FixedClock{At: testNow}, time.UTC, scheduling.DefaultWindow(),
	)
	f.uc = uc.(*appointmentUsecase)

	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		f.appointments.AssertExpectations(t)
		f.audit.AssertExpectations(t)
	})
	return f
}

func (f *appointmentFixture) providerProfile() *entity.ProviderProfile {
	return &entity.ProviderProfile{
		UserID:        f.providerID,
		Specialty:     "Cardiology",
		ClinicAddress: "Jl. Sudirman 1",
		User:          entity.User{ID: f.providerID, RoleID: entity.RoleIDProvider, FullName: "Dr. Sari"},
	}
}

func (f *appointmentFixture) expectProvider() {
	f.providers.On("FindByUserID", mock.Anything, mock.Anything, f.providerID).Return(f.providerProfile(), nil)
}

func (f *appointmentFixture) expectPatient() {
	f.users.On("FindByID", mock.Anything, mock.Anything, f.patientID).
		Return(&entity.User{ID: f.patientID, RoleID: entity.RoleIDPatient, FullName: "Budi"}, nil)
}

func (f *appointmentFixture) appointment(at time.Time, status scheduling.Status) *entity.Appointment {
	return &entity.Appointment{
		ID:          uuid.New(),
		PatientID:   f.patientID,
		ProviderID:  f.providerID,
		ScheduledAt: at,
		Status:      status,
	}
}

func sameTime(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func noExclude() *uuid.UUID { return nil }

func bookRequest(providerID uuid.UUID, at string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{ProviderID: providerID, AppointmentTime: at}
}

func TestBook_Success(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()
	id := uuid.New()

	f.sql.ExpectBegin()
	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday10), noExclude()).Return(false, nil)
	f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, f.patientID, f.providerID,
		sameTime(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)), sameTime(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)), noExclude(),
	).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Run(func(args mock.Arguments) { args.Get(2).(*entity.Appointment).ID = id }).
		Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, f.patientID, entity.AuditActionAppointmentBook, id, mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	notes := "chest pain"
	req := bookRequest(f.providerID, "2026-10-19T10:00:00")
	req.Notes = &notes

	resp, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), req)
	require.NoError(t, err)

	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.True(t, resp.AppointmentTime.Equal(monday10))
	assert.Equal(t, "Dr. Sari", resp.ProviderName)
	assert.Equal(t, "Cardiology", resp.ProviderSpecialty)
	assert.Equal(t, "Budi", resp.PatientName)
	assert.Equal(t, &notes, resp.Notes)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.AppointmentsBooked))
}

func TestBook_SameDaySecondBookingConflicts(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()

	// 10:00 is already held by this patient, 14:00 itself is free.
	f.sql.ExpectBegin()
	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday14), noExclude()).Return(false, nil)
	f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, f.patientID, f.providerID, mock.Anything, mock.Anything, noExclude()).Return(true, nil)
	f.sql.ExpectRollback()

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T14:00:00"))

	assert.ErrorIs(t, err, scheduling.ErrSameDayConflict)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.BookingRejections.WithLabelValues("conflict")))
}

func TestBook_SlotAlreadyTaken(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()

	f.sql.ExpectBegin()
	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday10), noExclude()).Return(true, nil)
	f.sql.ExpectRollback()

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))

	assert.ErrorIs(t, err, scheduling.ErrSlotTaken)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestBook_DuplicateInsertBecomesConflict(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()
	other := uuid.New()
	f.users.On("FindByID", mock.Anything, mock.Anything, other).
		Return(&entity.User{ID: other, RoleID: entity.RoleIDPatient}, nil)

	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday10), noExclude()).Return(false, nil)
	f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, mock.Anything, f.providerID, mock.Anything, mock.Anything, noExclude()).Return(false, nil)

	// Both requests passed the checks; the second insert hits the unique index.
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).Return(nil).Once()
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: slotConstraint}).Once()
	f.audit.On("LogCreate", mock.Anything, mock.Anything, f.patientID, entity.AuditActionAppointmentBook, mock.Anything, mock.Anything).Return(nil)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	first, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))
	require.NoError(t, err)
	assert.Equal(t, "scheduled", first.Status)

	_, err = f.uc.Book(context.Background(), scheduling.PatientActor(other), bookRequest(f.providerID, "2026-10-19T10:00:00"))
	assert.ErrorIs(t, err, scheduling.ErrSlotTaken)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

// slotIndex keeps scheduled start times the way the unique index on
// scheduled slots does.
type slotIndex struct {
	*MockAppointmentRepository

	mu     sync.Mutex
	booked map[time.Time]bool
}

func (s *slotIndex) ExistsScheduledAt(_ context.Context, _ *gorm.DB, _ uuid.UUID, at time.Time, _ *uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booked[at.UTC()], nil
}

func (s *slotIndex) Create(_ context.Context, _ *gorm.DB, appointment *entity.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.booked[appointment.ScheduledAt.UTC()] {
		return &pgconn.PgError{Code: "23505", ConstraintName: slotConstraint}
	}
	s.booked[appointment.ScheduledAt.UTC()] = true
	appointment.ID = uuid.New()
	return nil
}

func TestBook_ConcurrentSameSlotUnderRedisLock(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()
	other := uuid.New()
	f.users.On("FindByID", mock.Anything, mock.Anything, other).
		Return(&entity.User{ID: other, RoleID: entity.RoleIDPatient}, nil)
	f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, mock.Anything, f.providerID, mock.Anything, mock.Anything, noExclude()).Return(false, nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionAppointmentBook, mock.Anything, mock.Anything).Return(nil).Once()

	// The lock serializes the two transactions: the winner commits, the
	// loser sees the slot taken and rolls back.
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	index := &slotIndex{MockAppointmentRepository: f.appointments, booked: map[time.Time]bool{}}
	uc := NewAppointmentUsecase(f.uc.db, newTestLogger(),
		index, f.users, f.providers, f.auditLogs, f.audit,
		service.NewRedisSlotLocker(client, newTestLogger(), 5*time.Second, 2*time.Second), f.collector,
		scheduling.FixedClock{At: testNow}, time.UTC, scheduling.DefaultWindow(),
	)

	patients := []uuid.UUID{f.patientID, other}
	results := make([]*dto.AppointmentResponse, len(patients))
	errs := make([]error, len(patients))

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, patientID := range patients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i], errs[i] = uc.Book(context.Background(), scheduling.PatientActor(patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))
		}()
	}
	close(start)
	wg.Wait()

	var booked, conflicts int
	for i := range patients {
		if errs[i] == nil {
			booked++
			assert.Equal(t, "scheduled", results[i].Status)
			continue
		}
		conflicts++
		assert.ErrorIs(t, errs[i], scheduling.ErrSlotTaken)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(errs[i]))
	}
	assert.Equal(t, 1, booked)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.AppointmentsBooked))
	assert.False(t, mr.Exists("lock:booking:"+f.providerID.String()+":2026-10-19"), "lock must be released")
}

func TestBook_UnexpectedStorageFaultIsInternal(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()

	f.sql.ExpectBegin()
	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, mock.Anything, noExclude()).Return(false, errors.New("connection reset"))
	f.sql.ExpectRollback()

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestBook_Authorization(t *testing.T) {
	f := newAppointmentFixture(t)
	someone := uuid.New()

	req := bookRequest(f.providerID, "2026-10-19T10:00:00")
	req.PatientID = &someone
	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), req)
	assert.ErrorIs(t, err, scheduling.ErrBookForOthers)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.uc.Book(context.Background(), scheduling.ProviderActor(f.providerID), bookRequest(f.providerID, "2026-10-19T10:00:00"))
	assert.ErrorIs(t, err, ErrPatientRequired)

	req = bookRequest(f.providerID, "2026-10-19T10:00:00")
	req.PatientID = &f.patientID
	_, err = f.uc.Book(context.Background(), scheduling.ProviderActor(uuid.New()), req)
	assert.ErrorIs(t, err, scheduling.ErrBookForOthers)

	_, err = f.uc.Book(context.Background(), scheduling.Actor{}, req)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	f.providers.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_ProviderOnBehalfOfPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.expectPatient()

	f.sql.ExpectBegin()
	f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday10), noExclude()).Return(false, nil)
	f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, f.patientID, f.providerID, mock.Anything, mock.Anything, noExclude()).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, f.providerID, entity.AuditActionAppointmentBook, mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	req := bookRequest(f.providerID, "2026-10-19T10:00:00Z")
	req.PatientID = &f.patientID

	resp, err := f.uc.Book(context.Background(), scheduling.ProviderActor(f.providerID), req)
	require.NoError(t, err)
	assert.Equal(t, f.patientID, resp.PatientID)
}

func TestBook_CalendarRules(t *testing.T) {
	tests := []struct {
		name string
		at   string
		want error
	}{
		{"saturday", "2026-10-17T10:00:00", scheduling.ErrWeekend},
		{"lunch", "2026-10-19T12:30:00", scheduling.ErrDuringLunch},
		{"before opening", "2026-10-19T08:00:00", scheduling.ErrOutsideBusinessHours},
		{"closing", "2026-10-19T17:00:00", scheduling.ErrOutsideBusinessHours},
		{"past", "2026-10-15T10:00:00", scheduling.ErrTooSoon},
		{"within lead time", "2026-10-16T10:30:00", scheduling.ErrTooSoon},
		{"off grid", "2026-10-19T10:10:00", scheduling.ErrOffGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			f.expectProvider()

			_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, tt.at))

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
			f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBook_InvalidTimestamp(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "next monday"))

	assert.ErrorIs(t, err, scheduling.ErrInvalidTimestamp)
}

func TestBook_NoteLength(t *testing.T) {
	f := newAppointmentFixture(t)

	long := strings.Repeat("x", 501)
	req := bookRequest(f.providerID, "2026-10-19T10:00:00")
	req.Notes = &long

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), req)

	assert.ErrorIs(t, err, ErrNoteTooLong)
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.BookingRejections.WithLabelValues("invalid_request")))
	f.providers.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything, mock.Anything)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)

	// 500 characters pass even when each is several bytes; the off-grid time
	// stops the booking right after the note check.
	f = newAppointmentFixture(t)
	f.expectProvider()
	wide := strings.Repeat("é", 500)
	req = bookRequest(f.providerID, "2026-10-19T10:10:00")
	req.Notes = &wide

	_, err = f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), req)
	assert.ErrorIs(t, err, scheduling.ErrOffGrid)
}

func TestBook_UnknownParticipants(t *testing.T) {
	f := newAppointmentFixture(t)
	f.providers.On("FindByUserID", mock.Anything, mock.Anything, f.providerID).Return(nil, nil)

	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))
	assert.ErrorIs(t, err, ErrProviderNotFound)

	f = newAppointmentFixture(t)
	f.expectProvider()
	f.users.On("FindByID", mock.Anything, mock.Anything, f.patientID).Return(nil, nil)

	_, err = f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T10:00:00"))
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestBook_ProviderScheduleOverridesClinicWindow(t *testing.T) {
	f := newAppointmentFixture(t)
	profile := f.providerProfile()
	profile.Schedule = &entity.ProviderSchedule{
		ProviderID:        f.providerID,
		DayStart:          "08:00",
		DayEnd:            "12:00",
		SlotLengthMinutes: 45,
	}
	f.providers.On("FindByUserID", mock.Anything, mock.Anything, f.providerID).Return(profile, nil)

	// 14:00 is inside the clinic window but outside this provider's hours.
	_, err := f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T14:00:00"))
	assert.ErrorIs(t, err, scheduling.ErrOutsideBusinessHours)

	_, err = f.uc.Book(context.Background(), scheduling.PatientActor(f.patientID), bookRequest(f.providerID, "2026-10-19T09:00:00"))
	assert.ErrorIs(t, err, scheduling.ErrOffGrid)
}

func TestUpdateStatus(t *testing.T) {
	t.Run("no show to completed", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(testNow.Add(-time.Hour), scheduling.StatusNoShow)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		f.sql.ExpectBegin()
		f.appointments.On("UpdateStatus", mock.Anything, mock.Anything, appointment.ID, scheduling.StatusNoShow, scheduling.StatusCompleted).Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, f.providerID, entity.AuditActionAppointmentStatus, appointment.ID, mock.Anything, mock.Anything).Return(nil)
		f.sql.ExpectCommit()

		resp, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID,
			&dto.UpdateAppointmentStatusRequest{Status: "Completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.AppointmentTransitions.WithLabelValues("completed")))
	})

	t.Run("completed to cancelled leaves state unchanged", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusCompleted)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID,
			&dto.UpdateAppointmentStatusRequest{Status: "cancelled"})

		assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)
		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
		assert.Equal(t, scheduling.StatusCompleted, appointment.Status)
		f.appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider cannot cancel a past appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(testNow.Add(-48*time.Hour), scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID,
			&dto.UpdateAppointmentStatusRequest{Status: "cancelled"})

		assert.ErrorIs(t, err, scheduling.ErrPastAppointment)
		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
		assert.Equal(t, scheduling.StatusScheduled, appointment.Status)
		f.appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patient cannot change status", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID,
			&dto.UpdateAppointmentStatusRequest{Status: "completed"})

		assert.ErrorIs(t, err, scheduling.ErrNotAssignedProvider)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("stale read", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		f.sql.ExpectBegin()
		f.appointments.On("UpdateStatus", mock.Anything, mock.Anything, appointment.ID, scheduling.StatusScheduled, scheduling.StatusNoShow).Return(int64(0), nil)
		f.sql.ExpectRollback()

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID,
			&dto.UpdateAppointmentStatusRequest{Status: "NoShow"})

		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Equal(t, scheduling.StatusScheduled, appointment.Status)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		id := uuid.New()
		f.appointments.On("FindByID", mock.Anything, mock.Anything, id).Return(nil, nil)

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), id,
			&dto.UpdateAppointmentStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.uc.UpdateStatus(context.Background(), scheduling.ProviderActor(f.providerID), uuid.New(),
			&dto.UpdateAppointmentStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, scheduling.ErrInvalidStatus)
	})
}

func TestCancel(t *testing.T) {
	t.Run("patient cancels future appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		f.sql.ExpectBegin()
		f.appointments.On("UpdateStatus", mock.Anything, mock.Anything, appointment.ID, scheduling.StatusScheduled, scheduling.StatusCancelled).Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, f.patientID, entity.AuditActionAppointmentCancel, appointment.ID, mock.Anything, mock.Anything).Return(nil)
		f.sql.ExpectCommit()

		resp, err := f.uc.Cancel(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("past appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(testNow.Add(-24*time.Hour), scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.Cancel(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID)

		assert.ErrorIs(t, err, scheduling.ErrPastAppointment)
		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("completed appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusCompleted)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.Cancel(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID)
		assert.ErrorIs(t, err, scheduling.ErrNotCancellable)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.Cancel(context.Background(), scheduling.PatientActor(uuid.New()), appointment.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func TestReschedule(t *testing.T) {
	t.Run("moves to a free slot", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.expectProvider()
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		f.sql.ExpectBegin()
		f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday14), &appointment.ID).Return(false, nil)
		f.appointments.On("ExistsSameDay", mock.Anything, mock.Anything, f.patientID, f.providerID, mock.Anything, mock.Anything, &appointment.ID).Return(false, nil)
		f.appointments.On("Reschedule", mock.Anything, mock.Anything, appointment.ID, sameTime(monday14)).Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, f.patientID, entity.AuditActionAppointmentReschedule, appointment.ID, mock.Anything, mock.Anything).Return(nil)
		f.sql.ExpectCommit()

		resp, err := f.uc.Reschedule(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID,
			&dto.RescheduleAppointmentRequest{AppointmentTime: "2026-10-19T14:00:00"})
		require.NoError(t, err)
		assert.True(t, resp.AppointmentTime.Equal(monday14))
		assert.Equal(t, "scheduled", resp.Status)
	})

	t.Run("target slot taken", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.expectProvider()
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		f.sql.ExpectBegin()
		f.appointments.On("ExistsScheduledAt", mock.Anything, mock.Anything, f.providerID, sameTime(monday14), &appointment.ID).Return(true, nil)
		f.sql.ExpectRollback()

		_, err := f.uc.Reschedule(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID,
			&dto.RescheduleAppointmentRequest{AppointmentTime: "2026-10-19T14:00:00"})
		assert.ErrorIs(t, err, scheduling.ErrSlotTaken)
	})

	t.Run("cancelled appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusCancelled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		_, err := f.uc.Reschedule(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID,
			&dto.RescheduleAppointmentRequest{AppointmentTime: "2026-10-19T14:00:00"})
		assert.ErrorIs(t, err, scheduling.ErrNotReschedulable)
	})

	t.Run("same time is a no-op", func(t *testing.T) {
		f := newAppointmentFixture(t)
		appointment := f.appointment(monday10, scheduling.StatusScheduled)
		f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

		resp, err := f.uc.Reschedule(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID,
			&dto.RescheduleAppointmentRequest{AppointmentTime: "2026-10-19T10:00:00"})
		require.NoError(t, err)
		assert.Equal(t, appointment.ID, resp.ID)
	})
}

func TestGetAvailableSlots_Monday(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.appointments.On("FindScheduledTimes", mock.Anything, mock.Anything, f.providerID,
		sameTime(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)), sameTime(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)),
	).Return([]time.Time{monday10}, nil)

	resp, err := f.uc.GetAvailableSlots(context.Background(), f.providerID, "2026-10-19")
	require.NoError(t, err)

	require.Len(t, resp.Slots, 14)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, 13, resp.AvailableCount)
	assert.True(t, resp.Slots[0].StartTime.Equal(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))
	assert.False(t, resp.Slots[2].Available)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.SlotQueries))
}

func TestGetAvailableSlots_BadInput(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.GetAvailableSlots(context.Background(), f.providerID, "19-10-2026")
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))

	f.providers.On("FindByUserID", mock.Anything, mock.Anything, f.providerID).Return(nil, nil)
	_, err = f.uc.GetAvailableSlots(context.Background(), f.providerID, "2026-10-19")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestGetWeekSlots(t *testing.T) {
	f := newAppointmentFixture(t)
	f.expectProvider()
	f.appointments.On("FindScheduledTimes", mock.Anything, mock.Anything, f.providerID,
		sameTime(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)), sameTime(time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)),
	).Return([]time.Time{monday10}, nil)

	resp, err := f.uc.GetWeekSlots(context.Background(), f.providerID, "2026-10-16")
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2026-10-16", resp.Days[0].Date)
	// Friday at 10:00: 10:00 and 10:30 are within the lead time.
	assert.Len(t, resp.Days[0].Slots, 14)
	assert.Equal(t, 10, resp.Days[0].AvailableCount)
	assert.Empty(t, resp.Days[1].Slots, "saturday")
	assert.Empty(t, resp.Days[2].Slots, "sunday")
	assert.Equal(t, 13, resp.Days[3].AvailableCount, "monday")
}

func TestListAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)

	f.appointments.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.PatientID != nil && *filter.PatientID == f.patientID &&
			filter.ProviderID == nil &&
			filter.From.Equal(from) && filter.To.Equal(to) &&
			*filter.Status == scheduling.StatusScheduled
	})).Return([]entity.Appointment{*f.appointment(monday10, scheduling.StatusScheduled)}, nil)

	resp, err := f.uc.ListAppointments(context.Background(), scheduling.PatientActor(f.patientID), &dto.AppointmentQuery{
		StartDate: "2026-10-19",
		EndDate:   "2026-10-23",
		Status:    "Scheduled",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestListAppointments_ProviderScope(t *testing.T) {
	f := newAppointmentFixture(t)
	f.appointments.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.ProviderID != nil && *filter.ProviderID == f.providerID && filter.PatientID == nil
	})).Return([]entity.Appointment{}, nil)

	resp, err := f.uc.ListAppointments(context.Background(), scheduling.ProviderActor(f.providerID), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
}

func TestListAppointments_InvalidQuery(t *testing.T) {
	f := newAppointmentFixture(t)
	actor := scheduling.PatientActor(f.patientID)

	_, err := f.uc.ListAppointments(context.Background(), actor, &dto.AppointmentQuery{StartDate: "2026-10-23", EndDate: "2026-10-19"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = f.uc.ListAppointments(context.Background(), actor, &dto.AppointmentQuery{Status: "pending"})
	assert.ErrorIs(t, err, scheduling.ErrInvalidStatus)

	_, err = f.uc.ListAppointments(context.Background(), scheduling.Actor{}, nil)
	assert.ErrorIs(t, err, scheduling.ErrUnknownActor)
}

func TestUpcoming(t *testing.T) {
	f := newAppointmentFixture(t)
	f.appointments.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.Limit == 10 && filter.From.Equal(testNow) && *filter.Status == scheduling.StatusScheduled
	})).Return([]entity.Appointment{*f.appointment(monday10, scheduling.StatusScheduled)}, nil)

	resp, err := f.uc.Upcoming(context.Background(), scheduling.PatientActor(f.patientID))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestSummary(t *testing.T) {
	f := newAppointmentFixture(t)
	today := f.appointment(testNow.Add(2*time.Hour), scheduling.StatusScheduled)

	f.appointments.On("CountByStatus", mock.Anything, mock.Anything, mock.Anything).Return([]entity.StatusCount{
		{Status: scheduling.StatusScheduled, Count: 3},
		{Status: scheduling.StatusCompleted, Count: 2},
		{Status: scheduling.StatusNoShow, Count: 1},
	}, nil)
	f.appointments.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.Limit == 5
	})).Return([]entity.Appointment{*today, *f.appointment(monday10, scheduling.StatusScheduled)}, nil)
	f.appointments.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.Limit == 0 && filter.To != nil
	})).Return([]entity.Appointment{*today}, nil)

	resp, err := f.uc.Summary(context.Background(), scheduling.ProviderActor(f.providerID))
	require.NoError(t, err)

	assert.Equal(t, int64(6), resp.Total)
	assert.Equal(t, int64(3), resp.Scheduled)
	assert.Equal(t, int64(2), resp.Completed)
	assert.Equal(t, int64(0), resp.Cancelled)
	assert.Equal(t, int64(1), resp.NoShow)
	assert.Len(t, resp.Upcoming, 2)
	assert.Len(t, resp.Today, 1)
}

func TestSummary_Failure(t *testing.T) {
	f := newAppointmentFixture(t)
	f.appointments.On("CountByStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	f.appointments.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]entity.Appointment{}, nil).Maybe()

	_, err := f.uc.Summary(context.Background(), scheduling.PatientActor(f.patientID))
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.appointment(monday10, scheduling.StatusCancelled)
	f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)
	f.auditLogs.On("FindByEntityID", mock.Anything, mock.Anything, appointment.ID).Return([]entity.AuditLog{
		{ID: 1, Action: entity.AuditActionAppointmentBook, EntityID: &appointment.ID},
		{ID: 2, Action: entity.AuditActionAppointmentCancel, EntityID: &appointment.ID},
	}, nil)

	resp, err := f.uc.History(context.Background(), scheduling.ProviderActor(f.providerID), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, entity.AuditActionAppointmentCancel, resp.Logs[1].Action)

	_, err = f.uc.History(context.Background(), scheduling.PatientActor(uuid.New()), appointment.ID)
	assert.ErrorIs(t, err, scheduling.ErrNotParticipant)
}

func TestGetAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.appointment(monday10, scheduling.StatusScheduled)
	f.appointments.On("FindByID", mock.Anything, mock.Anything, appointment.ID).Return(appointment, nil)

	resp, err := f.uc.GetAppointment(context.Background(), scheduling.PatientActor(f.patientID), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.ID, resp.ID)

	_, err = f.uc.GetAppointment(context.Background(), scheduling.ProviderActor(uuid.New()), appointment.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
