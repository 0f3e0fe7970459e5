package usecase

import (
	"context"
	"testing"
	"time"

	"healthcare-portal/internal/domain/entity"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(ctx, db, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, db, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, filter)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) CountByStatus(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.StatusCount, error) {
	args := m.Called(ctx, db, filter)
	counts, _ := args.Get(0).([]entity.StatusCount)
	return counts, args.Error(1)
}

func (m *MockAppointmentRepository) FindScheduledTimes(ctx context.Context, db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, db, providerID, from, to)
	times, _ := args.Get(0).([]time.Time)
	return times, args.Error(1)
}

func (m *MockAppointmentRepository) ExistsScheduledAt(ctx context.Context, db *gorm.DB, providerID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, providerID, at, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) ExistsSameDay(ctx context.Context, db *gorm.DB, patientID, providerID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, patientID, providerID, from, to, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to scheduling.Status) (int64, error) {
	args := m.Called(ctx, db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) Reschedule(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, db, id, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(ctx, db, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type MockProviderProfileRepository struct {
	mock.Mock
}

func (m *MockProviderProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	args := m.Called(ctx, db, profile)
	return args.Error(0)
}

func (m *MockProviderProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	args := m.Called(ctx, db, userID)
	profile, _ := args.Get(0).(*entity.ProviderProfile)
	return profile, args.Error(1)
}

func (m *MockProviderProfileRepository) FindAllActive(ctx context.Context, db *gorm.DB, filter repository.ProviderFilter) ([]entity.ProviderProfile, error) {
	args := m.Called(ctx, db, filter)
	profiles, _ := args.Get(0).([]entity.ProviderProfile)
	return profiles, args.Error(1)
}

type MockPatientProfileRepository struct {
	mock.Mock
}

func (m *MockPatientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	args := m.Called(ctx, db, profile)
	return args.Error(0)
}

func (m *MockPatientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	args := m.Called(ctx, db, userID)
	profile, _ := args.Get(0).(*entity.PatientProfile)
	return profile, args.Error(1)
}

func (m *MockPatientProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.PatientProfile, error) {
	args := m.Called(ctx, db)
	profiles, _ := args.Get(0).([]entity.PatientProfile)
	return profiles, args.Error(1)
}

type MockProviderScheduleRepository struct {
	mock.Mock
}

func (m *MockProviderScheduleRepository) FindByProviderID(ctx context.Context, db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error) {
	args := m.Called(ctx, db, providerID)
	schedule, _ := args.Get(0).(*entity.ProviderSchedule)
	return schedule, args.Error(1)
}

func (m *MockProviderScheduleRepository) Upsert(ctx context.Context, db *gorm.DB, schedule *entity.ProviderSchedule) error {
	args := m.Called(ctx, db, schedule)
	return args.Error(0)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	args := m.Called(ctx, db, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) FindByEntityID(ctx context.Context, db *gorm.DB, entityID uuid.UUID) ([]entity.AuditLog, error) {
	args := m.Called(ctx, db, entityID)
	logs, _ := args.Get(0).([]entity.AuditLog)
	return logs, args.Error(1)
}

// MockAuditService is a mock implementation of AuditService
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, newValue any) error {
	args := m.Called(ctx, tx, userID, action, entityID, newValue)
	return args.Error(0)
}

func (m *MockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, oldValue, newValue any) error {
	args := m.Called(ctx, tx, userID, action, entityID, oldValue, newValue)
	return args.Error(0)
}

func (m *MockAuditService) LogEvent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) error {
	args := m.Called(ctx, tx, userID, action)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	args := m.Called(ctx, userID, accessID, accessTTL, refreshID, refreshTTL)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessValid(ctx context.Context, userID uuid.UUID, accessID string) (bool, error) {
	args := m.Called(ctx, userID, accessID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, refreshID string) (bool, error) {
	args := m.Called(ctx, userID, refreshID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error {
	args := m.Called(ctx, userID, accessID, refreshID)
	return args.Error(0)
}
