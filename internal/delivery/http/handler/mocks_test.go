package handler

import (
	"context"

	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *MockAuthUsecase) RegisterProvider(ctx context.Context, req *dto.RegisterProviderRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	return m.Called(ctx, userID, accessTokenID, req).Error(0)
}

func (m *MockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) GetAvailableSlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.DaySlotsResponse, error) {
	args := m.Called(ctx, providerID, date)
	slots, _ := args.Get(0).(*dto.DaySlotsResponse)
	return slots, args.Error(1)
}

func (m *MockAppointmentUsecase) GetWeekSlots(ctx context.Context, providerID uuid.UUID, startDate string) (*dto.WeekSlotsResponse, error) {
	args := m.Called(ctx, providerID, startDate)
	week, _ := args.Get(0).(*dto.WeekSlotsResponse)
	return week, args.Error(1)
}

func (m *MockAppointmentUsecase) Book(ctx context.Context, actor scheduling.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, req)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) UpdateStatus(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id, req)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) Cancel(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) Reschedule(ctx context.Context, actor scheduling.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id, req)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) GetAppointment(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) ListAppointments(ctx context.Context, actor scheduling.Actor, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, actor, query)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *MockAppointmentUsecase) Upcoming(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, actor)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *MockAppointmentUsecase) Summary(ctx context.Context, actor scheduling.Actor) (*dto.AppointmentSummaryResponse, error) {
	args := m.Called(ctx, actor)
	summary, _ := args.Get(0).(*dto.AppointmentSummaryResponse)
	return summary, args.Error(1)
}

func (m *MockAppointmentUsecase) History(ctx context.Context, actor scheduling.Actor, id uuid.UUID) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, actor, id)
	logs, _ := args.Get(0).(*dto.AuditLogListResponse)
	return logs, args.Error(1)
}

type MockProviderUsecase struct {
	mock.Mock
}

func (m *MockProviderUsecase) ListProviders(ctx context.Context, filter repository.ProviderFilter) (*dto.ProviderListResponse, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).(*dto.ProviderListResponse)
	return list, args.Error(1)
}

func (m *MockProviderUsecase) GetProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderResponse, error) {
	args := m.Called(ctx, providerID)
	provider, _ := args.Get(0).(*dto.ProviderResponse)
	return provider, args.Error(1)
}

type MockScheduleUsecase struct {
	mock.Mock
}

func (m *MockScheduleUsecase) GetSchedule(ctx context.Context, providerID uuid.UUID) (*dto.ScheduleResponse, error) {
	args := m.Called(ctx, providerID)
	schedule, _ := args.Get(0).(*dto.ScheduleResponse)
	return schedule, args.Error(1)
}

func (m *MockScheduleUsecase) UpdateSchedule(ctx context.Context, actor scheduling.Actor, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	args := m.Called(ctx, actor, req)
	schedule, _ := args.Get(0).(*dto.ScheduleResponse)
	return schedule, args.Error(1)
}

type MockPatientUsecase struct {
	mock.Mock
}

func (m *MockPatientUsecase) ListPatients(ctx context.Context, actor scheduling.Actor) (*dto.PatientListResponse, error) {
	args := m.Called(ctx, actor)
	list, _ := args.Get(0).(*dto.PatientListResponse)
	return list, args.Error(1)
}
