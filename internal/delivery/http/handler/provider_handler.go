package handler

import (
	"net/http"
	"strings"
	"time"

	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/domain/repository"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/internal/usecase"
	"healthcare-portal/pkg/response"
	"healthcare-portal/pkg/validator"
)

type ProviderHandler struct {
	providerUsecase    usecase.ProviderUsecase
	scheduleUsecase    usecase.ScheduleUsecase
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	clock              scheduling.Clock
	loc                *time.Location
}

func NewProviderHandler(
	providerUsecase usecase.ProviderUsecase,
	scheduleUsecase usecase.ScheduleUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	validator *validator.CustomValidator,
	clock scheduling.Clock,
	loc *time.Location,
) *ProviderHandler {
	return &ProviderHandler{
		providerUsecase:    providerUsecase,
		scheduleUsecase:    scheduleUsecase,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		clock:              clock,
		loc:                loc,
	}
}

// ListProviders returns active providers, optionally filtered by ?name= and ?specialty=
// @Summary List providers
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param name query string false "Name contains"
// @Param specialty query string false "Specialty contains"
// @Success 200 {object} response.Response
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProviderFilter{
		Name:      strings.TrimSpace(q.Get("name")),
		Specialty: strings.TrimSpace(q.Get("specialty")),
	}

	providers, err := h.providerUsecase.ListProviders(r.Context(), filter)
	if err != nil {
		response.AppError(w, err, "Failed to get providers")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Providers retrieved successfully", providers, &response.Meta{Total: providers.Total})
}

// GetProvider
// @Summary Get provider
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{id} [get]
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "id", "provider")
	if !ok {
		return
	}

	provider, err := h.providerUsecase.GetProvider(r.Context(), providerID)
	if err != nil {
		response.AppError(w, err, "Failed to get provider")
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", provider)
}

// GetSlots lists the slots of one day
// @Summary Get available slots
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Provider ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /providers/{id}/slots [get]
func (h *ProviderHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "id", "provider")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.ValidationError(w, map[string]string{"date": "date is required"})
		return
	}

	slots, err := h.appointmentUsecase.GetAvailableSlots(r.Context(), providerID, date)
	if err != nil {
		response.AppError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// GetWeekSlots lists seven days of slots from ?start_date=, today by default
// @Summary Get a week of slots
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Provider ID"
// @Param start_date query string false "First day (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /providers/{id}/slots/week [get]
func (h *ProviderHandler) GetWeekSlots(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "id", "provider")
	if !ok {
		return
	}

	start := r.URL.Query().Get("start_date")
	if start == "" {
		start = h.clock.Now().In(h.loc).Format(scheduling.DateLayout)
	}

	week, err := h.appointmentUsecase.GetWeekSlots(r.Context(), providerID, start)
	if err != nil {
		response.AppError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", week)
}

// GetMySchedule returns the caller's business window
// @Summary Get own schedule
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /providers/me/schedule [get]
func (h *ProviderHandler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), actor.ID())
	if err != nil {
		response.AppError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// GetSchedule returns any provider's business window
// @Summary Get provider schedule
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Response
// @Router /providers/{id}/schedule [get]
func (h *ProviderHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "id", "provider")
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), providerID)
	if err != nil {
		response.AppError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// UpdateMySchedule replaces the caller's business window
// @Summary Update own schedule
// @Tags Providers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateScheduleRequest true "Schedule"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /providers/me/schedule [put]
func (h *ProviderHandler) UpdateMySchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), actor, &req)
	if err != nil {
		response.AppError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}
