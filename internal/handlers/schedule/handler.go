package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"courtside/infras/otel"
	"courtside/internal/domains/schedule/model"
	"courtside/internal/domains/schedule/model/dto"
	"courtside/internal/domains/schedule/service"
	"courtside/shared/constant"
	"courtside/shared/validator"
	"courtside/transport/http/response"
)

type Handler struct {
	service service.Schedule
	otel    otel.Otel
}

func New(service service.Schedule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/schedules", func(routerGroup chi.Router) {
		routerGroup.Get("/grid", handler.GetGrid)
		routerGroup.Get("/resolve", handler.ResolveSlot)
		routerGroup.Put("/override", handler.SetOverride)
		routerGroup.Delete("/override", handler.ClearOverride)
	})
}

// GetGrid returns the weekly availability grid for a court.
// @Summary Get the weekly schedule grid
// @Description Retrieve the per-hour slot states of a court for seven days starting at the given date.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param court_id query string true "Court ID"
// @Param date query string true "First day of the grid (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.WeekGridResponse] "Weekly grid"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/grid [get]
func (handler *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGrid")
	defer scope.End()

	courtID := r.URL.Query().Get(model.FieldCourtID)
	date := r.URL.Query().Get(model.FieldDate)

	grid, err := handler.service.Grid(ctx, courtID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get schedule grid")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule grid retrieved successfully")

	response.WithJSON(w, http.StatusOK, grid)
}

// ResolveSlot returns the state of a single court-hour.
// @Summary Resolve one slot
// @Description Resolve the state of one court-hour. Slots without a stored row resolve to available.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param court_id query string true "Court ID"
// @Param date query string true "Slot date (YYYY-MM-DD)"
// @Param start_time query string true "Slot start time (HH:MM)"
// @Success 200 {object} response.Data[dto.SlotResponse] "Slot state"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/resolve [get]
func (handler *Handler) ResolveSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveSlot")
	defer scope.End()

	req := dto.ResolveRequest{
		CourtID:   r.URL.Query().Get(model.FieldCourtID),
		Date:      r.URL.Query().Get(model.FieldDate),
		StartTime: r.URL.Query().Get(model.FieldStartTime),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.Resolve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot resolved successfully")

	response.WithJSON(w, http.StatusOK, slot)
}

// SetOverride blocks a range of slots for maintenance or a holiday.
// @Summary Set a schedule override
// @Description Mark a range of court-hours as maintenance or holiday, taking them off the booking market.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.SetOverrideRequest true "Set Override Request"
// @Success 200 {object} response.Message "Override set successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/override [put]
// @Security BearerAuth
func (handler *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetOverride")
	defer scope.End()

	req := dto.SetOverrideRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetOverride(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set schedule override")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule override set successfully")

	response.WithMessage(w, http.StatusOK, "Override set successfully")
}

// ClearOverride lifts a maintenance or holiday block.
// @Summary Clear a schedule override
// @Description Return overridden court-hours to the booking market.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.ClearOverrideRequest true "Clear Override Request"
// @Success 200 {object} response.Message "Override cleared successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/override [delete]
// @Security BearerAuth
func (handler *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClearOverride")
	defer scope.End()

	req := dto.ClearOverrideRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ClearOverride(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to clear schedule override")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule override cleared successfully")

	response.WithMessage(w, http.StatusOK, "Override cleared successfully")
}
