package refund

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"courtside/infras/otel"
	"courtside/internal/domains/refund/model"
	"courtside/internal/domains/refund/model/dto"
	"courtside/internal/domains/refund/service"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/validator"
	"courtside/transport/http/response"
)

type Handler struct {
	service service.Refund
	otel    otel.Otel
}

func New(service service.Refund, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/refunds", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRefunds)
		routerGroup.Get("/myrefunds", handler.GetMyRefunds)
		routerGroup.Get("/{id}", handler.GetRefundByID)
		routerGroup.Patch("/{id}/status", handler.SetStatus)
	})
}

// GetRefunds retrieves all refunds.
// @Summary Get all refunds
// @Description Retrieve all refunds with optional filtering and pagination.
// @Tags Refund
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, completed, rejected)"
// @Success 200 {object} response.Data[dto.GetRefundsResponse] "List of refunds"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refunds [get]
// @Security BearerAuth
func (handler *Handler) GetRefunds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRefunds")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	refunds, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get refunds")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Refunds retrieved successfully")

	response.WithJSON(w, http.StatusOK, refunds)
}

// GetMyRefunds retrieves the authenticated user's refunds.
// @Summary Get my refunds
// @Description Retrieve all refunds of the currently authenticated user.
// @Tags Refund
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRefundsResponse] "List of user's refunds"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refunds/myrefunds [get]
// @Security BearerAuth
func (handler *Handler) GetMyRefunds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRefunds")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	refunds, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user refunds")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User refunds retrieved successfully")

	response.WithJSON(w, http.StatusOK, refunds)
}

// GetRefundByID retrieves a refund by its ID.
// @Summary Get a refund by ID
// @Description Retrieve a refund by its unique identifier. Users can only see their own refunds.
// @Tags Refund
// @Accept json
// @Produce json
// @Param id path string true "Refund ID"
// @Success 200 {object} response.Data[dto.RefundResponse] "Refund details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refunds/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRefundByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRefundByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	refund, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get refund by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Refund retrieved successfully")

	response.WithJSON(w, http.StatusOK, refund)
}

// SetStatus settles a pending refund.
// @Summary Set refund status
// @Description Complete or reject a pending refund. Completing also closes out the booking's payment.
// @Tags Refund
// @Accept json
// @Produce json
// @Param id path string true "Refund ID"
// @Param request body dto.SetRefundStatusRequest true "Set Refund Status Request"
// @Success 200 {object} response.Message "Refund status updated successfully"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refunds/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SetRefundStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetStatus(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set refund status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Refund status updated successfully")

	response.WithMessage(w, http.StatusOK, "Refund status updated successfully")
}
