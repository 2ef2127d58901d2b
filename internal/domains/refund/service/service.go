package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/infras/otel"
	bookingModel "courtside/internal/domains/booking/model"
	bookingRepo "courtside/internal/domains/booking/repository"
	"courtside/internal/domains/refund/model"
	"courtside/internal/domains/refund/model/dto"
	"courtside/internal/domains/refund/repository"
	"courtside/internal/events"
	"courtside/shared"
	"courtside/shared/cache"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/failure"
	"courtside/shared/timezone"
)

const (
	cacheGetRefund    = "refund:get"
	cacheGetAllRefund = "refund:gets"
	cacheCountRefund  = "refund:count"
)

type Refund interface {
	Get(ctx context.Context, id string) (dto.RefundResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRefundsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetRefundsResponse, error)
	SetStatus(ctx context.Context, id string, req dto.SetRefundStatusRequest) error
}

type serviceImpl struct {
	repo     repository.Refund
	bookings bookingRepo.Booking
	events   events.Publisher
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Refund,
	bookings bookingRepo.Booking,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Refund {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		events:   publisher,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRefund, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	refund, err := s.getOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(refund)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save refund to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRefundsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRefund, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for refunds")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count refunds")

		return res, fmt.Errorf("failed to count refunds: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get refunds")

		return res, fmt.Errorf("failed to get refunds: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save refunds to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetRefundsResponse, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Value:    user,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

// SetStatus settles a pending refund. Completing the refund also closes out
// the booking's payment, so the money is never counted twice; both rows
// change in the same transaction.
func (s *serviceImpl) SetStatus(ctx context.Context, id string, req dto.SetRefundStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	refund, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = refund.ValidateStatusTransition(req.Status); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	err = s.bookings.InTx(ctx, func(sqltx *sqlx.Tx) error {
		updated := map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, sqltx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err // nolint:wrapcheck
		}

		if req.Status != model.StatusCompleted {
			return nil
		}

		settled := map[string]any{
			bookingModel.FieldPaymentStatus: bookingModel.PaymentCancelled,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        user,
		}

		return s.bookings.UpdateTx(ctx, sqltx, settled, shared.FilterByID(refund.BookingID, bookingModel.FieldID, bookingModel.TableName)) // nolint:wrapcheck
	})
	if err != nil {
		return err
	}

	refund.Status = req.Status

	s.invalidate(ctx, refund)

	s.events.Publish(ctx, events.TopicRefundUpdated, refund.ID, events.RefundEvent{
		RefundID:   refund.ID,
		BookingID:  refund.BookingID,
		UserID:     refund.UserID,
		Amount:     refund.Amount,
		Status:     refund.Status,
		OccurredAt: now,
	})

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Refund, error) {
	refund, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get refund")

		return refund, fmt.Errorf("failed to get refund: %w", err)
	}

	if refund.ID == constant.Empty {
		return refund, failure.NotFound("refund not found") // nolint:wrapcheck
	}

	return refund, nil
}

func (s *serviceImpl) getOwned(ctx context.Context, id string) (model.Refund, error) {
	refund, err := s.get(ctx, id)
	if err != nil {
		return refund, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if refund.UserID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return refund, failure.NotFound("refund not found") // nolint:wrapcheck
	}

	return refund, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, refund model.Refund) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRefund, refund.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete refund from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRefund)
		shared.InvalidateCaches(c, s.cache, cacheCountRefund)

		if err := s.cache.Delete(c, shared.BuildCacheKey("booking:get", refund.BookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, "booking:gets")
	}()
}
