package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"courtside/config"
	"courtside/infras/otel/mocks"
	bookingMocks "courtside/internal/domains/booking/mocks"
	bookingModel "courtside/internal/domains/booking/model"
	refundMocks "courtside/internal/domains/refund/mocks"
	"courtside/internal/domains/refund/model"
	"courtside/internal/domains/refund/model/dto"
	"courtside/internal/domains/refund/service"
	"courtside/internal/events"
	eventMocks "courtside/internal/events/mocks"
	cacheMocks "courtside/shared/cache/mocks"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/failure"
)

type refundMockSet struct {
	repo     *refundMocks.MockRefund
	bookings *bookingMocks.MockBooking
	events   *eventMocks.MockPublisher
	cache    *cacheMocks.MockRedisCache
}

func newRefundService(t *testing.T) (service.Refund, *refundMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	set := &refundMockSet{
		repo:     refundMocks.NewMockRefund(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		events:   eventMocks.NewMockPublisher(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(set.repo, set.bookings, set.events, cfg, set.cache, mocks.NewOtel())

	return svc, set
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func pendingRefund() model.Refund {
	return model.Refund{
		ID:            "refund-1",
		BookingID:     "booking-1",
		UserID:        "user-1",
		Amount:        160000,
		RefundMethod:  "BCA",
		AccountNumber: "1234567890",
		Status:        model.StatusPending,
	}
}

func TestRefundService_SetStatus(t *testing.T) {
	t.Run("completing a refund cancels the booking payment", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)
		set.bookings.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
				return fn(nil)
			})
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updated map[string]any, _ any) error {
				assert.Equal(t, model.StatusCompleted, updated[model.FieldStatus])

				return nil
			})
		set.bookings.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updated map[string]any, _ any) error {
				assert.Equal(t, bookingModel.PaymentCancelled, updated[bookingModel.FieldPaymentStatus])

				return nil
			})
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicRefundUpdated, refund.ID, gomock.Any()).
			Do(func(_ context.Context, _, _ string, value any) {
				event, ok := value.(events.RefundEvent)
				assert.True(t, ok)
				assert.Equal(t, model.StatusCompleted, event.Status)
				assert.Equal(t, refund.Amount, event.Amount)
			})

		err := svc.SetStatus(adminContext(), refund.ID, dto.SetRefundStatusRequest{Status: model.StatusCompleted})

		assert.NoError(t, err)
	})

	t.Run("rejecting a refund leaves the booking payment alone", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)
		set.bookings.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
				return fn(nil)
			})
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicRefundUpdated, refund.ID, gomock.Any())

		err := svc.SetStatus(adminContext(), refund.ID, dto.SetRefundStatusRequest{Status: model.StatusRejected})

		assert.NoError(t, err)
	})

	t.Run("settled refund cannot change again", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()
		refund.Status = model.StatusCompleted

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)

		err := svc.SetStatus(adminContext(), refund.ID, dto.SetRefundStatusRequest{Status: model.StatusRejected})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("missing refund", func(t *testing.T) {
		svc, set := newRefundService(t)

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Refund{}, nil)

		err := svc.SetStatus(adminContext(), "missing", dto.SetRefundStatusRequest{Status: model.StatusCompleted})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("transaction failure is surfaced", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)
		set.bookings.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		err := svc.SetStatus(adminContext(), refund.ID, dto.SetRefundStatusRequest{Status: model.StatusCompleted})

		assert.Error(t, err)
	})
}

func TestRefundService_Get(t *testing.T) {
	t.Run("owner reads own refund on cache miss", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)

		res, err := svc.Get(ctx, refund.ID)

		assert.NoError(t, err)
		assert.Equal(t, refund.ID, res.ID)
		assert.Equal(t, refund.Amount, res.Amount)
	})

	t.Run("other users cannot read someone else's refund", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "intruder")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(refund, nil)

		_, err := svc.Get(ctx, refund.ID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRefundService_GetMine(t *testing.T) {
	t.Run("filters by the calling user", func(t *testing.T) {
		svc, set := newRefundService(t)
		refund := pendingRefund()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		set.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)
		set.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Refund{refund}, nil)

		res, err := svc.GetMine(ctx, gDto.QueryParams{Page: 1, Limit: 10})

		assert.NoError(t, err)
		assert.Len(t, res.Refunds, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
