package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"courtside/config"
	"courtside/infras/otel/mocks"
	s3Mocks "courtside/infras/s3/mocks"
	bookingMocks "courtside/internal/domains/booking/mocks"
	"courtside/internal/domains/booking/model"
	"courtside/internal/domains/booking/model/dto"
	"courtside/internal/domains/booking/service"
	courtMocks "courtside/internal/domains/court/mocks"
	courtModel "courtside/internal/domains/court/model"
	refundMocks "courtside/internal/domains/refund/mocks"
	refundModel "courtside/internal/domains/refund/model"
	scheduleModel "courtside/internal/domains/schedule/model"
	scheduleService "courtside/internal/domains/schedule/service"
	scheduleServiceMocks "courtside/internal/domains/schedule/service/mocks"
	"courtside/internal/domains/schedule/slot"
	"courtside/internal/events"
	eventMocks "courtside/internal/events/mocks"
	cacheMocks "courtside/shared/cache/mocks"
	"courtside/shared/constant"
	"courtside/shared/failure"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"
)

type bookingMockSet struct {
	repo     *bookingMocks.MockBooking
	courts   *courtMocks.MockCourt
	refunds  *refundMocks.MockRefund
	schedule *scheduleServiceMocks.MockSchedule
	storage  *s3Mocks.MockS3
	events   *eventMocks.MockPublisher
	cache    *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, *bookingMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	set := &bookingMockSet{
		repo:     bookingMocks.NewMockBooking(ctrl),
		courts:   courtMocks.NewMockCourt(ctrl),
		refunds:  refundMocks.NewMockRefund(ctrl),
		schedule: scheduleServiceMocks.NewMockSchedule(ctrl),
		storage:  s3Mocks.NewMockS3(ctrl),
		events:   eventMocks.NewMockPublisher(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.HoldTimeoutMin = 30
	cfg.Booking.OpenHour = 8
	cfg.Booking.CloseHour = 22
	cfg.Booking.SweepBatchLimit = 100

	calendar, err := slot.New(cfg.Booking.OpenHour, cfg.Booking.CloseHour)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}

	set.schedule.EXPECT().Calendar().Return(calendar).AnyTimes()
	set.schedule.EXPECT().InvalidateDay(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(set.repo, set.courts, set.refunds, set.schedule, set.storage, set.events, cfg, set.cache, mocks.NewOtel())

	return svc, set
}

// passTx runs the transactional closure with a nil handle, standing in for a
// committed transaction.
func passTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

func userContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func futureDate() string {
	return timezone.Now().AddDate(0, 0, 7).Format(slot.DateFormat)
}

func pendingBooking(date string) model.Booking {
	return model.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		CourtID:       "court-1",
		BookingDate:   date,
		StartTime:     "10:00",
		EndTime:       "12:00",
		TotalPrice:    160000,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now().Add(-10 * time.Minute),
			CreatedBy: "user-1",
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	activeCourt := courtModel.Court{
		ID:         "court-1",
		Name:       "Lapangan 1",
		HourlyRate: 80000,
		Active:     true,
	}

	t.Run("claims slots and stores the pending hold", func(t *testing.T) {
		svc, set := newBookingService(t)
		date := futureDate()

		set.courts.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeCourt, nil)
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.schedule.EXPECT().
			ClaimTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				assert.Equal(t, model.StatusPending, b.Status)
				assert.Equal(t, model.PaymentPending, b.PaymentStatus)
				assert.Equal(t, int64(160000), b.TotalPrice)

				return nil
			})
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCreated, gomock.Any(), gomock.Any())

		res, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: date,
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, "user-1", res.UserID)
	})

	t.Run("conflicting claim rolls back without an insert", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.courts.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeCourt, nil)
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.schedule.EXPECT().
			ClaimTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.Conflict("slot 10:00 is not available"))

		_, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: futureDate(),
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("retrying a held range returns the existing hold", func(t *testing.T) {
		svc, set := newBookingService(t)
		date := futureDate()
		held := pendingBooking(date)

		set.courts.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeCourt, nil)
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(held, nil)

		res, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: date,
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, held.ID, res.ID)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: "2020-01-01",
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects slots outside operating hours", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: futureDate(),
			StartTime:   "06:00",
			EndTime:     "08:00",
		})

		assert.Error(t, err)
	})

	t.Run("rejects inactive court", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.courts.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(courtModel.Court{ID: "court-1", Active: false}, nil)

		_, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "court-1",
			BookingDate: futureDate(),
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.Error(t, err)
	})

	t.Run("unknown court", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.courts.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(courtModel.Court{}, nil)

		_, err := svc.Create(userContext("user-1"), dto.CreateBookingRequest{
			CourtID:     "missing",
			BookingDate: futureDate(),
			StartTime:   "10:00",
			EndTime:     "12:00",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_SubmitPayment(t *testing.T) {
	t.Run("transfer payment uploads proof and marks paid", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.storage.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "image/png", gomock.Any()).
			Return("https://cdn.example.com/proof.png", nil)
		set.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
				assert.Equal(t, model.PaymentPaid, updated[model.FieldPaymentStatus])
				assert.Equal(t, "https://cdn.example.com/proof.png", updated[model.FieldProofOfPaymentURL])

				return nil
			})

		err := svc.SubmitPayment(userContext("user-1"), booking.ID, dto.SubmitPaymentRequest{
			PaymentMethod:  "Transfer Bank",
			ProofOfPayment: "data:image/png;base64,aGVsbG8=",
		})

		assert.NoError(t, err)
	})

	t.Run("on-site payment stays pending", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
				_, touched := updated[model.FieldPaymentStatus]
				assert.False(t, touched)
				assert.Equal(t, model.PaymentMethodOnSite, updated[model.FieldPaymentMethod])

				return nil
			})

		err := svc.SubmitPayment(userContext("user-1"), booking.ID, dto.SubmitPaymentRequest{
			PaymentMethod: model.PaymentMethodOnSite,
		})

		assert.NoError(t, err)
	})

	t.Run("transfer without proof is rejected", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.SubmitPayment(userContext("user-1"), booking.ID, dto.SubmitPaymentRequest{
			PaymentMethod: "Transfer Bank",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("other users cannot pay someone else's booking", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.SubmitPayment(userContext("intruder"), booking.ID, dto.SubmitPaymentRequest{
			PaymentMethod: model.PaymentMethodOnSite,
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_SetStatus(t *testing.T) {
	t.Run("confirming a paid booking projects booked slots", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.PaymentStatus = model.PaymentPaid

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updated map[string]any, _ any) error {
				assert.Equal(t, model.StatusConfirmed, updated[model.FieldStatus])

				return nil
			})
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingConfirmed, gomock.Any(), gomock.Any())

		err := svc.SetStatus(adminContext(), booking.ID, dto.SetStatusRequest{Status: model.StatusConfirmed})

		assert.NoError(t, err)
	})

	t.Run("confirming an unpaid booking requires payment", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.SetStatus(adminContext(), booking.ID, dto.SetStatusRequest{Status: model.StatusConfirmed})

		assert.Error(t, err)
		assert.Equal(t, http.StatusPaymentRequired, failure.GetCode(err))
	})

	t.Run("finished booking rejects further transitions", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.Status = model.StatusFinished

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.SetStatus(adminContext(), booking.ID, dto.SetStatusRequest{Status: model.StatusCancelled})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("cancelling a paid booking opens a refund", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.Status = model.StatusConfirmed
		booking.PaymentStatus = model.PaymentPaid

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.refunds.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r refundModel.Refund) error {
				assert.Equal(t, booking.ID, r.BookingID)
				assert.Equal(t, booking.TotalPrice, r.Amount)
				assert.Equal(t, refundModel.StatusPending, r.Status)

				return nil
			})
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any())

		err := svc.SetStatus(adminContext(), booking.ID, dto.SetStatusRequest{Status: model.StatusCancelled})

		assert.NoError(t, err)
	})

	t.Run("cancelling an unpaid booking opens no refund", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any())

		err := svc.SetStatus(adminContext(), booking.ID, dto.SetStatusRequest{Status: model.StatusCancelled})

		assert.NoError(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("owner cancels a paid booking with refund details", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.PaymentStatus = model.PaymentPaid

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.refunds.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r refundModel.Refund) error {
				assert.Equal(t, "BCA", r.RefundMethod)
				assert.Equal(t, "1234567890", r.AccountNumber)

				return nil
			})
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any())

		err := svc.Cancel(userContext("user-1"), booking.ID, dto.CancelBookingRequest{
			RefundMethod:  "BCA",
			AccountNumber: "1234567890",
		})

		assert.NoError(t, err)
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.Cancel(userContext("intruder"), booking.ID, dto.CancelBookingRequest{})

		assert.Error(t, err)
	})
}

func TestBookingService_ExpireStaleHolds(t *testing.T) {
	t.Run("cancels expired holds and frees their slots", func(t *testing.T) {
		svc, set := newBookingService(t)
		date := futureDate()

		first := pendingBooking(date)
		second := pendingBooking(date)
		second.ID = "booking-2"
		second.StartTime = "14:00"
		second.EndTime = "15:00"

		set.repo.EXPECT().
			GetExpiredHolds(gomock.Any(), gomock.Any(), 100).
			Return([]model.Booking{first, second}, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx).
			Times(2)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updated map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, updated[model.FieldStatus])
				assert.Equal(t, model.PaymentFailed, updated[model.FieldPaymentStatus])

				return nil
			}).
			Times(2)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any()).
			Times(2)

		swept, err := svc.ExpireStaleHolds(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, swept)
	})

	t.Run("a hold with a failed transfer is swept and its slots freed", func(t *testing.T) {
		svc, set := newBookingService(t)

		booking := pendingBooking(futureDate())
		booking.PaymentStatus = model.PaymentFailed

		set.repo.EXPECT().
			GetExpiredHolds(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{booking}, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updated map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, updated[model.FieldStatus])
				assert.Equal(t, model.PaymentFailed, updated[model.FieldPaymentStatus])

				return nil
			})
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, proj scheduleService.Projection) error {
				assert.Equal(t, scheduleModel.StatusAvailable, proj.Status)

				return nil
			})
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ string, _ string, payload any) {
				event, ok := payload.(events.BookingEvent)
				assert.True(t, ok)
				assert.Equal(t, events.ReasonHoldExpired, event.Reason)
			})

		swept, err := svc.ExpireStaleHolds(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, swept)
	})

	t.Run("a failing hold does not block the rest of the batch", func(t *testing.T) {
		svc, set := newBookingService(t)
		date := futureDate()

		first := pendingBooking(date)
		second := pendingBooking(date)
		second.ID = "booking-2"

		set.repo.EXPECT().
			GetExpiredHolds(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{first, second}, nil)

		failing := set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			Return(errors.New("deadlock detected"))
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx).
			After(failing)
		set.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.events.EXPECT().
			Publish(gomock.Any(), events.TopicBookingCancelled, gomock.Any(), gomock.Any())

		swept, err := svc.ExpireStaleHolds(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, swept)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.repo.EXPECT().
			GetExpiredHolds(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		swept, err := svc.ExpireStaleHolds(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, swept)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("owner reads own booking on cache miss", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		set.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		res, err := svc.Get(userContext("user-1"), booking.ID)

		assert.NoError(t, err)
		assert.Equal(t, booking.ID, res.ID)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(userContext("user-1"), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_SetPaymentStatus(t *testing.T) {
	t.Run("cashier confirms on-site payment", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.PaymentMethod = model.PaymentMethodOnSite

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
				assert.Equal(t, model.PaymentPaid, updated[model.FieldPaymentStatus])

				return nil
			})

		err := svc.SetPaymentStatus(adminContext(), booking.ID, dto.SetPaymentStatusRequest{PaymentStatus: model.PaymentPaid})

		assert.NoError(t, err)
	})

	t.Run("illegal payment transition", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.PaymentStatus = model.PaymentFailed

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.SetPaymentStatus(adminContext(), booking.ID, dto.SetPaymentStatusRequest{PaymentStatus: model.PaymentPaid})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestBookingService_Purge(t *testing.T) {
	t.Run("active booking frees its slots before deletion", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.schedule.EXPECT().
			ProjectTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		set.repo.EXPECT().
			DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Purge(adminContext(), booking.ID)

		assert.NoError(t, err)
	})

	t.Run("terminal booking deletes without projection", func(t *testing.T) {
		svc, set := newBookingService(t)
		booking := pendingBooking(futureDate())
		booking.Status = model.StatusCancelled

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		set.repo.EXPECT().
			InTx(gomock.Any(), gomock.Any()).
			DoAndReturn(passTx)
		set.repo.EXPECT().
			DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Purge(adminContext(), booking.ID)

		assert.NoError(t, err)
	})
}

// Derived projection statuses stay in lockstep with booking transitions.
func TestBookingService_ProjectionStatusMapping(t *testing.T) {
	assert.Equal(t, scheduleModel.StatusPending, scheduleModel.DeriveStatus(model.StatusPending, model.PaymentPending))
	assert.Equal(t, scheduleModel.StatusPending, scheduleModel.DeriveStatus(model.StatusPending, model.PaymentPaid))
	assert.Equal(t, scheduleModel.StatusBooked, scheduleModel.DeriveStatus(model.StatusConfirmed, model.PaymentPaid))
	assert.Equal(t, scheduleModel.StatusAvailable, scheduleModel.DeriveStatus(model.StatusCancelled, model.PaymentPaid))
	assert.Equal(t, scheduleModel.StatusAvailable, scheduleModel.DeriveStatus(model.StatusFinished, model.PaymentPaid))
}
