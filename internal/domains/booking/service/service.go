package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/infras/otel"
	"courtside/infras/s3"
	"courtside/internal/domains/booking/model"
	"courtside/internal/domains/booking/model/dto"
	"courtside/internal/domains/booking/repository"
	courtModel "courtside/internal/domains/court/model"
	courtRepo "courtside/internal/domains/court/repository"
	refundModel "courtside/internal/domains/refund/model"
	refundRepo "courtside/internal/domains/refund/repository"
	scheduleModel "courtside/internal/domains/schedule/model"
	scheduleService "courtside/internal/domains/schedule/service"
	"courtside/internal/domains/schedule/slot"
	"courtside/internal/events"
	"courtside/shared"
	"courtside/shared/base64"
	"courtside/shared/cache"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/failure"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	SubmitPayment(ctx context.Context, id string, req dto.SubmitPaymentRequest) error
	SetStatus(ctx context.Context, id string, req dto.SetStatusRequest) error
	SetPaymentStatus(ctx context.Context, id string, req dto.SetPaymentStatusRequest) error
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) error
	ExpireStaleHolds(ctx context.Context) (int, error)
	Purge(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	courts   courtRepo.Court
	refunds  refundRepo.Refund
	schedule scheduleService.Schedule
	storage  s3.S3
	events   events.Publisher
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	courts courtRepo.Court,
	refunds refundRepo.Refund,
	schedule scheduleService.Schedule,
	storage s3.S3,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		courts:   courts,
		refunds:  refunds,
		schedule: schedule,
		storage:  storage,
		events:   publisher,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create places a pending hold on the requested slot range. The hold and its
// projection rows commit atomically; a conflicting concurrent claim rolls the
// whole thing back with a conflict failure.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	startHour, endHour, err := req.ValidateSlotRange(s.schedule.Calendar())
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	past, err := s.schedule.Calendar().InPast(req.BookingDate, startHour, timezone.Now())
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if past {
		return res, failure.BadRequestFromString("booking date and time must be in the future") // nolint:wrapcheck
	}

	court, err := s.courts.Get(ctx, shared.FilterByID(req.CourtID, courtModel.FieldID, courtModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get court for booking")

		return res, fmt.Errorf("failed to get court for booking: %w", err)
	}

	if court.ID == constant.Empty {
		return res, failure.NotFound("court not found") // nolint:wrapcheck
	}

	if !court.Active {
		return res, failure.BadRequestFromString("court is not open for booking") // nolint:wrapcheck
	}

	existing, err := s.repo.Get(ctx, sameHoldFilter(user, req))
	if err != nil {
		log.Error().Err(err).Msg("failed to check for an existing hold")

		return res, fmt.Errorf("failed to check for an existing hold: %w", err)
	}

	// A retried create on a range the caller already holds returns the
	// pending hold instead of fighting its own slots for a conflict.
	if existing.ID != constant.Empty {
		res.FromModel(existing)

		return res, nil
	}

	booking := req.ToModel(user, startHour, endHour, court.HourlyRate)

	err = s.repo.InTx(ctx, func(sqltx *sqlx.Tx) error {
		proj := s.projection(&booking, startHour, endHour)
		if err := s.schedule.ClaimTx(ctx, sqltx, proj); err != nil {
			return err // nolint:wrapcheck
		}

		return s.repo.InsertTx(ctx, sqltx, booking) // nolint:wrapcheck
	})
	if err != nil {
		return res, err
	}

	s.invalidate(ctx, booking)
	s.publish(ctx, events.TopicBookingCreated, &booking, "")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
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

// SubmitPayment attaches the user's payment to a pending hold. Transfer
// methods require a proof image and mark the booking paid immediately; paying
// at the venue leaves the payment pending for the cashier to confirm.
func (s *serviceImpl) SubmitPayment(ctx context.Context, id string, req dto.SubmitPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SubmitPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending {
		return failure.UnprocessableEntity("payment can only be submitted for a pending booking") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updated := map[string]any{
		model.FieldPaymentMethod: req.PaymentMethod,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.PaymentMethod != model.PaymentMethodOnSite {
		if err = booking.ValidatePaymentTransition(model.PaymentPaid); err != nil {
			return err
		}

		if req.ProofOfPayment == constant.Empty {
			return failure.BadRequestFromString("proof of payment is required for transfer payments") // nolint:wrapcheck
		}

		proofURL, err := s.uploadProof(ctx, booking.ID, req.ProofOfPayment)
		if err != nil {
			return err
		}

		updated[model.FieldPaymentStatus] = model.PaymentPaid
		updated[model.FieldProofOfPaymentURL] = proofURL
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to submit booking payment")

		return fmt.Errorf("failed to submit booking payment: %w", err)
	}

	s.invalidate(ctx, booking)

	return nil
}

// SetStatus drives the admin side of the lifecycle. Confirmation requires a
// completed payment, and cancelling a paid booking opens a refund.
func (s *serviceImpl) SetStatus(ctx context.Context, id string, req dto.SetStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	return s.transition(ctx, booking, req.Status, constant.Empty, dto.CancelBookingRequest{}, events.ReasonAdminCancelled)
}

// Cancel lets the owner abandon a pending or confirmed booking, supplying the
// refund destination when the booking is already paid.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	return s.transition(ctx, booking, model.StatusCancelled, constant.Empty, req, events.ReasonUserCancelled)
}

// SetPaymentStatus is the cashier path: confirming an on-site payment or
// flagging a failed transfer.
func (s *serviceImpl) SetPaymentStatus(ctx context.Context, id string, req dto.SetPaymentStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetPaymentStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = booking.ValidatePaymentTransition(req.PaymentStatus); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updated := map[string]any{
		model.FieldPaymentStatus: req.PaymentStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to set booking payment status")

		return fmt.Errorf("failed to set booking payment status: %w", err)
	}

	s.invalidate(ctx, booking)

	return nil
}

// ExpireStaleHolds cancels unpaid pending bookings older than the hold
// timeout and frees their slots. Each booking is swept in its own
// transaction, so one failure never blocks the rest of the batch; bookings
// already swept by a competing instance simply stop matching the query.
func (s *serviceImpl) ExpireStaleHolds(ctx context.Context) (swept int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExpireStaleHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	cutoff := timezone.Now().Add(-time.Duration(s.cfg.Booking.HoldTimeoutMin) * time.Minute)

	holds, err := s.repo.GetExpiredHolds(ctx, cutoff, s.cfg.Booking.SweepBatchLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get expired booking holds")

		return 0, fmt.Errorf("failed to get expired booking holds: %w", err)
	}

	for i := range holds {
		booking := holds[i]

		if sweepErr := s.expireHold(ctx, booking); sweepErr != nil {
			log.Error().Err(sweepErr).Str("bookingID", booking.ID).Msg("failed to expire booking hold")

			continue
		}

		swept++
	}

	if swept > 0 {
		log.Info().Int("swept", swept).Msg("expired stale booking holds")
	}

	return swept, nil
}

// Purge permanently removes a booking record and any slots it still owns.
func (s *serviceImpl) Purge(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Purge")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	startHour, endHour, err := bookingHours(&booking)
	if err != nil {
		return err
	}

	err = s.repo.InTx(ctx, func(sqltx *sqlx.Tx) error {
		if booking.Active() {
			proj := s.projection(&booking, startHour, endHour)
			proj.Status = scheduleModel.StatusAvailable

			if err := s.schedule.ProjectTx(ctx, sqltx, proj); err != nil {
				return err // nolint:wrapcheck
			}
		}

		return s.repo.DeleteTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName)) // nolint:wrapcheck
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, booking)

	return nil
}

// transition applies a lifecycle change and its side effects atomically:
// the booking row, the schedule projection, and the refund row when a paid
// booking is cancelled. An empty newPayment leaves the payment status alone.
func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, newStatus, newPayment string, refund dto.CancelBookingRequest, cancelReason string) (err error) {
	if err = booking.ValidateStatusTransition(newStatus); err != nil {
		return err
	}

	if newPayment != constant.Empty && newPayment != booking.PaymentStatus {
		if err = booking.ValidatePaymentTransition(newPayment); err != nil {
			return err
		}
	}

	startHour, endHour, err := bookingHours(&booking)
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.SystemActor
	}

	prev := booking
	booking.Status = newStatus

	if newPayment != constant.Empty {
		booking.PaymentStatus = newPayment
	}

	err = s.repo.InTx(ctx, func(sqltx *sqlx.Tx) error {
		updated := map[string]any{
			model.FieldStatus:        newStatus,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if newPayment != constant.Empty {
			updated[model.FieldPaymentStatus] = newPayment
		}

		if err := s.repo.UpdateTx(ctx, sqltx, updated, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return err // nolint:wrapcheck
		}

		proj := s.projection(&booking, startHour, endHour)
		if err := s.schedule.ProjectTx(ctx, sqltx, proj); err != nil {
			return err // nolint:wrapcheck
		}

		if newStatus == model.StatusCancelled && prev.PaymentStatus == model.PaymentPaid {
			return s.refunds.InsertTx(ctx, sqltx, refundModel.Refund{
				ID:            uuid.NewString(),
				BookingID:     booking.ID,
				UserID:        booking.UserID,
				Amount:        booking.TotalPrice,
				RefundMethod:  refund.RefundMethod,
				AccountNumber: refund.AccountNumber,
				Status:        refundModel.StatusPending,
				Metadata: gModel.Metadata{
					CreatedAt:  timezone.Now(),
					ModifiedAt: timezone.Now(),
					CreatedBy:  user,
					ModifiedBy: user,
				},
			}) // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, booking)

	switch newStatus {
	case model.StatusConfirmed:
		s.publish(ctx, events.TopicBookingConfirmed, &booking, "")
	case model.StatusCancelled:
		s.publish(ctx, events.TopicBookingCancelled, &booking, cancelReason)
	case model.StatusFinished:
		s.publish(ctx, events.TopicBookingFinished, &booking, "")
	}

	return nil
}

// expireHold cancels one stale hold through the same validated transition as
// a user or admin cancellation, flagging the unfinished payment as failed.
func (s *serviceImpl) expireHold(ctx context.Context, booking model.Booking) error {
	return s.transition(ctx, booking, model.StatusCancelled, model.PaymentFailed, dto.CancelBookingRequest{}, events.ReasonHoldExpired)
}

func (s *serviceImpl) uploadProof(ctx context.Context, bookingID, proof string) (string, error) {
	data, err := base64.Decode(proof)
	if err != nil {
		return constant.Empty, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	contentType := base64.GetContentType(proof)
	fileName := fmt.Sprintf("%s-%s", bookingID, uuid.NewString())

	url, err := s.storage.UploadFileBytes(ctx, s.cfg.Booking.ProofBucket, s.cfg.Booking.ProofDirectory, fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload proof of payment")

		return constant.Empty, fmt.Errorf("failed to upload proof of payment: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// getOwned restricts the lookup to the caller's own bookings; admins see all.
func (s *serviceImpl) getOwned(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return booking, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if booking.UserID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) projection(booking *model.Booking, startHour, endHour int) scheduleService.Projection {
	return scheduleService.Projection{
		CourtID:     booking.CourtID,
		Date:        booking.BookingDate,
		StartHour:   startHour,
		EndHour:     endHour,
		Status:      scheduleModel.DeriveStatus(booking.Status, booking.PaymentStatus),
		UserID:      booking.UserID,
		DisplayName: displayName(booking.CreatedBy, booking.UserID),
		Actor:       booking.UserID,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	s.schedule.InvalidateDay(ctx, booking.CourtID, booking.BookingDate)
}

func (s *serviceImpl) publish(ctx context.Context, topic string, booking *model.Booking, reason string) {
	s.events.Publish(ctx, topic, booking.ID, events.BookingEvent{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		CourtID:       booking.CourtID,
		BookingDate:   booking.BookingDate,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		Reason:        reason,
		OccurredAt:    timezone.Now(),
	})
}

// sameHoldFilter matches the caller's own pending hold on the exact court,
// date and slot range.
func sameHoldFilter(userID string, req dto.CreateBookingRequest) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldCourtID, Value: req.CourtID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldBookingDate, Value: req.BookingDate, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartTime, Value: req.StartTime, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldEndTime, Value: req.EndTime, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func bookingHours(booking *model.Booking) (int, int, error) {
	startHour, err := slot.ParseHour(booking.StartTime)
	if err != nil {
		return 0, 0, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	endHour, err := slot.ParseHour(booking.EndTime)
	if err != nil {
		return 0, 0, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	return startHour, endHour, nil
}

// displayName keeps personal emails off the public schedule board.
func displayName(createdBy, userID string) string {
	name := createdBy
	if name == constant.Empty {
		name = userID
	}

	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}

	return name
}
