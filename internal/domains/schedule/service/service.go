package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/infras/otel"
	"courtside/internal/domains/schedule/model"
	"courtside/internal/domains/schedule/model/dto"
	"courtside/internal/domains/schedule/repository"
	"courtside/internal/domains/schedule/slot"
	"courtside/internal/events"
	"courtside/shared"
	"courtside/shared/cache"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/failure"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"
)

const (
	cacheGridSchedule = "schedule:grid"

	gridDays = 7
)

// Projection describes the slot range a booking projects onto the calendar.
// Status is the derived schedule status; StatusAvailable frees the range
// instead of writing rows.
type Projection struct {
	CourtID     string
	Date        string
	StartHour   int
	EndHour     int
	Status      string
	UserID      string
	DisplayName string
	Actor       string
}

type Schedule interface {
	Resolve(ctx context.Context, req dto.ResolveRequest) (dto.SlotResponse, error)
	Grid(ctx context.Context, courtID, dateFrom string) (dto.WeekGridResponse, error)
	ClaimTx(ctx context.Context, sqltx *sqlx.Tx, proj Projection) error
	ProjectTx(ctx context.Context, sqltx *sqlx.Tx, proj Projection) error
	LockRangeTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startHour, endHour int) ([]model.Schedule, error)
	SetOverride(ctx context.Context, req dto.SetOverrideRequest) error
	ClearOverride(ctx context.Context, req dto.ClearOverrideRequest) error
	InvalidateDay(ctx context.Context, courtID, date string)
	Calendar() slot.Calendar
}

type serviceImpl struct {
	repo      repository.Schedule
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	calendar  slot.Calendar
}

func New(repo repository.Schedule, publisher events.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) (Schedule, error) {
	calendar, err := slot.New(cfg.Booking.OpenHour, cfg.Booking.CloseHour)
	if err != nil {
		return nil, fmt.Errorf("failed to build slot calendar: %w", err)
	}

	return &serviceImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		calendar:  calendar,
	}, nil
}

func (s *serviceImpl) Calendar() slot.Calendar {
	return s.calendar
}

// Resolve answers the state of one court-hour. A slot with no stored row is
// available; stored rows carry either a booking-derived status or an admin
// override.
func (s *serviceImpl) Resolve(ctx context.Context, req dto.ResolveRequest) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	hour, err := slot.ParseHour(req.StartTime)
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if !s.calendar.Contains(hour) {
		return res, failure.BadRequestFromString("start time is outside operating hours") // nolint:wrapcheck
	}

	if _, err = slot.ParseDate(req.Date); err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	row, err := s.repo.Get(ctx, filterBySlot(req.CourtID, req.Date, req.StartTime))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve schedule slot")

		return res, fmt.Errorf("failed to resolve schedule slot: %w", err)
	}

	if row.ID == constant.Empty {
		res = availableSlot(req.CourtID, req.Date, hour)

		return res, nil
	}

	res.FromModel(row)

	return res, nil
}

// Grid builds the weekly availability view starting at dateFrom: seven days,
// one entry per operating hour, absent rows filled in as available.
func (s *serviceImpl) Grid(ctx context.Context, courtID, dateFrom string) (res dto.WeekGridResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Grid")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := slot.ParseDate(dateFrom)
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGridSchedule, courtID, dateFrom)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedule grid")

		return res, nil
	}

	dates := make([]string, gridDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(slot.DateFormat)
	}

	rows, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filterByDates(courtID, dates))
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule rows")

		return res, fmt.Errorf("failed to get schedule rows: %w", err)
	}

	stored := make(map[string]model.Schedule, len(rows))
	for _, row := range rows {
		stored[shared.BuildCacheKey(row.Date, row.StartTime)] = row
	}

	res.CourtID = courtID
	res.Days = make([]dto.GridResponse, gridDays)

	for i, date := range dates {
		day := dto.GridResponse{CourtID: courtID, Date: date}

		for _, hour := range s.calendar.Hours() {
			key := shared.BuildCacheKey(date, slot.FormatHour(hour))
			if row, ok := stored[key]; ok {
				var sr dto.SlotResponse

				sr.FromModel(row)
				day.Slots = append(day.Slots, sr)

				continue
			}

			day.Slots = append(day.Slots, availableSlot(courtID, date, hour))
		}

		res.Days[i] = day
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedule grid to cache")
		}
	}()

	return res, nil
}

// LockRangeTx row-locks the stored rows covering [startHour, endHour) so a
// concurrent claim on the same court and date serialises behind this
// transaction.
func (s *serviceImpl) LockRangeTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startHour, endHour int) ([]model.Schedule, error) {
	slots, err := s.calendar.Expand(courtID, date, startHour, endHour)
	if err != nil {
		return nil, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	startTimes := make([]string, len(slots))
	for i, sl := range slots {
		startTimes[i] = sl.StartTime()
	}

	rows, err := s.repo.LockSlotsTx(ctx, sqltx, courtID, date, startTimes)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock slot range")

		return nil, fmt.Errorf("failed to lock slot range: %w", err)
	}

	return rows, nil
}

// ClaimTx takes first ownership of a slot range for a new booking. Existing
// rows in the range, booking-derived or override, mean the range is not free
// and the whole claim fails with a conflict. Rows are written with plain
// inserts so a concurrent claim on the same empty slots loses on the unique
// index instead of overwriting.
func (s *serviceImpl) ClaimTx(ctx context.Context, sqltx *sqlx.Tx, proj Projection) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClaimTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	slots, err := s.calendar.Expand(proj.CourtID, proj.Date, proj.StartHour, proj.EndHour)
	if err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	held, err := s.LockRangeTx(ctx, sqltx, proj.CourtID, proj.Date, proj.StartHour, proj.EndHour)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if len(held) > 0 {
		return failure.Conflict(fmt.Sprintf("slot %s on %s is not available", held[0].StartTime, held[0].Date)) // nolint:wrapcheck
	}

	for _, sl := range slots {
		row := model.Schedule{
			ID:          uuid.NewString(),
			CourtID:     sl.CourtID,
			Date:        sl.Date,
			StartTime:   sl.StartTime(),
			EndTime:     sl.EndTime(),
			Status:      proj.Status,
			UserID:      proj.UserID,
			DisplayName: proj.DisplayName,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  proj.Actor,
				ModifiedBy: proj.Actor,
			},
		}

		if err = s.repo.InsertSlotTx(ctx, sqltx, row); err != nil {
			return err // nolint:wrapcheck
		}
	}

	return nil
}

// ProjectTx rewrites the projection rows for a booking's slot range inside
// the caller's transaction. Override rows in the range are left untouched in
// both directions: a booking projection never rewrites an admin override. The
// caller owns commit and cache invalidation.
func (s *serviceImpl) ProjectTx(ctx context.Context, sqltx *sqlx.Tx, proj Projection) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProjectTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	slots, err := s.calendar.Expand(proj.CourtID, proj.Date, proj.StartHour, proj.EndHour)
	if err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if proj.Status == model.StatusAvailable {
		startTimes := make([]string, len(slots))
		for i, sl := range slots {
			startTimes[i] = sl.StartTime()
		}

		if err = s.repo.ReleaseSlotsTx(ctx, sqltx, proj.CourtID, proj.Date, startTimes); err != nil {
			log.Error().Err(err).Msg("failed to release projected slots")

			return fmt.Errorf("failed to release projected slots: %w", err)
		}

		return nil
	}

	held, err := s.LockRangeTx(ctx, sqltx, proj.CourtID, proj.Date, proj.StartHour, proj.EndHour)
	if err != nil {
		return err // nolint:wrapcheck
	}

	overridden := make(map[string]bool, len(held))
	for _, row := range held {
		if row.Override {
			overridden[row.StartTime] = true
		}
	}

	for _, sl := range slots {
		if overridden[sl.StartTime()] {
			continue
		}

		row := model.Schedule{
			ID:          uuid.NewString(),
			CourtID:     sl.CourtID,
			Date:        sl.Date,
			StartTime:   sl.StartTime(),
			EndTime:     sl.EndTime(),
			Status:      proj.Status,
			UserID:      proj.UserID,
			DisplayName: proj.DisplayName,
			Override:    false,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  proj.Actor,
				ModifiedBy: proj.Actor,
			},
		}

		if err = s.repo.UpsertTx(ctx, sqltx, row); err != nil {
			log.Error().Err(err).Msg("failed to project schedule slot")

			return fmt.Errorf("failed to project schedule slot: %w", err)
		}
	}

	return nil
}

// SetOverride marks a slot range as maintenance or holiday. Override rows are
// written outside any booking transaction and are never touched by
// booking-derived projection.
func (s *serviceImpl) SetOverride(ctx context.Context, req dto.SetOverrideRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetOverride")
	defer scope.End()
	defer scope.TraceIfError(err)

	startHour, endHour, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	slots, err := s.calendar.Expand(req.CourtID, req.Date, startHour, endHour)
	if err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	booked, err := s.repo.Exist(ctx, bookingRowsFilter(req.CourtID, req.Date, slots))
	if err != nil {
		log.Error().Err(err).Msg("failed to check overridden slots for bookings")

		return fmt.Errorf("failed to check overridden slots for bookings: %w", err)
	}

	// An override never hides a live booking; the booking has to be
	// cancelled first.
	if booked {
		return failure.Conflict("slot range has an active booking") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	for _, sl := range slots {
		row := model.Schedule{
			ID:        uuid.NewString(),
			CourtID:   sl.CourtID,
			Date:      sl.Date,
			StartTime: sl.StartTime(),
			EndTime:   sl.EndTime(),
			Status:    req.Status,
			Override:  true,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}

		if err = s.repo.Upsert(ctx, row); err != nil {
			log.Error().Err(err).Msg("failed to set schedule override")

			return fmt.Errorf("failed to set schedule override: %w", err)
		}
	}

	s.InvalidateDay(ctx, req.CourtID, req.Date)
	s.publishChange(ctx, req.CourtID, req.Date, req.StartTime, req.EndTime, req.Status)

	return nil
}

// ClearOverride removes override rows from a slot range. Booking-derived rows
// in the range are left alone.
func (s *serviceImpl) ClearOverride(ctx context.Context, req dto.ClearOverrideRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClearOverride")
	defer scope.End()
	defer scope.TraceIfError(err)

	startHour, endHour, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	slots, err := s.calendar.Expand(req.CourtID, req.Date, startHour, endHour)
	if err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	startTimes := make([]string, len(slots))
	for i, sl := range slots {
		startTimes[i] = sl.StartTime()
	}

	filter := filterByDates(req.CourtID, []string{req.Date})
	filter.Filters = append(filter.Filters,
		gDto.Filter{Field: model.FieldStartTime, Value: startTimes, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		gDto.Filter{Field: model.FieldOverride, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to clear schedule override")

		return fmt.Errorf("failed to clear schedule override: %w", err)
	}

	s.InvalidateDay(ctx, req.CourtID, req.Date)
	s.publishChange(ctx, req.CourtID, req.Date, req.StartTime, req.EndTime, model.StatusAvailable)

	return nil
}

// InvalidateDay drops every cached grid that could include the given date.
// Grids span a week, so the whole court prefix goes.
func (s *serviceImpl) InvalidateDay(ctx context.Context, courtID, _ string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGridSchedule, courtID))
	}()
}

func (s *serviceImpl) publishChange(ctx context.Context, courtID, date, startTime, endTime, status string) {
	s.publisher.Publish(ctx, events.TopicScheduleChanged, courtID, events.ScheduleEvent{
		CourtID:    courtID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     status,
		OccurredAt: timezone.Now(),
	})
}

func parseRange(startTime, endTime string) (int, int, error) {
	startHour, err := slot.ParseHour(startTime)
	if err != nil {
		return 0, 0, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	endHour, err := slot.ParseHour(endTime)
	if err != nil {
		return 0, 0, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	return startHour, endHour, nil
}

func availableSlot(courtID, date string, hour int) dto.SlotResponse {
	return dto.SlotResponse{
		CourtID:   courtID,
		Date:      date,
		StartTime: slot.FormatHour(hour),
		EndTime:   slot.FormatHour(hour + 1),
		Status:    model.StatusAvailable,
	}
}

// bookingRowsFilter matches the non-override rows in a slot range, the ones
// projected from pending or confirmed bookings.
func bookingRowsFilter(courtID, date string, slots []slot.Slot) gDto.FilterGroup {
	startTimes := make([]string, len(slots))
	for i, sl := range slots {
		startTimes[i] = sl.StartTime()
	}

	filter := filterByDates(courtID, []string{date})
	filter.Filters = append(filter.Filters,
		gDto.Filter{Field: model.FieldStartTime, Value: startTimes, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		gDto.Filter{Field: model.FieldOverride, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	return filter
}

func filterBySlot(courtID, date, startTime string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCourtID, Value: courtID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldDate, Value: date, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartTime, Value: startTime, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func filterByDates(courtID string, dates []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCourtID, Value: courtID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldDate, Value: dates, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	}
}
