package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"courtside/config"
	"courtside/infras/otel/mocks"
	scheduleMocks "courtside/internal/domains/schedule/mocks"
	"courtside/internal/domains/schedule/model"
	"courtside/internal/domains/schedule/model/dto"
	"courtside/internal/domains/schedule/service"
	eventMocks "courtside/internal/events/mocks"
	cacheMocks "courtside/shared/cache/mocks"
	"courtside/shared/constant"
	"courtside/shared/failure"
)

func newScheduleService(t *testing.T) (service.Schedule, *scheduleMocks.MockSchedule, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockOtel := mocks.NewOtel()

	mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.OpenHour = 8
	cfg.Booking.CloseHour = 22

	svc, err := service.New(mockRepo, mockPublisher, cfg, mockCache, mockOtel)
	require.NoError(t, err)

	return svc, mockRepo, mockCache
}

func TestScheduleService_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.ResolveRequest
		setupMock  func(repo *scheduleMocks.MockSchedule)
		wantErr    bool
		wantStatus string
	}{
		{
			name: "stored row wins",
			req: dto.ResolveRequest{
				CourtID:   "court-1",
				Date:      "2026-09-05",
				StartTime: "10:00",
			},
			setupMock: func(repo *scheduleMocks.MockSchedule) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Schedule{
						ID:        "row-1",
						CourtID:   "court-1",
						Date:      "2026-09-05",
						StartTime: "10:00",
						EndTime:   "11:00",
						Status:    model.StatusBooked,
					}, nil)
			},
			wantStatus: model.StatusBooked,
		},
		{
			name: "absent row resolves to available",
			req: dto.ResolveRequest{
				CourtID:   "court-1",
				Date:      "2026-09-05",
				StartTime: "10:00",
			},
			setupMock: func(repo *scheduleMocks.MockSchedule) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Schedule{}, nil)
			},
			wantStatus: model.StatusAvailable,
		},
		{
			name: "start time outside operating hours",
			req: dto.ResolveRequest{
				CourtID:   "court-1",
				Date:      "2026-09-05",
				StartTime: "23:00",
			},
			setupMock: func(*scheduleMocks.MockSchedule) {},
			wantErr:   true,
		},
		{
			name: "start time not hour aligned",
			req: dto.ResolveRequest{
				CourtID:   "court-1",
				Date:      "2026-09-05",
				StartTime: "10:30",
			},
			setupMock: func(*scheduleMocks.MockSchedule) {},
			wantErr:   true,
		},
		{
			name: "repository error",
			req: dto.ResolveRequest{
				CourtID:   "court-1",
				Date:      "2026-09-05",
				StartTime: "10:00",
			},
			setupMock: func(repo *scheduleMocks.MockSchedule) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Schedule{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newScheduleService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Resolve(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.req.StartTime, res.StartTime)
		})
	}
}

func TestScheduleService_Grid(t *testing.T) {
	t.Run("fills absent slots as available across seven days", func(t *testing.T) {
		svc, mockRepo, mockCache := newScheduleService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Schedule{
				{
					ID:        "row-1",
					CourtID:   "court-1",
					Date:      "2026-09-05",
					StartTime: "10:00",
					EndTime:   "11:00",
					Status:    model.StatusPending,
				},
			}, nil)

		res, err := svc.Grid(context.Background(), "court-1", "2026-09-05")

		assert.NoError(t, err)
		assert.Len(t, res.Days, 7)
		assert.Equal(t, "2026-09-05", res.Days[0].Date)
		assert.Equal(t, "2026-09-11", res.Days[6].Date)

		// 14 operating hours per day, 08:00 through 21:00 starts.
		for _, day := range res.Days {
			assert.Len(t, day.Slots, 14)
		}

		assert.Equal(t, model.StatusAvailable, res.Days[0].Slots[0].Status)
		assert.Equal(t, "08:00", res.Days[0].Slots[0].StartTime)
		assert.Equal(t, model.StatusPending, res.Days[0].Slots[2].Status)
		assert.Equal(t, model.StatusAvailable, res.Days[1].Slots[2].Status)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		svc, _, mockCache := newScheduleService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.Grid(context.Background(), "court-1", "2026-09-05")

		assert.NoError(t, err)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, _, _ := newScheduleService(t)

		_, err := svc.Grid(context.Background(), "court-1", "05-09-2026")

		assert.Error(t, err)
	})
}

func TestScheduleService_ClaimTx(t *testing.T) {
	t.Run("inserts a row per hour when range is free", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			LockSlotsTx(gomock.Any(), gomock.Any(), "court-1", "2026-09-05", []string{"09:00", "10:00"}).
			Return(nil, nil)
		mockRepo.EXPECT().
			InsertSlotTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		err := svc.ClaimTx(context.Background(), nil, service.Projection{
			CourtID:     "court-1",
			Date:        "2026-09-05",
			StartHour:   9,
			EndHour:     11,
			Status:      model.StatusPending,
			UserID:      "user-1",
			DisplayName: "Budi",
			Actor:       "user-1",
		})

		assert.NoError(t, err)
	})

	t.Run("any held slot rejects the whole range", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			LockSlotsTx(gomock.Any(), gomock.Any(), "court-1", "2026-09-05", gomock.Any()).
			Return([]model.Schedule{
				{ID: "row-1", Date: "2026-09-05", StartTime: "10:00", Status: model.StatusMaintenance, Override: true},
			}, nil)

		err := svc.ClaimTx(context.Background(), nil, service.Projection{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartHour: 9,
			EndHour:   11,
			Status:    model.StatusPending,
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unique index race surfaces as conflict", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			LockSlotsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockRepo.EXPECT().
			InsertSlotTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.Conflict("slot already taken"))

		err := svc.ClaimTx(context.Background(), nil, service.Projection{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartHour: 9,
			EndHour:   10,
			Status:    model.StatusPending,
		})

		assert.Error(t, err)
	})
}

func TestScheduleService_ProjectTx(t *testing.T) {
	t.Run("upserts one row per hour", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		seen := map[string]model.Schedule{}

		mockRepo.EXPECT().
			LockSlotsTx(gomock.Any(), gomock.Any(), "court-1", "2026-09-05", []string{"09:00", "10:00", "11:00"}).
			Return(nil, nil)
		mockRepo.EXPECT().
			UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, row model.Schedule) error {
				seen[row.StartTime] = row

				return nil
			}).
			Times(3)

		err := svc.ProjectTx(context.Background(), nil, service.Projection{
			CourtID:     "court-1",
			Date:        "2026-09-05",
			StartHour:   9,
			EndHour:     12,
			Status:      model.StatusBooked,
			UserID:      "user-1",
			DisplayName: "Budi",
			Actor:       "user-1",
		})

		assert.NoError(t, err)
		assert.Len(t, seen, 3)

		row, ok := seen["10:00"]
		assert.True(t, ok)
		assert.Equal(t, "11:00", row.EndTime)
		assert.Equal(t, model.StatusBooked, row.Status)
		assert.Equal(t, "Budi", row.DisplayName)
		assert.False(t, row.Override)
	})

	t.Run("admin override rows are left in place", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		seen := map[string]model.Schedule{}

		mockRepo.EXPECT().
			LockSlotsTx(gomock.Any(), gomock.Any(), "court-1", "2026-09-05", []string{"09:00", "10:00", "11:00"}).
			Return([]model.Schedule{
				{ID: "row-1", CourtID: "court-1", Date: "2026-09-05", StartTime: "10:00", Status: model.StatusMaintenance, Override: true},
			}, nil)
		mockRepo.EXPECT().
			UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, row model.Schedule) error {
				seen[row.StartTime] = row

				return nil
			}).
			Times(2)

		err := svc.ProjectTx(context.Background(), nil, service.Projection{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartHour: 9,
			EndHour:   12,
			Status:    model.StatusBooked,
			UserID:    "user-1",
		})

		assert.NoError(t, err)
		assert.Contains(t, seen, "09:00")
		assert.Contains(t, seen, "11:00")
		assert.NotContains(t, seen, "10:00")
	})

	t.Run("available status releases rows instead of writing", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			ReleaseSlotsTx(gomock.Any(), gomock.Any(), "court-1", "2026-09-05", []string{"09:00", "10:00"}).
			Return(nil)

		err := svc.ProjectTx(context.Background(), nil, service.Projection{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartHour: 9,
			EndHour:   11,
			Status:    model.StatusAvailable,
		})

		assert.NoError(t, err)
	})

	t.Run("range outside window is rejected", func(t *testing.T) {
		svc, _, _ := newScheduleService(t)

		err := svc.ProjectTx(context.Background(), nil, service.Projection{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartHour: 6,
			EndHour:   9,
			Status:    model.StatusBooked,
		})

		assert.Error(t, err)
	})
}

func TestScheduleService_SetOverride(t *testing.T) {
	t.Run("writes override rows for each hour", func(t *testing.T) {
		svc, mockRepo, mockCache := newScheduleService(t)

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		mockRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row model.Schedule) error {
				assert.True(t, row.Override)
				assert.Equal(t, model.StatusMaintenance, row.Status)

				return nil
			}).
			Times(2)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		err := svc.SetOverride(ctx, dto.SetOverrideRequest{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartTime: "13:00",
			EndTime:   "15:00",
			Status:    model.StatusMaintenance,
		})

		assert.NoError(t, err)
	})

	t.Run("range with an active booking is rejected", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.SetOverride(context.Background(), dto.SetOverrideRequest{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartTime: "13:00",
			EndTime:   "15:00",
			Status:    model.StatusMaintenance,
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("repository error is surfaced", func(t *testing.T) {
		svc, mockRepo, _ := newScheduleService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		mockRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		err := svc.SetOverride(context.Background(), dto.SetOverrideRequest{
			CourtID:   "court-1",
			Date:      "2026-09-05",
			StartTime: "13:00",
			EndTime:   "14:00",
			Status:    model.StatusHoliday,
		})

		assert.Error(t, err)
	})
}

func TestScheduleService_ClearOverride(t *testing.T) {
	svc, mockRepo, mockCache := newScheduleService(t)

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockRepo.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil)

	err := svc.ClearOverride(context.Background(), dto.ClearOverrideRequest{
		CourtID:   "court-1",
		Date:      "2026-09-05",
		StartTime: "13:00",
		EndTime:   "15:00",
	})

	assert.NoError(t, err)
}
