package dto_test

import (
	"testing"

	"courtside/internal/domains/booking/model"
	"courtside/internal/domains/booking/model/dto"
	"courtside/internal/domains/schedule/slot"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		CourtID:     "court-1",
		BookingDate: "2026-09-05",
		StartTime:   "10:00",
		EndTime:     "12:00",
	}

	userID := "test-user-id"
	booking := req.ToModel(userID, 10, 12, 80000)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, req.CourtID, booking.CourtID)
	assert.Equal(t, req.BookingDate, booking.BookingDate)
	assert.Equal(t, req.StartTime, booking.StartTime)
	assert.Equal(t, req.EndTime, booking.EndTime)
	assert.Equal(t, int64(160000), booking.TotalPrice, "two hours at 80000 each")
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, userID, booking.CreatedBy)
	assert.False(t, booking.CreatedAt.IsZero(), "expected CreatedAt to be set")
}

func TestCreateBookingRequest_ValidateSlotRange(t *testing.T) {
	cal, err := slot.New(8, 22)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     dto.CreateBookingRequest
		start   int
		end     int
		wantErr bool
	}{
		{
			name: "valid two hour range",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "2026-09-05",
				StartTime:   "10:00",
				EndTime:     "12:00",
			},
			start: 10,
			end:   12,
		},
		{
			name: "start before opening",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "2026-09-05",
				StartTime:   "06:00",
				EndTime:     "08:00",
			},
			wantErr: true,
		},
		{
			name: "end after closing",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "2026-09-05",
				StartTime:   "21:00",
				EndTime:     "23:00",
			},
			wantErr: true,
		},
		{
			name: "inverted range",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "2026-09-05",
				StartTime:   "12:00",
				EndTime:     "10:00",
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "05-09-2026",
				StartTime:   "10:00",
				EndTime:     "11:00",
			},
			wantErr: true,
		},
		{
			name: "non hour-aligned start",
			req: dto.CreateBookingRequest{
				CourtID:     "court-1",
				BookingDate: "2026-09-05",
				StartTime:   "10:30",
				EndTime:     "11:30",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.req.ValidateSlotRange(cal)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	booking := model.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		CourtID:       "court-1",
		BookingDate:   "2026-09-05",
		StartTime:     "10:00",
		EndTime:       "12:00",
		TotalPrice:    160000,
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		PaymentMethod: "BCA",
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "user-1",
			ModifiedBy: "admin-1",
		},
	}

	var response dto.BookingResponse
	response.FromModel(booking)

	assert.Equal(t, booking.ID, response.ID)
	assert.Equal(t, booking.UserID, response.UserID)
	assert.Equal(t, booking.TotalPrice, response.TotalPrice)
	assert.Equal(t, booking.Status, response.Status)
	assert.Equal(t, booking.PaymentStatus, response.PaymentStatus)
	assert.Equal(t, booking.PaymentMethod, response.PaymentMethod)
	assert.Equal(t, booking.ModifiedBy, response.ModifiedBy)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	models := []model.Booking{
		{ID: "booking-1", Status: model.StatusPending},
		{ID: "booking-2", Status: model.StatusConfirmed},
	}

	var response dto.GetBookingsResponse
	response.FromModels(models, 12, 10)

	assert.Len(t, response.Bookings, 2)
	assert.Equal(t, 12, response.TotalData)
	assert.Equal(t, 2, response.TotalPage)
	assert.Equal(t, "booking-1", response.Bookings[0].ID)
}
