package dto

import (
	"github.com/google/uuid"

	"courtside/internal/domains/booking/model"
	"courtside/internal/domains/schedule/slot"
	"courtside/shared"
	gDto "courtside/shared/dto"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"
)

type CreateBookingRequest struct {
	CourtID     string `json:"court_id"     validate:"required"`
	BookingDate string `json:"booking_date" validate:"required"`
	StartTime   string `json:"start_time"   validate:"required"`
	EndTime     string `json:"end_time"     validate:"required"`
}

// ToModel builds the pending booking. The caller supplies the hourly rate so
// the total is always priced server-side from the court record.
func (c *CreateBookingRequest) ToModel(user string, startHour, endHour int, hourlyRate int64) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		UserID:        user,
		CourtID:       c.CourtID,
		BookingDate:   c.BookingDate,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		TotalPrice:    hourlyRate * int64(endHour-startHour),
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type SubmitPaymentRequest struct {
	PaymentMethod  string `json:"payment_method"   validate:"required,max=50"`
	ProofOfPayment string `json:"proof_of_payment" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled finished"`
}

type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid cancelled failed"`
}

// CancelBookingRequest carries the user's refund destination. The fields are
// only meaningful when the booking is already paid.
type CancelBookingRequest struct {
	RefundMethod  string `json:"refund_method"  validate:"omitempty,max=50"`
	AccountNumber string `json:"account_number" validate:"omitempty,max=50"`
}

type BookingResponse struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	CourtID           string `json:"court_id"`
	BookingDate       string `json:"booking_date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	TotalPrice        int64  `json:"total_price"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	PaymentMethod     string `json:"payment_method,omitempty"`
	ProofOfPaymentURL string `json:"proof_of_payment_url,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.CourtID = mod.CourtID
	r.BookingDate = mod.BookingDate
	r.StartTime = mod.StartTime
	r.EndTime = mod.EndTime
	r.TotalPrice = mod.TotalPrice
	r.Status = mod.Status
	r.PaymentStatus = mod.PaymentStatus
	r.PaymentMethod = mod.PaymentMethod
	r.ProofOfPaymentURL = mod.ProofOfPaymentURL
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ValidateSlotRange parses and hour-aligns the requested range against the
// calendar, returning the start and end hours.
func (c *CreateBookingRequest) ValidateSlotRange(cal slot.Calendar) (startHour, endHour int, err error) {
	if _, err = slot.ParseDate(c.BookingDate); err != nil {
		return 0, 0, err
	}

	if startHour, err = slot.ParseHour(c.StartTime); err != nil {
		return 0, 0, err
	}

	if endHour, err = slot.ParseHour(c.EndTime); err != nil {
		return 0, 0, err
	}

	if _, err = cal.Expand(c.CourtID, c.BookingDate, startHour, endHour); err != nil {
		return 0, 0, err
	}

	return startHour, endHour, nil
}
