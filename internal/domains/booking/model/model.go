package model

import (
	"slices"

	"courtside/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldCourtID           = "court_id"
	FieldBookingDate       = "booking_date"
	FieldStartTime         = "start_time"
	FieldEndTime           = "end_time"
	FieldTotalPrice        = "total_price"
	FieldStatus            = "status"
	FieldPaymentStatus     = "payment_status"
	FieldPaymentMethod     = "payment_method"
	FieldProofOfPaymentURL = "proof_of_payment_url"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusFinished  = "finished"
)

const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentCancelled = "cancelled"
	PaymentFailed    = "failed"
)

// PaymentMethodOnSite keeps payment_status pending until the cashier confirms;
// every other method is treated as an immediate transfer with proof attached.
const PaymentMethodOnSite = "Bayar di Tempat"

// ActiveStatuses are the booking statuses that own schedule slots. At most one
// booking in one of these statuses may cover a given (court, date, hour).
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID                string `db:"id"`
	UserID            string `db:"user_id"`
	CourtID           string `db:"court_id"`
	BookingDate       string `db:"booking_date"`
	StartTime         string `db:"start_time"`
	EndTime           string `db:"end_time"`
	TotalPrice        int64  `db:"total_price"`
	Status            string `db:"status"`
	PaymentStatus     string `db:"payment_status"`
	PaymentMethod     string `db:"payment_method"`
	ProofOfPaymentURL string `db:"proof_of_payment_url"`
	model.Metadata
}

func (b *Booking) Active() bool {
	return slices.Contains(ActiveStatuses, b.Status)
}
