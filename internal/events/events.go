package events

import "time"

const (
	TopicBookingCreated   = "booking.created"
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingFinished  = "booking.finished"
	TopicRefundUpdated    = "refund.updated"
	TopicScheduleChanged  = "schedule.changed"
)

// BookingEvent is the payload for every booking lifecycle topic. Reason is
// set for cancellations only, distinguishing user cancellations from sweeped
// expired holds.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	CourtID       string    `json:"court_id"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const (
	ReasonUserCancelled  = "cancelled_by_user"
	ReasonAdminCancelled = "cancelled_by_admin"
	ReasonHoldExpired    = "hold_expired"
)

type RefundEvent struct {
	RefundID   string    `json:"refund_id"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ScheduleEvent struct {
	CourtID    string    `json:"court_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
