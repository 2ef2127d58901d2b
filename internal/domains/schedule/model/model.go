package model

import (
	"courtside/shared/model"
)

const (
	TableName  = "schedules"
	EntityName = "schedule"

	FieldID          = "id"
	FieldCourtID     = "court_id"
	FieldDate        = "date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldUserID      = "user_id"
	FieldDisplayName = "display_name"
	FieldOverride    = "override"
)

// Schedule row statuses. available is never stored: a slot with no row is
// available by definition, so freeing a slot deletes its row.
const (
	StatusAvailable   = "available"
	StatusPending     = "pending"
	StatusBooked      = "booked"
	StatusMaintenance = "maintenance"
	StatusHoliday     = "holiday"
)

// OverrideStatuses are the admin-set statuses that bypass booking-derived
// projection and survive booking transitions.
var OverrideStatuses = []string{StatusMaintenance, StatusHoliday}

// Schedule is one projected court-hour. It is derived state: the owning
// booking (or an admin override) is authoritative, never the row itself.
type Schedule struct {
	ID          string `db:"id"`
	CourtID     string `db:"court_id"`
	Date        string `db:"date"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	Status      string `db:"status"`
	UserID      string `db:"user_id"`
	DisplayName string `db:"display_name"`
	Override    bool   `db:"override"`
	model.Metadata
}

// DeriveStatus is the single status-mapping table: it computes the schedule
// status a booking projects onto each of its slots from the booking's
// (status, payment_status) pair. Every projection write goes through this
// function, so two writers can never disagree on the mapping.
func DeriveStatus(bookingStatus, paymentStatus string) string {
	switch bookingStatus {
	case "pending":
		// A paid-but-unconfirmed hold still shows as pending: confirmation
		// is an explicit admin step, but the slot must not look free.
		return StatusPending
	case "confirmed":
		return StatusBooked
	default:
		// cancelled, finished: the slot no longer belongs to this booking.
		return StatusAvailable
	}
}
