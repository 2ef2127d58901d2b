package model

import (
	"fmt"
	"slices"

	"courtside/shared/failure"
	"courtside/shared/model"
)

const (
	TableName  = "refunds"
	EntityName = "refund"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldUserID        = "user_id"
	FieldAmount        = "amount"
	FieldRefundMethod  = "refund_method"
	FieldAccountNumber = "account_number"
	FieldStatus        = "status"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

var statusTransitions = map[string][]string{
	StatusPending:   {StatusCompleted, StatusRejected},
	StatusCompleted: {},
	StatusRejected:  {},
}

// Refund is created exactly once, when a paid booking is cancelled. The
// unique constraint on booking_id enforces the once.
type Refund struct {
	ID            string `db:"id"`
	BookingID     string `db:"booking_id"`
	UserID        string `db:"user_id"`
	Amount        int64  `db:"amount"`
	RefundMethod  string `db:"refund_method"`
	AccountNumber string `db:"account_number"`
	Status        string `db:"status"`
	model.Metadata
}

func (r *Refund) ValidateStatusTransition(newStatus string) error {
	allowed, ok := statusTransitions[r.Status]
	if !ok || !slices.Contains(allowed, newStatus) {
		return failure.UnprocessableEntity(
			fmt.Sprintf("refund status cannot change from %s to %s", r.Status, newStatus))
	}

	return nil
}
