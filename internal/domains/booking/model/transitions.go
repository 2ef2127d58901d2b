package model

import (
	"fmt"
	"slices"

	"courtside/shared/failure"
)

// statusTransitions is the booking lifecycle: pending -> confirmed -> finished,
// with cancellation allowed from pending and confirmed. Terminal states have
// no outgoing edges.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusFinished, StatusCancelled},
	StatusCancelled: {},
	StatusFinished:  {},
}

// paymentTransitions is the orthogonal payment sub-state: pending -> paid,
// pending -> failed, paid -> cancelled (on refund completion).
var paymentTransitions = map[string][]string{
	PaymentPending:   {PaymentPaid, PaymentFailed},
	PaymentPaid:      {PaymentCancelled},
	PaymentFailed:    {},
	PaymentCancelled: {},
}

// ValidateStatusTransition checks the lifecycle table and the payment
// constraint: a booking may only be confirmed once it is paid.
func (b *Booking) ValidateStatusTransition(newStatus string) error {
	allowed, ok := statusTransitions[b.Status]
	if !ok || !slices.Contains(allowed, newStatus) {
		return failure.UnprocessableEntity(
			fmt.Sprintf("booking status cannot change from %s to %s", b.Status, newStatus))
	}

	if newStatus == StatusConfirmed && b.PaymentStatus != PaymentPaid {
		return failure.PaymentRequired("booking cannot be confirmed before payment is completed")
	}

	return nil
}

func (b *Booking) ValidatePaymentTransition(newStatus string) error {
	allowed, ok := paymentTransitions[b.PaymentStatus]
	if !ok || !slices.Contains(allowed, newStatus) {
		return failure.UnprocessableEntity(
			fmt.Sprintf("payment status cannot change from %s to %s", b.PaymentStatus, newStatus))
	}

	return nil
}
