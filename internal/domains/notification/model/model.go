package model

import (
	"courtside/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID     = "id"
	FieldUserID = "user_id"
	FieldType   = "type"
	FieldRead   = "read"
)

const (
	TypeBooking = "booking"
	TypeRefund  = "refund"
	TypePayment = "payment"
)

type Notification struct {
	ID      string `db:"id"`
	UserID  string `db:"user_id"`
	Type    string `db:"type"`
	Message string `db:"message"`
	Read    bool   `db:"read"`
	model.Metadata
}
