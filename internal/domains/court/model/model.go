package model

import "courtside/shared/model"

const (
	TableName  = "courts"
	EntityName = "court"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldHourlyRate  = "hourly_rate"
	FieldImage       = "image_url"
	FieldActive      = "active"
)

type Court struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	HourlyRate  int64  `db:"hourly_rate"`
	ImageURL    string `db:"image_url"`
	Active      bool   `db:"active"`
	model.Metadata
}
