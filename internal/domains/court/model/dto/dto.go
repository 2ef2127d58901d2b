package dto

import (
	"github.com/google/uuid"

	"courtside/internal/domains/court/model"
	"courtside/shared"
	gDto "courtside/shared/dto"
	gModel "courtside/shared/model"
	"courtside/shared/timezone"
)

type CreateCourtRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	HourlyRate  int64  `json:"hourly_rate" validate:"required,min=0"`
	ImageURL    string `json:"image_url"   validate:"omitempty,url,max=500"`
	Active      *bool  `json:"active"      validate:"omitempty"`
}

func (c *CreateCourtRequest) ToModel(user string) model.Court {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Court{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		HourlyRate:  c.HourlyRate,
		ImageURL:    c.ImageURL,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCourtRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=500"`
	HourlyRate  *int64 `db:"hourly_rate" json:"hourly_rate" validate:"omitempty,min=0"`
	ImageURL    string `db:"image_url"   json:"image_url"   validate:"omitempty,url,max=500"`
	Active      *bool  `db:"active"      json:"active"      validate:"omitempty"`
}

type CourtResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HourlyRate  int64  `json:"hourly_rate"`
	ImageURL    string `json:"image_url"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *CourtResponse) FromModel(mod model.Court) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Description = mod.Description
	r.HourlyRate = mod.HourlyRate
	r.ImageURL = mod.ImageURL
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}

type GetCourtsResponse struct {
	Courts    []CourtResponse `json:"courts"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetCourtsResponse) FromModels(models []model.Court, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Courts = make([]CourtResponse, len(models))
	for i, mod := range models {
		r.Courts[i].FromModel(mod)
	}
}
