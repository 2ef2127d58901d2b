package dto

import (
	"courtside/internal/domains/schedule/model"
)

type ResolveRequest struct {
	CourtID   string `json:"court_id"   validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
}

// SlotResponse is the resolved state of one court-hour. Slots without a
// stored row resolve to available with no owner.
type SlotResponse struct {
	CourtID     string `json:"court_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	DisplayName string `json:"display_name,omitempty"`
	Override    bool   `json:"override"`
}

func (s *SlotResponse) FromModel(mod model.Schedule) {
	s.CourtID = mod.CourtID
	s.Date = mod.Date
	s.StartTime = mod.StartTime
	s.EndTime = mod.EndTime
	s.Status = mod.Status
	s.DisplayName = mod.DisplayName
	s.Override = mod.Override
}

type GridResponse struct {
	CourtID string         `json:"court_id"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

type WeekGridResponse struct {
	CourtID string         `json:"court_id"`
	Days    []GridResponse `json:"days"`
}

type SetOverrideRequest struct {
	CourtID   string `json:"court_id"   validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   validate:"required,datetime=15:04"`
	Status    string `json:"status"     validate:"required,oneof=maintenance holiday"`
}

type ClearOverrideRequest struct {
	CourtID   string `json:"court_id"   validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   validate:"required,datetime=15:04"`
}

type GetSchedulesResponse struct {
	Schedules []SlotResponse `json:"schedules"`
	TotalData int            `json:"total_data"`
}

func (r *GetSchedulesResponse) FromModels(models []model.Schedule) {
	r.TotalData = len(models)
	r.Schedules = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Schedules[i].FromModel(mod)
	}
}
