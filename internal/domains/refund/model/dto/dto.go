package dto

import (
	"courtside/internal/domains/refund/model"
	"courtside/shared"
	gDto "courtside/shared/dto"
)

type SetRefundStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed rejected"`
}

type RefundResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	RefundMethod  string `json:"refund_method,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Status        string `json:"status"`
	gDto.Metadata
}

func (r *RefundResponse) FromModel(mod model.Refund) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.UserID = mod.UserID
	r.Amount = mod.Amount
	r.RefundMethod = mod.RefundMethod
	r.AccountNumber = mod.AccountNumber
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetRefundsResponse struct {
	Refunds   []RefundResponse `json:"refunds"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetRefundsResponse) FromModels(models []model.Refund, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Refunds = make([]RefundResponse, len(models))
	for i, mod := range models {
		r.Refunds[i].FromModel(mod)
	}
}
