package dto

import (
	"time"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// OfferIssueRequest issues or re-issues a financial offer.
type OfferIssueRequest struct {
	OfferType       string    `json:"offer_type" validate:"required,oneof=DEPOSIT FULL_TUITION"`
	PaymentDeadline time.Time `json:"payment_deadline" validate:"required"`
	FeeOverride     *float64  `json:"fee_override" validate:"omitempty,gt=0"`
}

// OfferResponse serializes a financial offer.
type OfferResponse struct {
	ID              uint      `json:"id"`
	ApplicationID   uint      `json:"application_id"`
	OfferType       string    `json:"offer_type"`
	TuitionFee      float64   `json:"tuition_fee"`
	DiscountAmount  float64   `json:"discount_amount"`
	Status          string    `json:"status"`
	PaymentDeadline time.Time `json:"payment_deadline"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OfferIssueResponse pairs the offer with side-effect warnings.
type OfferIssueResponse struct {
	Offer    OfferResponse `json:"offer"`
	Warnings []string      `json:"warnings,omitempty"`
}

// NewOfferResponse converts a FinancialOffer model into a DTO.
func NewOfferResponse(model models.FinancialOffer) OfferResponse {
	return OfferResponse{
		ID:              model.ID,
		ApplicationID:   model.ApplicationID,
		OfferType:       model.OfferType,
		TuitionFee:      model.TuitionFee,
		DiscountAmount:  model.DiscountAmount,
		Status:          model.Status,
		PaymentDeadline: model.PaymentDeadline,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
