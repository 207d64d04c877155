package models

import "time"

// Offer type and status enumerations.
const (
	OfferTypeDeposit     = "DEPOSIT"
	OfferTypeFullTuition = "FULL_TUITION"

	OfferStatusPending  = "PENDING"
	OfferStatusAccepted = "ACCEPTED"
	OfferStatusDeclined = "DECLINED"
)

// FinancialOffer holds the tuition terms presented to an admitted applicant.
// At most one offer exists per application; re-issuing updates the row.
type FinancialOffer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ApplicationID   uint      `gorm:"not null;uniqueIndex" json:"application_id"`
	OfferType       string    `gorm:"size:16;not null" json:"offer_type"`
	TuitionFee      float64   `gorm:"not null" json:"tuition_fee"`
	DiscountAmount  float64   `gorm:"not null;default:0" json:"discount_amount"`
	Status          string    `gorm:"size:16;not null;default:PENDING" json:"status"`
	PaymentDeadline time.Time `json:"payment_deadline"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
