package dto

import (
	"time"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// PaymentCreateRequest records a gateway-confirmed payment.
type PaymentCreateRequest struct {
	OfferID   uint    `json:"offer_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required,oneof=CARD BANK_TRANSFER"`
	Reference string  `json:"reference" validate:"required,min=3"`
}

// ManualPaymentRequest records a staff reconciliation entry that bypasses the
// payment gateway. Finalize cascades a covering payment through
// PAYMENT_SUBMITTED into ENROLLED; when false the application stops at
// PAYMENT_SUBMITTED for a later explicit finalize.
type ManualPaymentRequest struct {
	OfferID   uint    `json:"offer_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reference string  `json:"reference" validate:"required,min=3"`
	Finalize  bool    `json:"finalize"`
}

// PaymentResponse serializes a ledger entry.
type PaymentResponse struct {
	ID        uint      `json:"id"`
	OfferID   uint      `json:"offer_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordPaymentResponse returns the stored payment, the application state
// after any cascaded transitions, and side-effect warnings.
type RecordPaymentResponse struct {
	Payment     PaymentResponse      `json:"payment"`
	Application *ApplicationResponse `json:"application,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// NewPaymentResponse converts a Payment model into a DTO.
func NewPaymentResponse(model models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        model.ID,
		OfferID:   model.OfferID,
		Amount:    model.Amount,
		Method:    model.Method,
		Status:    model.Status,
		Reference: model.Reference,
		CreatedAt: model.CreatedAt,
	}
}

// NewPaymentResponseSlice converts payment models into DTOs.
func NewPaymentResponseSlice(models []models.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(models))
	for _, payment := range models {
		responses = append(responses, NewPaymentResponse(payment))
	}

	return responses
}
