package models

import "time"

// Payment methods and statuses. MANUAL_ADMIN_OVERRIDE marks staff
// reconciliation entries recorded outside the payment gateway.
const (
	PaymentMethodCard           = "CARD"
	PaymentMethodBankTransfer   = "BANK_TRANSFER"
	PaymentMethodManualOverride = "MANUAL_ADMIN_OVERRIDE"

	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment is an append-only ledger entry against a financial offer. The
// reference column carries a unique constraint and acts as the idempotency key.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OfferID   uint      `gorm:"not null;index" json:"offer_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `gorm:"size:32;not null" json:"method"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	Reference string    `gorm:"size:128;not null;uniqueIndex" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}
