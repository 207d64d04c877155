package models

import "time"

// Notification event types dispatched by the lifecycle engine.
const (
	NotificationApplicationSubmitted = "APPLICATION_SUBMITTED"
	NotificationOfferAccepted        = "OFFER_ACCEPTED"
	NotificationOfferDeclined        = "OFFER_DECLINED"
	NotificationPaymentReceived      = "PAYMENT_RECEIVED"
	NotificationAdmissionLetterReady = "ADMISSION_LETTER_READY"
	NotificationApplicationRejected  = "APPLICATION_REJECTED"
	NotificationDocsRequested        = "DOCS_REQUESTED"
)

// Notification is the persisted record of a message dispatched (or attempted)
// to an applicant for a lifecycle event.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	EventType     string    `gorm:"size:64;not null" json:"event_type"`
	Message       string    `gorm:"type:text" json:"message"`
	Delivered     bool      `gorm:"not null;default:false" json:"delivered"`
	CreatedAt     time.Time `json:"created_at"`
}
