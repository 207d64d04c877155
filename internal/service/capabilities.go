package service

import (
	"context"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// DocumentKind selects which letter the generator renders.
type DocumentKind string

// Document kinds.
const (
	DocumentOfferLetter     DocumentKind = "OFFER_LETTER"
	DocumentAdmissionLetter DocumentKind = "ADMISSION_LETTER"
)

// DocumentGenerator renders a letter for an application and stores it as a
// durable artifact, returning its URL. Calls are idempotent; repeated calls
// overwrite the previous artifact.
type DocumentGenerator interface {
	Generate(ctx context.Context, kind DocumentKind, application models.Application, offer *models.FinancialOffer) (string, error)
}

// Notifier dispatches a templated message to the applicant for a lifecycle
// event. Delivery is best-effort and may fail independent of state
// correctness.
type Notifier interface {
	Notify(ctx context.Context, application models.Application, eventType string) error
}
