// Package lifecycle contains the pure admission state machine: statuses,
// events, and the transition table the engine consults before committing any
// status change. No I/O lives here.
package lifecycle

// Status is the admission state of an application.
type Status string

// Application statuses.
const (
	StatusDraft            Status = "DRAFT"
	StatusSubmitted        Status = "SUBMITTED"
	StatusUnderReview      Status = "UNDER_REVIEW"
	StatusDocsRequired     Status = "DOCS_REQUIRED"
	StatusAdmitted         Status = "ADMITTED"
	StatusOfferAccepted    Status = "OFFER_ACCEPTED"
	StatusPaymentSubmitted Status = "PAYMENT_SUBMITTED"
	StatusEnrolled         Status = "ENROLLED"
	StatusRejected         Status = "REJECTED"
	StatusOfferDeclined    Status = "OFFER_DECLINED"
)

// InitialStatus is the status of a freshly created application.
func InitialStatus() Status {
	return StatusDraft
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusOfferDeclined, StatusEnrolled:
		return true
	default:
		return false
	}
}

// AtOrPastAdmission reports whether the application has reached ADMITTED or a
// later stage of the pipeline. Document regeneration is only meaningful here.
func (s Status) AtOrPastAdmission() bool {
	switch s {
	case StatusAdmitted, StatusOfferAccepted, StatusPaymentSubmitted, StatusEnrolled:
		return true
	default:
		return false
	}
}

// AllStatuses lists every status, useful for dashboards and validation.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusSubmitted,
		StatusUnderReview,
		StatusDocsRequired,
		StatusAdmitted,
		StatusOfferAccepted,
		StatusPaymentSubmitted,
		StatusEnrolled,
		StatusRejected,
		StatusOfferDeclined,
	}
}
