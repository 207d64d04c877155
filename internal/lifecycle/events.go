package lifecycle

// Event identifies a requested transition.
type Event string

// Lifecycle events.
const (
	EventSubmit         Event = "submit"
	EventMoveToReview   Event = "move_to_review"
	EventRequestDocs    Event = "request_docs"
	EventAdmit          Event = "admit"
	EventReject         Event = "reject"
	EventAcceptOffer    Event = "accept_offer"
	EventDeclineOffer   Event = "decline_offer"
	EventPaymentArrived Event = "payment_submitted"
	EventFinalize       Event = "finalize"
)

// Actor is the caller role requesting a transition.
type Actor string

// Actor roles. ActorSystem covers engine-internal cascades such as the
// payment-complete and finalize steps.
const (
	ActorApplicant Actor = "applicant"
	ActorStaff     Actor = "staff"
	ActorSystem    Actor = "system"
)
