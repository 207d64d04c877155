package lifecycle

import "fmt"

// ErrInvalidTransition is returned when the requested event is not legal from
// the application's current status, or the caller role may not request it.
type ErrInvalidTransition struct {
	From  Status
	Event Event
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: event %q not allowed from status %q", e.Event, e.From)
}

// Rule describes one row of the transition table: the statuses an event may
// fire from, the resulting status, and the roles allowed to request it.
type Rule struct {
	From   []Status
	To     Status
	Actors []Actor
}

var anyNonTerminal = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusDocsRequired,
	StatusAdmitted,
	StatusOfferAccepted,
	StatusPaymentSubmitted,
}

// transitions is the single authoritative table. Every caller (applicant
// self-service, staff console, payment webhook) goes through it; side effects
// are keyed off the committed event, never off the call site.
var transitions = map[Event]Rule{
	EventSubmit: {
		From:   []Status{StatusDraft},
		To:     StatusSubmitted,
		Actors: []Actor{ActorApplicant},
	},
	EventMoveToReview: {
		From:   []Status{StatusSubmitted, StatusUnderReview, StatusDocsRequired},
		To:     StatusUnderReview,
		Actors: []Actor{ActorStaff},
	},
	EventRequestDocs: {
		From:   anyNonTerminal,
		To:     StatusDocsRequired,
		Actors: []Actor{ActorStaff},
	},
	EventAdmit: {
		From:   anyNonTerminal,
		To:     StatusAdmitted,
		Actors: []Actor{ActorStaff},
	},
	EventReject: {
		From:   anyNonTerminal,
		To:     StatusRejected,
		Actors: []Actor{ActorStaff},
	},
	EventAcceptOffer: {
		From:   []Status{StatusAdmitted},
		To:     StatusOfferAccepted,
		Actors: []Actor{ActorApplicant},
	},
	EventDeclineOffer: {
		From:   []Status{StatusAdmitted},
		To:     StatusOfferDeclined,
		Actors: []Actor{ActorApplicant},
	},
	EventPaymentArrived: {
		From:   []Status{StatusAdmitted, StatusOfferAccepted},
		To:     StatusPaymentSubmitted,
		Actors: []Actor{ActorSystem, ActorStaff},
	},
	EventFinalize: {
		From:   []Status{StatusPaymentSubmitted},
		To:     StatusEnrolled,
		Actors: []Actor{ActorSystem, ActorStaff},
	},
}

// CanTransition reports whether event may fire from the given status.
func CanTransition(from Status, event Event) bool {
	rule, ok := transitions[event]
	if !ok {
		return false
	}
	for _, s := range rule.From {
		if s == from {
			return true
		}
	}
	return false
}

// Target returns the status the event leads to.
func Target(event Event) (Status, bool) {
	rule, ok := transitions[event]
	if !ok {
		return "", false
	}
	return rule.To, true
}

// AllowedActor reports whether the role may request the event.
func AllowedActor(event Event, actor Actor) bool {
	rule, ok := transitions[event]
	if !ok {
		return false
	}
	for _, a := range rule.Actors {
		if a == actor {
			return true
		}
	}
	return false
}

// Validate checks the full guard: event known, status in the From set, actor
// permitted. It returns the target status on success.
func Validate(from Status, event Event, actor Actor) (Status, error) {
	if !CanTransition(from, event) || !AllowedActor(event, actor) {
		return "", ErrInvalidTransition{From: from, Event: event}
	}
	to, _ := Target(event)
	return to, nil
}
