package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/observability"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

// Sentinel errors surfaced by the lifecycle engine.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrConflict            = errors.New("application was modified concurrently")
	ErrSectionsIncomplete  = errors.New("application sections are incomplete")
	ErrOfferMissing        = errors.New("no financial offer exists for this application")
	ErrNotOwner            = errors.New("application belongs to another applicant")
)

// Actor identifies the caller requesting a transition.
type Actor struct {
	ID   uint
	Role lifecycle.Actor
}

// AdmissionService is the lifecycle engine: it validates every requested
// transition against the transition table, commits the status change
// atomically, and fires the event's side effects behind a non-propagating
// boundary.
type AdmissionService interface {
	Submit(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	MoveToReview(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	RequestDocs(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	Admit(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	Reject(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	AcceptOffer(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	DeclineOffer(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	PaymentCompleted(ctx context.Context, applicationID uint, actor Actor, cascade bool) (models.Application, []string, error)
	Finalize(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	RegenerateDocument(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error)
	ResendNotification(ctx context.Context, applicationID uint, eventType string, actor Actor) (dto.TransitionResponse, error)
}

type admissionService struct {
	applications  repository.ApplicationRepository
	offers        repository.OfferRepository
	students      repository.StudentRepository
	audit         repository.AuditLogRepository
	issuer        OfferIssuer
	documents     DocumentGenerator
	notifier      Notifier
	logger        zerolog.Logger
	tracer        trace.Tracer
	effectTimeout time.Duration
	now           func() time.Time
}

// OfferIssuer is the slice of the offer service the engine needs when an
// application enters ADMITTED.
type OfferIssuer interface {
	EnsureDefault(ctx context.Context, application models.Application) (models.FinancialOffer, error)
}

// NewAdmissionService constructs the lifecycle engine. The document generator
// and notifier are injected capabilities; either may be nil in tests.
func NewAdmissionService(
	applications repository.ApplicationRepository,
	offers repository.OfferRepository,
	students repository.StudentRepository,
	audit repository.AuditLogRepository,
	issuer OfferIssuer,
	documents DocumentGenerator,
	notifier Notifier,
	effectTimeout time.Duration,
	logger zerolog.Logger,
) AdmissionService {
	if effectTimeout <= 0 {
		effectTimeout = 10 * time.Second
	}

	return &admissionService{
		applications:  applications,
		offers:        offers,
		students:      students,
		audit:         audit,
		issuer:        issuer,
		documents:     documents,
		notifier:      notifier,
		logger:        logger.With().Str("component", "admission_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/admisia-go-api/internal/service/admission"),
		effectTimeout: effectTimeout,
		now:           time.Now,
	}
}

func (s *admissionService) Submit(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	submittedAt := s.now().UTC()
	application, err := s.transition(ctx, applicationID, lifecycle.EventSubmit, actor, transitionOptions{
		guard: func(app models.Application) error {
			if actor.Role == lifecycle.ActorApplicant && app.ApplicantID != actor.ID {
				return ErrNotOwner
			}
			if !app.SectionsComplete() {
				return ErrSectionsIncomplete
			}
			return nil
		},
		submittedAt: &submittedAt,
	})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	warnings := s.runSideEffect(ctx, application, lifecycle.EventSubmit, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationApplicationSubmitted)
	})

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) MoveToReview(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventMoveToReview, actor, transitionOptions{})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	return s.response(ctx, application.ID, nil), nil
}

func (s *admissionService) RequestDocs(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventRequestDocs, actor, transitionOptions{})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	warnings := s.runSideEffect(ctx, application, lifecycle.EventRequestDocs, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationDocsRequested)
	})

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) Admit(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventAdmit, actor, transitionOptions{})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	var warnings []string
	offer, issueErr := s.issuer.EnsureDefault(ctx, application)
	if issueErr != nil {
		warnings = s.recordFailure(warnings, application, lifecycle.EventAdmit, "offer_issuance", issueErr)
	} else {
		warnings = append(warnings, s.runSideEffect(ctx, application, lifecycle.EventAdmit, "document", func(ctx context.Context) error {
			url, genErr := s.documents.Generate(ctx, DocumentOfferLetter, application, &offer)
			if genErr != nil {
				return genErr
			}
			return s.applications.SetDocumentURL(ctx, application.ID, url)
		})...)
	}

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) Reject(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventReject, actor, transitionOptions{})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	warnings := s.runSideEffect(ctx, application, lifecycle.EventReject, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationApplicationRejected)
	})

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) AcceptOffer(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	offer, err := s.requireOffer(ctx, applicationID)
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	application, err := s.transition(ctx, applicationID, lifecycle.EventAcceptOffer, actor, transitionOptions{
		guard: s.ownershipGuard(actor),
	})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	var warnings []string
	if err := s.offers.UpdateStatus(ctx, offer.ID, models.OfferStatusAccepted); err != nil {
		warnings = s.recordFailure(warnings, application, lifecycle.EventAcceptOffer, "offer_status", err)
	}

	warnings = append(warnings, s.runSideEffect(ctx, application, lifecycle.EventAcceptOffer, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationOfferAccepted)
	})...)

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) DeclineOffer(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	offer, err := s.requireOffer(ctx, applicationID)
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	application, err := s.transition(ctx, applicationID, lifecycle.EventDeclineOffer, actor, transitionOptions{
		guard: s.ownershipGuard(actor),
	})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	var warnings []string
	if err := s.offers.UpdateStatus(ctx, offer.ID, models.OfferStatusDeclined); err != nil {
		warnings = s.recordFailure(warnings, application, lifecycle.EventDeclineOffer, "offer_status", err)
	}

	warnings = append(warnings, s.runSideEffect(ctx, application, lifecycle.EventDeclineOffer, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationOfferDeclined)
	})...)

	return s.response(ctx, application.ID, warnings), nil
}

// PaymentCompleted commits the PAYMENT_SUBMITTED transition after the tuition
// obligation is satisfied. When cascade is true (the gateway path and the
// staff override), enrollment is finalized in the same call.
func (s *admissionService) PaymentCompleted(ctx context.Context, applicationID uint, actor Actor, cascade bool) (models.Application, []string, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventPaymentArrived, actor, transitionOptions{})
	if err != nil {
		return models.Application{}, nil, err
	}

	warnings := s.runSideEffect(ctx, application, lifecycle.EventPaymentArrived, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationPaymentReceived)
	})

	if !cascade {
		return application, warnings, nil
	}

	finalized, finalizeWarnings, err := s.finalize(ctx, application.ID, Actor{ID: actor.ID, Role: lifecycle.ActorSystem})
	if err != nil {
		return application, warnings, err
	}

	return finalized, append(warnings, finalizeWarnings...), nil
}

func (s *admissionService) Finalize(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, warnings, err := s.finalize(ctx, applicationID, actor)
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	return s.response(ctx, application.ID, warnings), nil
}

func (s *admissionService) finalize(ctx context.Context, applicationID uint, actor Actor) (models.Application, []string, error) {
	application, err := s.transition(ctx, applicationID, lifecycle.EventFinalize, actor, transitionOptions{})
	if err != nil {
		return models.Application{}, nil, err
	}

	var warnings []string
	if err := s.ensureStudent(ctx, application); err != nil {
		warnings = s.recordFailure(warnings, application, lifecycle.EventFinalize, "student_record", err)
	}

	warnings = append(warnings, s.runSideEffect(ctx, application, lifecycle.EventFinalize, "document", func(ctx context.Context) error {
		url, genErr := s.documents.Generate(ctx, DocumentAdmissionLetter, application, application.Offer)
		if genErr != nil {
			return genErr
		}
		return s.applications.SetDocumentURL(ctx, application.ID, url)
	})...)

	warnings = append(warnings, s.runSideEffect(ctx, application, lifecycle.EventFinalize, "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, models.NotificationAdmissionLetterReady)
	})...)

	return application, warnings, nil
}

// RegenerateDocument re-runs letter generation for an application at or past
// ADMITTED, overwriting the previous artifact reference.
func (s *admissionService) RegenerateDocument(ctx context.Context, applicationID uint, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	if !application.Status.AtOrPastAdmission() {
		return dto.TransitionResponse{}, lifecycle.ErrInvalidTransition{From: application.Status, Event: "regenerate_document"}
	}

	kind := DocumentOfferLetter
	if application.Status == lifecycle.StatusEnrolled {
		kind = DocumentAdmissionLetter
	}

	warnings := s.runSideEffect(ctx, application, "regenerate_document", "document", func(ctx context.Context) error {
		url, genErr := s.documents.Generate(ctx, kind, application, application.Offer)
		if genErr != nil {
			return genErr
		}
		return s.applications.SetDocumentURL(ctx, application.ID, url)
	})

	s.writeAudit(ctx, actor, "application.regenerate_document", application.ID, map[string]interface{}{
		"kind": string(kind),
	})

	return s.response(ctx, application.ID, warnings), nil
}

// ResendNotification re-dispatches a previously attempted notification.
func (s *admissionService) ResendNotification(ctx context.Context, applicationID uint, eventType string, actor Actor) (dto.TransitionResponse, error) {
	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	warnings := s.runSideEffect(ctx, application, "resend_notification", "notification", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, application, eventType)
	})

	s.writeAudit(ctx, actor, "application.resend_notification", application.ID, map[string]interface{}{
		"event_type": eventType,
	})

	return s.response(ctx, application.ID, warnings), nil
}

type transitionOptions struct {
	guard       func(models.Application) error
	submittedAt *time.Time
}

// transition is the single guarded entry point for every status change. The
// commit is an optimistic compare-and-swap on updated_at; side effects only
// run once the write has succeeded.
func (s *admissionService) transition(ctx context.Context, applicationID uint, event lifecycle.Event, actor Actor, opts transitionOptions) (models.Application, error) {
	spanCtx, span := s.tracer.Start(ctx, "admission.transition", trace.WithAttributes(
		attribute.Int("application.id", int(applicationID)),
		attribute.String("application.event", string(event)),
	))
	defer span.End()

	application, err := s.getApplication(spanCtx, applicationID)
	if err != nil {
		return models.Application{}, err
	}

	target, err := lifecycle.Validate(application.Status, event, actor.Role)
	if err != nil {
		return models.Application{}, err
	}

	if opts.guard != nil {
		if err := opts.guard(application); err != nil {
			return models.Application{}, err
		}
	}

	committed, err := s.applications.CommitStatus(spanCtx, repository.StatusUpdate{
		ID:                application.ID,
		ExpectedUpdatedAt: application.UpdatedAt,
		Status:            target,
		SubmittedAt:       opts.submittedAt,
	})
	if err != nil {
		span.RecordError(err)
		return models.Application{}, err
	}
	if !committed {
		return models.Application{}, ErrConflict
	}

	observability.Transitions().WithLabelValues(string(event), string(target)).Inc()
	s.writeAudit(spanCtx, actor, "application."+string(event), application.ID, map[string]interface{}{
		"from": string(application.Status),
		"to":   string(target),
	})

	s.logger.Info().
		Uint("application_id", application.ID).
		Str("event", string(event)).
		Str("from", string(application.Status)).
		Str("to", string(target)).
		Msg("transition committed")

	return s.getApplication(spanCtx, application.ID)
}

// runSideEffect invokes fn behind the non-propagating boundary: a bounded
// timeout, the failure logged with application id and event, and a warning
// string instead of an error. The committed state is never rolled back.
func (s *admissionService) runSideEffect(ctx context.Context, application models.Application, event lifecycle.Event, kind string, fn func(context.Context) error) []string {
	effectCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
	defer cancel()

	if err := fn(effectCtx); err != nil {
		return s.recordFailure(nil, application, event, kind, err)
	}

	return nil
}

func (s *admissionService) recordFailure(warnings []string, application models.Application, event lifecycle.Event, kind string, err error) []string {
	observability.SideEffectFailures().WithLabelValues(kind).Inc()
	s.logger.Warn().
		Err(err).
		Uint("application_id", application.ID).
		Str("event", string(event)).
		Str("kind", kind).
		Msg("side effect failed")

	return append(warnings, fmt.Sprintf("%s failed: %v", kind, err))
}

func (s *admissionService) ensureStudent(ctx context.Context, application models.Application) error {
	_, err := s.students.GetByApplicationID(ctx, application.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	student := models.Student{
		ApplicationID:   application.ID,
		ApplicantID:     application.ApplicantID,
		ProgramID:       application.ProgramID,
		InstitutionalID: s.newInstitutionalID(),
		FullName:        application.FullName,
		Email:           application.Email,
		EnrolledAt:      s.now().UTC(),
	}

	return s.students.Create(ctx, &student)
}

func (s *admissionService) newInstitutionalID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("STU-%d-%s", s.now().Year(), suffix)
}

func (s *admissionService) ownershipGuard(actor Actor) func(models.Application) error {
	return func(app models.Application) error {
		if actor.Role == lifecycle.ActorApplicant && app.ApplicantID != actor.ID {
			return ErrNotOwner
		}
		return nil
	}
}

func (s *admissionService) requireOffer(ctx context.Context, applicationID uint) (models.FinancialOffer, error) {
	offer, err := s.offers.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FinancialOffer{}, ErrOfferMissing
		}
		return models.FinancialOffer{}, err
	}

	return offer, nil
}

func (s *admissionService) getApplication(ctx context.Context, id uint) (models.Application, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Application{}, ErrApplicationNotFound
		}
		return models.Application{}, err
	}

	return application, nil
}

func (s *admissionService) response(ctx context.Context, applicationID uint, warnings []string) dto.TransitionResponse {
	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("application_id", applicationID).Msg("failed to reload application for response")
	}

	return dto.TransitionResponse{
		Application: dto.NewApplicationResponse(application),
		Warnings:    warnings,
	}
}

func (s *admissionService) writeAudit(ctx context.Context, actor Actor, action string, entityID uint, metadata map[string]interface{}) {
	entry := models.AuditLog{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		EntityType: "application",
		EntityID:   &entityID,
		Metadata:   datatypes.JSONMap(metadata),
	}

	if err := s.audit.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit entry")
	}
}
