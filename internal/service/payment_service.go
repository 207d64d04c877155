package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/observability"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

// ErrDuplicatePayment indicates a replayed payment reference. The original
// ledger entry stands; nothing is double-recorded.
var ErrDuplicatePayment = errors.New("payment reference already recorded")

// PaymentService appends ledger entries and drives the payment transitions.
type PaymentService interface {
	Record(ctx context.Context, payload dto.PaymentCreateRequest, actor Actor) (dto.RecordPaymentResponse, error)
	RecordManual(ctx context.Context, payload dto.ManualPaymentRequest, actor Actor) (dto.RecordPaymentResponse, error)
	ListByOffer(ctx context.Context, offerID uint) ([]dto.PaymentResponse, error)
}

type paymentService struct {
	payments     repository.PaymentRepository
	offers       repository.OfferRepository
	applications repository.ApplicationRepository
	audit        repository.AuditLogRepository
	engine       AdmissionService
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(
	payments repository.PaymentRepository,
	offers repository.OfferRepository,
	applications repository.ApplicationRepository,
	audit repository.AuditLogRepository,
	engine AdmissionService,
	validate *validator.Validate,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		payments:     payments,
		offers:       offers,
		applications: applications,
		audit:        audit,
		engine:       engine,
		validator:    validate,
		logger:       logger.With().Str("component", "payment_service").Logger(),
	}
}

// Record stores a gateway-confirmed payment and, once the cumulative completed
// amount covers the tuition fee, cascades the application through
// PAYMENT_SUBMITTED into ENROLLED.
func (s *paymentService) Record(ctx context.Context, payload dto.PaymentCreateRequest, actor Actor) (dto.RecordPaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	return s.record(ctx, payload.OfferID, payload.Amount, payload.Method, payload.Reference, actor, true)
}

// RecordManual stores a staff reconciliation entry that bypasses the gateway.
// The Offer/Payment consistency is identical to the gateway path; the payload
// decides whether a covering payment cascades into ENROLLED or stops at
// PAYMENT_SUBMITTED.
func (s *paymentService) RecordManual(ctx context.Context, payload dto.ManualPaymentRequest, actor Actor) (dto.RecordPaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	return s.record(ctx, payload.OfferID, payload.Amount, models.PaymentMethodManualOverride, payload.Reference, actor, payload.Finalize)
}

func (s *paymentService) ListByOffer(ctx context.Context, offerID uint) ([]dto.PaymentResponse, error) {
	if _, err := s.offers.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	payments, err := s.payments.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	return dto.NewPaymentResponseSlice(payments), nil
}

func (s *paymentService) record(ctx context.Context, offerID uint, amount float64, method, reference string, actor Actor, cascade bool) (dto.RecordPaymentResponse, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordPaymentResponse{}, ErrOfferNotFound
		}
		return dto.RecordPaymentResponse{}, err
	}

	if _, err := s.payments.GetByReference(ctx, reference); err == nil {
		return dto.RecordPaymentResponse{}, ErrDuplicatePayment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RecordPaymentResponse{}, err
	}

	payment := models.Payment{
		OfferID:   offer.ID,
		Amount:    amount,
		Method:    method,
		Status:    models.PaymentStatusCompleted,
		Reference: reference,
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		// The unique constraint backstops concurrent replays of the same
		// reference.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.RecordPaymentResponse{}, ErrDuplicatePayment
		}
		return dto.RecordPaymentResponse{}, err
	}

	observability.PaymentsRecorded().WithLabelValues(method).Inc()
	s.writeAudit(ctx, actor, payment)

	response := dto.RecordPaymentResponse{Payment: dto.NewPaymentResponse(payment)}

	total, err := s.payments.SumCompleted(ctx, offer.ID)
	if err != nil {
		return response, err
	}
	if total < offer.TuitionFee {
		s.logger.Info().
			Uint("offer_id", offer.ID).
			Float64("total", total).
			Float64("tuition_fee", offer.TuitionFee).
			Msg("partial payment recorded")
		return response, nil
	}

	application, err := s.applications.GetByID(ctx, offer.ApplicationID)
	if err != nil {
		return response, err
	}

	// The transition fires exactly once: further qualifying payments find the
	// application already at or past PAYMENT_SUBMITTED and leave it alone.
	if !lifecycle.CanTransition(application.Status, lifecycle.EventPaymentArrived) {
		return response, nil
	}

	engineActor := Actor{ID: actor.ID, Role: lifecycle.ActorSystem}
	if actor.Role == lifecycle.ActorStaff {
		engineActor.Role = lifecycle.ActorStaff
	}

	updated, warnings, err := s.engine.PaymentCompleted(ctx, application.ID, engineActor, cascade)
	if err != nil {
		return response, err
	}

	applicationResponse := dto.NewApplicationResponse(updated)
	response.Application = &applicationResponse
	response.Warnings = warnings

	return response, nil
}

func (s *paymentService) writeAudit(ctx context.Context, actor Actor, payment models.Payment) {
	entityID := payment.ID
	entry := models.AuditLog{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "payment.recorded",
		EntityType: "payment",
		EntityID:   &entityID,
		Metadata: datatypes.JSONMap{
			"offer_id":  payment.OfferID,
			"amount":    payment.Amount,
			"method":    payment.Method,
			"reference": payment.Reference,
		},
	}

	if err := s.audit.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("reference", payment.Reference).Msg("failed to write payment audit entry")
	}
}
