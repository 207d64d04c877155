package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/repository"
	"github.com/noah-isme/admisia-go-api/internal/tuition"
)

// Sentinel errors for offer issuance.
var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrOfferLocked    = errors.New("offer has completed payments and can no longer be re-issued")
	ErrNotAdmitted    = errors.New("application has not been admitted")
	ErrUnknownProgram = errors.New("program fee schedule unavailable")
)

// defaultOfferDeadline is how long an admitted applicant has to pay when the
// offer is issued automatically at admission.
const defaultOfferDeadline = 30 * 24 * time.Hour

// OfferService issues and re-issues financial offers.
type OfferService interface {
	OfferIssuer
	Issue(ctx context.Context, applicationID uint, payload dto.OfferIssueRequest, actor Actor) (dto.OfferIssueResponse, error)
}

type offerService struct {
	offers       repository.OfferRepository
	applications repository.ApplicationRepository
	payments     repository.PaymentRepository
	documents    DocumentGenerator
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewOfferService constructs an OfferService instance.
func NewOfferService(
	offers repository.OfferRepository,
	applications repository.ApplicationRepository,
	payments repository.PaymentRepository,
	documents DocumentGenerator,
	validate *validator.Validate,
	logger zerolog.Logger,
) OfferService {
	return &offerService{
		offers:       offers,
		applications: applications,
		payments:     payments,
		documents:    documents,
		validator:    validate,
		logger:       logger.With().Str("component", "offer_service").Logger(),
		now:          time.Now,
	}
}

// Issue creates or updates the application's offer. The early-payment discount
// is granted at issuance; the deadline on the offer is enforced operationally.
func (s *offerService) Issue(ctx context.Context, applicationID uint, payload dto.OfferIssueRequest, actor Actor) (dto.OfferIssueResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.OfferIssueResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OfferIssueResponse{}, ErrApplicationNotFound
		}
		return dto.OfferIssueResponse{}, err
	}

	if !application.Status.AtOrPastAdmission() || application.Status == lifecycle.StatusEnrolled {
		return dto.OfferIssueResponse{}, ErrNotAdmitted
	}

	offer, err := s.buildOffer(ctx, application, payload.OfferType, payload.PaymentDeadline, payload.FeeOverride)
	if err != nil {
		return dto.OfferIssueResponse{}, err
	}

	if err := s.offers.Upsert(ctx, &offer); err != nil {
		return dto.OfferIssueResponse{}, err
	}

	var warnings []string
	if s.documents != nil {
		if url, genErr := s.documents.Generate(ctx, DocumentOfferLetter, application, &offer); genErr != nil {
			s.logger.Warn().Err(genErr).Uint("application_id", application.ID).Msg("offer letter generation failed")
			warnings = append(warnings, "document failed: "+genErr.Error())
		} else if setErr := s.applications.SetDocumentURL(ctx, application.ID, url); setErr != nil {
			warnings = append(warnings, "document failed: "+setErr.Error())
		}
	}

	s.logger.Info().
		Uint("application_id", application.ID).
		Str("offer_type", offer.OfferType).
		Float64("tuition_fee", offer.TuitionFee).
		Msg("offer issued")

	return dto.OfferIssueResponse{Offer: dto.NewOfferResponse(offer), Warnings: warnings}, nil
}

// EnsureDefault returns the application's offer, creating a deposit offer with
// the standard deadline when none exists yet. Used by the engine on admission.
func (s *offerService) EnsureDefault(ctx context.Context, application models.Application) (models.FinancialOffer, error) {
	existing, err := s.offers.GetByApplicationID(ctx, application.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FinancialOffer{}, err
	}

	offer, err := s.buildOffer(ctx, application, models.OfferTypeDeposit, s.now().UTC().Add(defaultOfferDeadline), nil)
	if err != nil {
		return models.FinancialOffer{}, err
	}

	if err := s.offers.Upsert(ctx, &offer); err != nil {
		return models.FinancialOffer{}, err
	}

	return offer, nil
}

func (s *offerService) buildOffer(ctx context.Context, application models.Application, offerType string, deadline time.Time, feeOverride *float64) (models.FinancialOffer, error) {
	existing, err := s.offers.GetByApplicationID(ctx, application.ID)
	if err == nil {
		paid, sumErr := s.payments.SumCompleted(ctx, existing.ID)
		if sumErr != nil {
			return models.FinancialOffer{}, sumErr
		}
		if paid > 0 {
			return models.FinancialOffer{}, ErrOfferLocked
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FinancialOffer{}, err
	}

	offer := models.FinancialOffer{
		ApplicationID:   application.ID,
		OfferType:       offerType,
		Status:          models.OfferStatusPending,
		PaymentDeadline: deadline,
	}

	if feeOverride != nil {
		offer.TuitionFee = tuition.RoundMinorUnit(*feeOverride)
		return offer, nil
	}

	gross, err := s.grossFee(application.Program, offerType)
	if err != nil {
		return models.FinancialOffer{}, err
	}

	offer.DiscountAmount = tuition.DiscountAmount(gross)
	offer.TuitionFee = tuition.DiscountedFee(gross)
	return offer, nil
}

func (s *offerService) grossFee(program models.Program, offerType string) (float64, error) {
	level, err := tuition.ParseDegreeLevel(program.DegreeLevel)
	if err != nil {
		return 0, ErrUnknownProgram
	}

	bucket, err := tuition.ParseFieldBucket(program.FieldBucket)
	if err != nil {
		return 0, ErrUnknownProgram
	}

	if offerType == models.OfferTypeFullTuition {
		fee, err := tuition.FullProgramFee(level, bucket, program.Years)
		if err != nil {
			return 0, ErrUnknownProgram
		}
		return fee, nil
	}

	fee, err := tuition.BaseFee(level, bucket)
	if err != nil {
		return 0, ErrUnknownProgram
	}
	return fee, nil
}
