package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

// Sentinel errors for draft management.
var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrDuplicateApplication = errors.New("an active application already exists for this program")
	ErrNotEditable          = errors.New("application can no longer be edited")
	ErrApplicationRetained  = errors.New("enrolled applications are permanently retained")
)

// ApplicationService manages applicant-facing draft operations.
type ApplicationService interface {
	Create(ctx context.Context, applicantID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	Update(ctx context.Context, id, applicantID uint, payload dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.ApplicationResponse, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]dto.ApplicationResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	Notifications(ctx context.Context, id uint, actor Actor) ([]dto.NotificationResponse, error)
}

type applicationService struct {
	applications  repository.ApplicationRepository
	programs      repository.ProgramRepository
	notifications repository.NotificationRepository
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewApplicationService constructs an ApplicationService instance.
func NewApplicationService(
	applications repository.ApplicationRepository,
	programs repository.ProgramRepository,
	notifications repository.NotificationRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		applications:  applications,
		programs:      programs,
		notifications: notifications,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "application_service").Logger(),
	}
}

func (s *applicationService) Create(ctx context.Context, applicantID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	if _, err := s.programs.GetByID(ctx, payload.ProgramID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrProgramNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	// At most one non-terminal application per (applicant, program).
	if _, err := s.applications.FindActive(ctx, applicantID, payload.ProgramID); err == nil {
		return dto.ApplicationResponse{}, ErrDuplicateApplication
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ApplicationResponse{}, err
	}

	application := models.Application{
		ApplicantID: applicantID,
		ProgramID:   payload.ProgramID,
		Status:      lifecycle.InitialStatus(),
		FullName:    strings.TrimSpace(payload.FullName),
		Email:       strings.TrimSpace(payload.Email),
		Statement:   s.sanitize(payload.Statement),
		Education:   datatypes.JSONMap(payload.Education),
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	created, err := s.applications.GetByID(ctx, application.ID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	s.logger.Info().Uint("application_id", created.ID).Uint("program_id", created.ProgramID).Msg("draft application created")

	return dto.NewApplicationResponse(created), nil
}

func (s *applicationService) Update(ctx context.Context, id, applicantID uint, payload dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.getOwned(ctx, id, applicantID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	// Drafts stay editable until submission; applicants may also amend while
	// additional documents are requested.
	if application.Status != lifecycle.StatusDraft && application.Status != lifecycle.StatusDocsRequired {
		return dto.ApplicationResponse{}, ErrNotEditable
	}

	if payload.FullName != nil {
		application.FullName = strings.TrimSpace(*payload.FullName)
	}
	if payload.Email != nil {
		application.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.Statement != nil {
		application.Statement = s.sanitize(*payload.Statement)
	}
	if payload.Education != nil {
		application.Education = datatypes.JSONMap(payload.Education)
	}

	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	updated, err := s.applications.GetByID(ctx, application.ID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(updated), nil
}

func (s *applicationService) Get(ctx context.Context, id uint, actor Actor) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if actor.Role == lifecycle.ActorApplicant && application.ApplicantID != actor.ID {
		return dto.ApplicationResponse{}, ErrNotOwner
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListByApplicant(ctx context.Context, applicantID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}

// Delete removes a terminal application. Enrolled applications are retained
// permanently.
func (s *applicationService) Delete(ctx context.Context, id uint, actor Actor) error {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if actor.Role == lifecycle.ActorApplicant && application.ApplicantID != actor.ID {
		return ErrNotOwner
	}

	if application.Status == lifecycle.StatusEnrolled {
		return ErrApplicationRetained
	}

	if !application.Status.IsTerminal() && application.Status != lifecycle.StatusDraft {
		return ErrNotEditable
	}

	return s.applications.Delete(ctx, id)
}

func (s *applicationService) Notifications(ctx context.Context, id uint, actor Actor) ([]dto.NotificationResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if actor.Role == lifecycle.ActorApplicant && application.ApplicantID != actor.ID {
		return nil, ErrNotOwner
	}

	notifications, err := s.notifications.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *applicationService) sanitize(raw string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(raw))
}

func (s *applicationService) getOwned(ctx context.Context, id, applicantID uint) (models.Application, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Application{}, ErrApplicationNotFound
		}
		return models.Application{}, err
	}

	if application.ApplicantID != applicantID {
		return models.Application{}, ErrNotOwner
	}

	return application, nil
}
