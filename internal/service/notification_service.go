package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

// notificationMessages maps event types to applicant-facing message templates.
var notificationMessages = map[string]string{
	models.NotificationApplicationSubmitted: "Your application has been submitted and is awaiting review.",
	models.NotificationOfferAccepted:        "You have accepted your admission offer. Payment details are available in your portal.",
	models.NotificationOfferDeclined:        "You have declined your admission offer.",
	models.NotificationPaymentReceived:      "Your tuition payment has been received.",
	models.NotificationAdmissionLetterReady: "Congratulations! Your admission letter is ready for download.",
	models.NotificationApplicationRejected:  "We are sorry to inform you that your application was not successful.",
	models.NotificationDocsRequested:        "Additional documents are required to continue processing your application.",
}

type notificationEvent struct {
	ApplicationID uint      `json:"application_id"`
	ApplicantID   uint      `json:"applicant_id"`
	Email         string    `json:"email"`
	EventType     string    `json:"event_type"`
	Message       string    `json:"message"`
	SentAt        time.Time `json:"sent_at"`
}

// NotificationService dispatches lifecycle notifications: each dispatch is
// persisted and published to the NATS subject a downstream mailer consumes.
type notificationService struct {
	repo    repository.NotificationRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewNotificationService constructs the Notifier used by the lifecycle
// engine. The NATS connection may be nil; dispatch then degrades to
// persistence plus logging.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) Notifier {
	if subject == "" {
		subject = "admisia.notifications"
	}

	return &notificationService{
		repo:    repo,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "notification_service").Logger(),
		now:     time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, application models.Application, eventType string) error {
	message, ok := notificationMessages[eventType]
	if !ok {
		return fmt.Errorf("unknown notification event type %q", eventType)
	}

	delivered := false
	var publishErr error
	if s.nats != nil {
		payload, err := json.Marshal(notificationEvent{
			ApplicationID: application.ID,
			ApplicantID:   application.ApplicantID,
			Email:         application.Email,
			EventType:     eventType,
			Message:       message,
			SentAt:        s.now().UTC(),
		})
		if err != nil {
			publishErr = err
		} else if err := s.nats.Publish(s.subject, payload); err != nil {
			publishErr = err
		} else {
			delivered = true
		}
	}

	record := models.Notification{
		ApplicationID: application.ID,
		EventType:     eventType,
		Message:       message,
		Delivered:     delivered,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return err
	}

	if publishErr != nil {
		return fmt.Errorf("notification publish failed: %w", publishErr)
	}

	s.logger.Info().
		Uint("application_id", application.ID).
		Str("event_type", eventType).
		Bool("delivered", delivered).
		Msg("notification dispatched")

	return nil
}
