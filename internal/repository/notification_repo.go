package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// NotificationRepository persists dispatched notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByApplication(ctx context.Context, applicationID uint) ([]models.Notification, error)
	LatestByEvent(ctx context.Context, applicationID uint, eventType string) (models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByApplication(ctx context.Context, applicationID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) LatestByEvent(ctx context.Context, applicationID uint, eventType string) (models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND event_type = ?", applicationID, eventType).
		Order("created_at DESC").
		First(&notification).Error
	if err != nil {
		return models.Notification{}, err
	}

	return notification, nil
}
