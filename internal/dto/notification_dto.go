package dto

import (
	"time"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// NotificationResponse serializes a dispatched notification record.
type NotificationResponse struct {
	ID            uint      `json:"id"`
	ApplicationID uint      `json:"application_id"`
	EventType     string    `json:"event_type"`
	Message       string    `json:"message"`
	Delivered     bool      `json:"delivered"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNotificationResponse converts a Notification model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            model.ID,
		ApplicationID: model.ApplicationID,
		EventType:     model.EventType,
		Message:       model.Message,
		Delivered:     model.Delivered,
		CreatedAt:     model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts notification models into DTOs.
func NewNotificationResponseSlice(models []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(models))
	for _, notification := range models {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
