package dto

import (
	"time"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// DashboardResponse reports admissions pipeline statistics.
type DashboardResponse struct {
	StatusCounts      map[string]int64 `json:"status_counts"`
	TotalApplications int64            `json:"total_applications"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// AuditLogResponse serializes an audit trail entry.
type AuditLogResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	ActorRole string                 `json:"actor_role"`
	Action    string                 `json:"action"`
	EntityID  *uint                  `json:"entity_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditLogResponse converts an AuditLog model into a DTO.
func NewAuditLogResponse(model models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        model.ID,
		ActorID:   model.ActorID,
		ActorRole: model.ActorRole,
		Action:    model.Action,
		EntityID:  model.EntityID,
		Metadata:  model.Metadata,
		CreatedAt: model.CreatedAt,
	}
}

// NewAuditLogResponseSlice converts audit entries into DTOs.
func NewAuditLogResponseSlice(models []models.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(models))
	for _, entry := range models {
		responses = append(responses, NewAuditLogResponse(entry))
	}

	return responses
}
