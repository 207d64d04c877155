package dto

import (
	"time"

	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
)

// ApplicationCreateRequest opens a new draft application.
type ApplicationCreateRequest struct {
	ProgramID uint                   `json:"program_id" validate:"required,gt=0"`
	FullName  string                 `json:"full_name" validate:"omitempty,min=2"`
	Email     string                 `json:"email" validate:"omitempty,email"`
	Statement string                 `json:"statement"`
	Education map[string]interface{} `json:"education"`
}

// ApplicationUpdateRequest patches draft fields before submission.
type ApplicationUpdateRequest struct {
	FullName  *string                `json:"full_name" validate:"omitempty,min=2"`
	Email     *string                `json:"email" validate:"omitempty,email"`
	Statement *string                `json:"statement"`
	Education map[string]interface{} `json:"education"`
}

// ProgramLite summarizes a program in application responses.
type ProgramLite struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DegreeLevel string `json:"degree_level"`
	FieldBucket string `json:"field_bucket"`
	Years       int    `json:"years"`
}

// ApplicationResponse is returned to API clients when viewing applications.
type ApplicationResponse struct {
	ID          uint                   `json:"id"`
	ApplicantID uint                   `json:"applicant_id"`
	ProgramID   uint                   `json:"program_id"`
	Status      lifecycle.Status       `json:"status"`
	FullName    string                 `json:"full_name"`
	Email       string                 `json:"email"`
	Statement   string                 `json:"statement"`
	Education   map[string]interface{} `json:"education"`
	DocumentURL string                 `json:"document_url,omitempty"`
	SubmittedAt *time.Time             `json:"submitted_at"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Program     ProgramLite            `json:"program"`
	Offer       *OfferResponse         `json:"offer,omitempty"`
}

// TransitionResponse pairs the committed application state with warnings from
// best-effort side effects. Warnings never imply the transition failed.
type TransitionResponse struct {
	Application ApplicationResponse `json:"application"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// NewApplicationResponse converts an Application model into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	response := ApplicationResponse{
		ID:          model.ID,
		ApplicantID: model.ApplicantID,
		ProgramID:   model.ProgramID,
		Status:      model.Status,
		FullName:    model.FullName,
		Email:       model.Email,
		Statement:   model.Statement,
		Education:   model.Education,
		DocumentURL: model.DocumentURL,
		SubmittedAt: model.SubmittedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Program.ID != 0 {
		response.Program = ProgramLite{
			ID:          model.Program.ID,
			Name:        model.Program.Name,
			DegreeLevel: model.Program.DegreeLevel,
			FieldBucket: model.Program.FieldBucket,
			Years:       model.Program.Years,
		}
	}

	if model.Offer != nil && model.Offer.ID != 0 {
		offer := NewOfferResponse(*model.Offer)
		response.Offer = &offer
	}

	return response
}

// NewApplicationResponseSlice converts application models into DTOs.
func NewApplicationResponseSlice(models []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(models))
	for _, application := range models {
		responses = append(responses, NewApplicationResponse(application))
	}

	return responses
}
