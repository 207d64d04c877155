package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
)

// Application represents a single applicant's request for admission to one program.
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ApplicantID uint              `gorm:"not null;index:idx_applicant_program" json:"applicant_id"`
	ProgramID   uint              `gorm:"not null;index:idx_applicant_program" json:"program_id"`
	Status      lifecycle.Status  `gorm:"size:32;not null;index" json:"status"`
	FullName    string            `gorm:"size:255" json:"full_name"`
	Email       string            `gorm:"size:255" json:"email"`
	Statement   string            `gorm:"type:text" json:"statement"`
	Education   datatypes.JSONMap `gorm:"type:json" json:"education"`
	DocumentURL string            `gorm:"size:512" json:"document_url"`
	InternalNotes string          `gorm:"type:text" json:"-"`
	SubmittedAt *time.Time        `json:"submitted_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Program Program         `gorm:"foreignKey:ProgramID" json:"program"`
	Offer   *FinancialOffer `gorm:"foreignKey:ApplicationID" json:"offer,omitempty"`
}

// SectionsComplete reports whether every section required for submission is populated.
func (a Application) SectionsComplete() bool {
	return a.FullName != "" && a.Email != "" && a.Statement != "" && len(a.Education) > 0
}
