package models

import "time"

// Student is created exactly once when an application reaches ENROLLED. The
// institutional identifier is generated at enrollment and read by downstream
// academic systems.
type Student struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ApplicationID   uint      `gorm:"not null;uniqueIndex" json:"application_id"`
	ApplicantID     uint      `gorm:"not null;index" json:"applicant_id"`
	ProgramID       uint      `gorm:"not null" json:"program_id"`
	InstitutionalID string    `gorm:"size:64;uniqueIndex;not null" json:"institutional_id"`
	FullName        string    `gorm:"size:255;not null" json:"full_name"`
	Email           string    `gorm:"size:255;not null" json:"email"`
	EnrolledAt      time.Time `json:"enrolled_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
