package models

import "time"

// Program is a degree program applicants can apply to. Degree level and field
// bucket drive the tuition calculation.
type Program struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	DegreeLevel string    `gorm:"size:16;not null" json:"degree_level"`
	FieldBucket string    `gorm:"size:32;not null" json:"field_bucket"`
	Years       int       `gorm:"not null;default:1" json:"years"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
