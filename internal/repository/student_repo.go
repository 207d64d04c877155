package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// StudentRepository provides access to enrolled student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByApplicationID(ctx context.Context, applicationID uint) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByApplicationID(ctx context.Context, applicationID uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}
