package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// ProgramRepository provides access to the program catalog.
type ProgramRepository interface {
	GetByID(ctx context.Context, id uint) (models.Program, error)
	List(ctx context.Context) ([]models.Program, error)
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository constructs a program repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) GetByID(ctx context.Context, id uint) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		return models.Program{}, err
	}

	return program, nil
}

func (r *programRepository) List(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}

	return programs, nil
}
