package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
)

// StatusUpdate describes an optimistic status commit. ExpectedUpdatedAt is the
// concurrency token: the update only lands if no other transition committed in
// between.
type StatusUpdate struct {
	ID                uint
	ExpectedUpdatedAt time.Time
	Status            lifecycle.Status
	SubmittedAt       *time.Time
	DocumentURL       *string
}

// ApplicationRepository provides access to application rows.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	FindActive(ctx context.Context, applicantID, programID uint) (models.Application, error)
	Update(ctx context.Context, application *models.Application) error
	Delete(ctx context.Context, id uint) error
	CommitStatus(ctx context.Context, update StatusUpdate) (bool, error)
	SetDocumentURL(ctx context.Context, id uint, url string) error
	CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs an application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Offer").
		First(&application, id).Error
	if err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Offer").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	return applications, nil
}

// FindActive returns the non-terminal application for the (applicant, program)
// pair, if one exists. At most one such row may exist at any time.
func (r *applicationRepository) FindActive(ctx context.Context, applicantID, programID uint) (models.Application, error) {
	terminal := []lifecycle.Status{lifecycle.StatusRejected, lifecycle.StatusOfferDeclined, lifecycle.StatusEnrolled}

	var application models.Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND program_id = ? AND status NOT IN ?", applicantID, programID, terminal).
		First(&application).Error
	if err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Application{}, id).Error
}

// CommitStatus performs the compare-and-swap status write. It returns false
// when another transition won the race, leaving the row untouched.
func (r *applicationRepository) CommitStatus(ctx context.Context, update StatusUpdate) (bool, error) {
	fields := map[string]interface{}{
		"status":     update.Status,
		"updated_at": time.Now().UTC(),
	}
	if update.SubmittedAt != nil {
		fields["submitted_at"] = *update.SubmittedAt
	}
	if update.DocumentURL != nil {
		fields["document_url"] = *update.DocumentURL
	}

	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND updated_at = ?", update.ID, update.ExpectedUpdatedAt).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *applicationRepository) SetDocumentURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("document_url", url).Error
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error) {
	type statusCount struct {
		Status lifecycle.Status
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[lifecycle.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
