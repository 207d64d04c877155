package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

// OfferRepository provides access to financial offers.
type OfferRepository interface {
	GetByID(ctx context.Context, id uint) (models.FinancialOffer, error)
	GetByApplicationID(ctx context.Context, applicationID uint) (models.FinancialOffer, error)
	Upsert(ctx context.Context, offer *models.FinancialOffer) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository constructs an offer repository.
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) GetByID(ctx context.Context, id uint) (models.FinancialOffer, error) {
	var offer models.FinancialOffer
	if err := r.db.WithContext(ctx).First(&offer, id).Error; err != nil {
		return models.FinancialOffer{}, err
	}

	return offer, nil
}

func (r *offerRepository) GetByApplicationID(ctx context.Context, applicationID uint) (models.FinancialOffer, error) {
	var offer models.FinancialOffer
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&offer).Error
	if err != nil {
		return models.FinancialOffer{}, err
	}

	return offer, nil
}

// Upsert creates the offer, or updates the existing row for the application so
// the at-most-one-offer invariant holds across re-issues.
func (r *offerRepository) Upsert(ctx context.Context, offer *models.FinancialOffer) error {
	var existing models.FinancialOffer
	err := r.db.WithContext(ctx).
		Where("application_id = ?", offer.ApplicationID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(offer).Error
		}
		return err
	}

	offer.ID = existing.ID
	offer.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *offerRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.FinancialOffer{}).
		Where("id = ?", id).
		Update("status", status).Error
}
