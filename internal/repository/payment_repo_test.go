package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/models"
)

func TestPaymentRepositoryUniqueReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)

	first := models.Payment{OfferID: 1, Amount: 3000, Method: models.PaymentMethodCard, Status: models.PaymentStatusCompleted, Reference: "TXN-1"}
	require.NoError(t, repo.Create(context.Background(), &first))

	replay := models.Payment{OfferID: 1, Amount: 3000, Method: models.PaymentMethodCard, Status: models.PaymentStatusCompleted, Reference: "TXN-1"}
	err := repo.Create(context.Background(), &replay)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey, "constraint violations surface as gorm.ErrDuplicatedKey")

	payments, err := repo.ListByOffer(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, payments, 1)
}

func TestPaymentRepositorySumCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)

	entries := []models.Payment{
		{OfferID: 2, Amount: 1000, Method: models.PaymentMethodCard, Status: models.PaymentStatusCompleted, Reference: "A-1"},
		{OfferID: 2, Amount: 2000, Method: models.PaymentMethodBankTransfer, Status: models.PaymentStatusCompleted, Reference: "A-2"},
		{OfferID: 2, Amount: 500, Method: models.PaymentMethodCard, Status: models.PaymentStatusFailed, Reference: "A-3"},
		{OfferID: 3, Amount: 900, Method: models.PaymentMethodCard, Status: models.PaymentStatusCompleted, Reference: "B-1"},
	}
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}

	total, err := repo.SumCompleted(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 3000.0, total, "failed entries do not count")

	total, err = repo.SumCompleted(context.Background(), 99)
	require.NoError(t, err)
	require.Equal(t, 0.0, total)
}

func TestPaymentRepositoryGetByReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)

	payment := models.Payment{OfferID: 5, Amount: 4000, Method: models.PaymentMethodManualOverride, Status: models.PaymentStatusCompleted, Reference: "MANUAL-1"}
	require.NoError(t, repo.Create(context.Background(), &payment))

	found, err := repo.GetByReference(context.Background(), "MANUAL-1")
	require.NoError(t, err)
	require.Equal(t, payment.ID, found.ID)
	require.Equal(t, models.PaymentMethodManualOverride, found.Method)
}
