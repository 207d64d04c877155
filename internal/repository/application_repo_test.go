package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Program{},
		&models.Application{},
		&models.FinancialOffer{},
		&models.Payment{},
		&models.Student{},
		&models.AuditLog{},
		&models.Notification{},
	))
	return db
}

func TestApplicationRepositoryCommitStatusCAS(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	app := models.Application{ApplicantID: 1, ProgramID: 1, Status: lifecycle.StatusDraft}
	require.NoError(t, repo.Create(context.Background(), &app))

	stored, err := repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)

	committed, err := repo.CommitStatus(context.Background(), StatusUpdate{
		ID:                stored.ID,
		ExpectedUpdatedAt: stored.UpdatedAt,
		Status:            lifecycle.StatusSubmitted,
	})
	require.NoError(t, err)
	require.True(t, committed)

	// A second commit against the stale token must lose the race.
	committed, err = repo.CommitStatus(context.Background(), StatusUpdate{
		ID:                stored.ID,
		ExpectedUpdatedAt: stored.UpdatedAt,
		Status:            lifecycle.StatusRejected,
	})
	require.NoError(t, err)
	require.False(t, committed)

	reloaded, err := repo.GetByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StatusSubmitted, reloaded.Status)
}

func TestApplicationRepositoryFindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	rejected := models.Application{ApplicantID: 7, ProgramID: 2, Status: lifecycle.StatusRejected}
	require.NoError(t, repo.Create(context.Background(), &rejected))

	_, err := repo.FindActive(context.Background(), 7, 2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "terminal applications are not active")

	active := models.Application{ApplicantID: 7, ProgramID: 2, Status: lifecycle.StatusUnderReview}
	require.NoError(t, repo.Create(context.Background(), &active))

	found, err := repo.FindActive(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, active.ID, found.ID)
}

func TestApplicationRepositoryCountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	for i := 0; i < 3; i++ {
		app := models.Application{ApplicantID: uint(i + 1), ProgramID: 1, Status: lifecycle.StatusSubmitted}
		require.NoError(t, repo.Create(context.Background(), &app))
	}
	enrolled := models.Application{ApplicantID: 9, ProgramID: 1, Status: lifecycle.StatusEnrolled}
	require.NoError(t, repo.Create(context.Background(), &enrolled))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), counts[lifecycle.StatusSubmitted])
	require.Equal(t, int64(1), counts[lifecycle.StatusEnrolled])
}

func TestApplicationRepositoryCommitStatusSetsSubmittedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	app := models.Application{ApplicantID: 3, ProgramID: 1, Status: lifecycle.StatusDraft}
	require.NoError(t, repo.Create(context.Background(), &app))

	stored, err := repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)

	submittedAt := time.Now().UTC()
	committed, err := repo.CommitStatus(context.Background(), StatusUpdate{
		ID:                stored.ID,
		ExpectedUpdatedAt: stored.UpdatedAt,
		Status:            lifecycle.StatusSubmitted,
		SubmittedAt:       &submittedAt,
	})
	require.NoError(t, err)
	require.True(t, committed)

	reloaded, err := repo.GetByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.SubmittedAt)
}
