package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

func testApplication(status lifecycle.Status) models.Application {
	return models.Application{
		ApplicantID: 10,
		ProgramID:   1,
		Status:      status,
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		Statement:   "I want to study.",
		Education:   map[string]interface{}{"school": "Example High"},
	}
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestDashboardCountsByStatus(t *testing.T) {
	apps := newAppRepoStub()
	audit := &auditRepoStub{}
	svc := NewAdminService(apps, audit, setupTestRedis(t), time.Minute, testLogger())

	seed := func(status lifecycle.Status) {
		app := testApplication(status)
		require.NoError(t, apps.Create(context.Background(), &app))
	}
	seed(lifecycle.StatusDraft)
	seed(lifecycle.StatusDraft)
	seed(lifecycle.StatusEnrolled)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.TotalApplications)
	require.Equal(t, int64(2), resp.StatusCounts["DRAFT"])
	require.Equal(t, int64(1), resp.StatusCounts["ENROLLED"])
}

func TestDashboardServesCachedStatistics(t *testing.T) {
	apps := newAppRepoStub()
	audit := &auditRepoStub{}
	svc := NewAdminService(apps, audit, setupTestRedis(t), time.Minute, testLogger())

	app := testApplication(lifecycle.StatusDraft)
	require.NoError(t, apps.Create(context.Background(), &app))

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), first.TotalApplications)

	// New rows are invisible until the cache entry expires.
	another := testApplication(lifecycle.StatusSubmitted)
	require.NoError(t, apps.Create(context.Background(), &another))

	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), second.TotalApplications)
}

func TestDashboardWorksWithoutRedis(t *testing.T) {
	apps := newAppRepoStub()
	audit := &auditRepoStub{}
	svc := NewAdminService(apps, audit, nil, time.Minute, testLogger())

	app := testApplication(lifecycle.StatusDraft)
	require.NoError(t, apps.Create(context.Background(), &app))

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.TotalApplications)
}

func TestAuditLogListing(t *testing.T) {
	apps := newAppRepoStub()
	audit := &auditRepoStub{}
	svc := NewAdminService(apps, audit, nil, time.Minute, testLogger())

	engine := NewAdmissionService(apps, newOfferRepoStub(), newStudentRepoStub(), audit, &issuerStub{offers: newOfferRepoStub()}, &docGenStub{}, &notifierStub{}, time.Second, testLogger())

	app := testApplication(lifecycle.StatusDraft)
	require.NoError(t, apps.Create(context.Background(), &app))
	_, err := engine.Submit(context.Background(), app.ID, applicantActor(app.ApplicantID))
	require.NoError(t, err)

	entries, total, err := svc.AuditLog(context.Background(), repository.AuditLogFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "application.submit", entries[0].Action)
}
