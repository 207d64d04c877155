package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/handler"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/service"
)

type mockApplicationService struct {
	response dto.ApplicationResponse
	err      error
	lastID   uint
}

func (m *mockApplicationService) Create(_ context.Context, applicantID uint, _ dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	m.lastID = applicantID
	return m.response, m.err
}

func (m *mockApplicationService) Update(_ context.Context, id, _ uint, _ dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error) {
	m.lastID = id
	return m.response, m.err
}

func (m *mockApplicationService) Get(_ context.Context, id uint, _ service.Actor) (dto.ApplicationResponse, error) {
	m.lastID = id
	return m.response, m.err
}

func (m *mockApplicationService) ListByApplicant(_ context.Context, applicantID uint) ([]dto.ApplicationResponse, error) {
	m.lastID = applicantID
	if m.err != nil {
		return nil, m.err
	}
	return []dto.ApplicationResponse{m.response}, nil
}

func (m *mockApplicationService) Delete(_ context.Context, id uint, _ service.Actor) error {
	m.lastID = id
	return m.err
}

func (m *mockApplicationService) Notifications(_ context.Context, id uint, _ service.Actor) ([]dto.NotificationResponse, error) {
	m.lastID = id
	return nil, m.err
}

type mockEngine struct {
	response  dto.TransitionResponse
	err       error
	lastID    uint
	lastActor service.Actor
	calls     []string
}

func (m *mockEngine) invoke(name string, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	m.calls = append(m.calls, name)
	m.lastID = id
	m.lastActor = actor
	return m.response, m.err
}

func (m *mockEngine) Submit(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("submit", id, actor)
}

func (m *mockEngine) MoveToReview(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("move_to_review", id, actor)
}

func (m *mockEngine) RequestDocs(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("request_docs", id, actor)
}

func (m *mockEngine) Admit(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("admit", id, actor)
}

func (m *mockEngine) Reject(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("reject", id, actor)
}

func (m *mockEngine) AcceptOffer(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("accept_offer", id, actor)
}

func (m *mockEngine) DeclineOffer(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("decline_offer", id, actor)
}

func (m *mockEngine) PaymentCompleted(_ context.Context, id uint, actor service.Actor, _ bool) (models.Application, []string, error) {
	_, err := m.invoke("payment_completed", id, actor)
	return models.Application{}, nil, err
}

func (m *mockEngine) Finalize(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("finalize", id, actor)
}

func (m *mockEngine) RegenerateDocument(_ context.Context, id uint, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("regenerate_document", id, actor)
}

func (m *mockEngine) ResendNotification(_ context.Context, id uint, _ string, actor service.Actor) (dto.TransitionResponse, error) {
	return m.invoke("resend_notification", id, actor)
}

func newApplicationApp(apps *mockApplicationService, engine *mockEngine, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/applications", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(10))
		c.Locals("user_role", role)
		return c.Next()
	})
	handler.NewApplicationHandler(apps, engine, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestApplicationHandlerCreate(t *testing.T) {
	apps := &mockApplicationService{response: dto.ApplicationResponse{ID: 1, Status: lifecycle.StatusDraft}}
	app := newApplicationApp(apps, &mockEngine{}, "applicant")

	body, err := json.Marshal(dto.ApplicationCreateRequest{ProgramID: 1, FullName: "Ada Lovelace"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(10), apps.lastID, "applicant id taken from the token, not the payload")
}

func TestApplicationHandlerSubmitCarriesWarnings(t *testing.T) {
	engine := &mockEngine{response: dto.TransitionResponse{
		Application: dto.ApplicationResponse{ID: 5, Status: lifecycle.StatusSubmitted},
		Warnings:    []string{"notification failed: smtp down"},
	}}
	app := newApplicationApp(&mockApplicationService{}, engine, "applicant")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/5/submit", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"submit"}, engine.calls)
	require.Equal(t, uint(5), engine.lastID)
	require.Equal(t, lifecycle.ActorApplicant, engine.lastActor.Role)

	var payload struct {
		Success  bool     `json:"success"`
		Warnings []string `json:"warnings"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, []string{"notification failed: smtp down"}, payload.Warnings)
}

func TestApplicationHandlerInvalidTransitionConflict(t *testing.T) {
	engine := &mockEngine{err: lifecycle.ErrInvalidTransition{From: lifecycle.StatusRejected, Event: lifecycle.EventSubmit}}
	app := newApplicationApp(&mockApplicationService{}, engine, "applicant")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/5/submit", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestApplicationHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "not found", err: service.ErrApplicationNotFound, statusCode: fiber.StatusNotFound},
		{name: "not owner", err: service.ErrNotOwner, statusCode: fiber.StatusForbidden},
		{name: "sections incomplete", err: service.ErrSectionsIncomplete, statusCode: fiber.StatusUnprocessableEntity},
		{name: "offer missing", err: service.ErrOfferMissing, statusCode: fiber.StatusUnprocessableEntity},
		{name: "lost race", err: service.ErrConflict, statusCode: fiber.StatusConflict},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &mockEngine{err: tc.err}
			app := newApplicationApp(&mockApplicationService{}, engine, "applicant")

			req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/5/offer/accept", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestApplicationHandlerDeleteRetained(t *testing.T) {
	apps := &mockApplicationService{err: service.ErrApplicationRetained}
	app := newApplicationApp(apps, &mockEngine{}, "applicant")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/applications/5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestApplicationHandlerBadID(t *testing.T) {
	app := newApplicationApp(&mockApplicationService{}, &mockEngine{}, "applicant")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/abc/submit", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
