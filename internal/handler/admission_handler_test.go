package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/handler"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/service"
)

type mockOfferService struct {
	response dto.OfferIssueResponse
	err      error
	lastID   uint
}

func (m *mockOfferService) Issue(_ context.Context, applicationID uint, _ dto.OfferIssueRequest, _ service.Actor) (dto.OfferIssueResponse, error) {
	m.lastID = applicationID
	return m.response, m.err
}

func (m *mockOfferService) EnsureDefault(_ context.Context, _ models.Application) (models.FinancialOffer, error) {
	return models.FinancialOffer{}, m.err
}

func newAdmissionApp(engine *mockEngine, offers *mockOfferService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/applications", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "staff")
		return c.Next()
	})
	handler.NewAdmissionHandler(engine, offers, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestAdmissionHandlerStaffTransitions(t *testing.T) {
	cases := []struct {
		path string
		call string
	}{
		{path: "/api/v1/applications/7/review", call: "move_to_review"},
		{path: "/api/v1/applications/7/request-docs", call: "request_docs"},
		{path: "/api/v1/applications/7/admit", call: "admit"},
		{path: "/api/v1/applications/7/reject", call: "reject"},
		{path: "/api/v1/applications/7/finalize", call: "finalize"},
		{path: "/api/v1/applications/7/documents/regenerate", call: "regenerate_document"},
	}

	for _, tc := range cases {
		t.Run(tc.call, func(t *testing.T) {
			engine := &mockEngine{response: dto.TransitionResponse{Application: dto.ApplicationResponse{ID: 7}}}
			app := newAdmissionApp(engine, &mockOfferService{})

			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			require.Equal(t, []string{tc.call}, engine.calls)
			require.Equal(t, uint(7), engine.lastID)
			require.Equal(t, lifecycle.ActorStaff, engine.lastActor.Role)
		})
	}
}

func TestAdmissionHandlerIssueOffer(t *testing.T) {
	offers := &mockOfferService{response: dto.OfferIssueResponse{Offer: dto.OfferResponse{ID: 3, TuitionFee: 3000}}}
	app := newAdmissionApp(&mockEngine{}, offers)

	body, err := json.Marshal(dto.OfferIssueRequest{
		OfferType:       models.OfferTypeDeposit,
		PaymentDeadline: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/7/offer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), offers.lastID)
}

func TestAdmissionHandlerIssueOfferNotAdmitted(t *testing.T) {
	offers := &mockOfferService{err: service.ErrNotAdmitted}
	app := newAdmissionApp(&mockEngine{}, offers)

	body, err := json.Marshal(dto.OfferIssueRequest{
		OfferType:       models.OfferTypeDeposit,
		PaymentDeadline: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/7/offer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAdmissionHandlerResendNotificationRequiresEventType(t *testing.T) {
	app := newAdmissionApp(&mockEngine{}, &mockOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/7/notifications/resend", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdmissionHandlerResendNotification(t *testing.T) {
	engine := &mockEngine{response: dto.TransitionResponse{Application: dto.ApplicationResponse{ID: 7}}}
	app := newAdmissionApp(engine, &mockOfferService{})

	body := []byte(`{"event_type":"ADMISSION_LETTER_READY"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/7/notifications/resend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"resend_notification"}, engine.calls)
}
