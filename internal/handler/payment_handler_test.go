package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/handler"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/service"
)

type mockPaymentService struct {
	response    dto.RecordPaymentResponse
	err         error
	lastPayload dto.PaymentCreateRequest
	manual      bool
	lastManual  dto.ManualPaymentRequest
}

func (m *mockPaymentService) Record(_ context.Context, payload dto.PaymentCreateRequest, _ service.Actor) (dto.RecordPaymentResponse, error) {
	m.lastPayload = payload
	return m.response, m.err
}

func (m *mockPaymentService) RecordManual(_ context.Context, payload dto.ManualPaymentRequest, _ service.Actor) (dto.RecordPaymentResponse, error) {
	m.manual = true
	m.lastManual = payload
	return m.response, m.err
}

func (m *mockPaymentService) ListByOffer(_ context.Context, _ uint) ([]dto.PaymentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.PaymentResponse{m.response.Payment}, nil
}

func newPaymentApp(payments *mockPaymentService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/payments", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "staff")
		return c.Next()
	})
	handler.NewPaymentHandler(payments, zerolog.New(io.Discard)).Register(group)
	handler.NewPaymentHandler(payments, zerolog.New(io.Discard)).RegisterManual(group)

	offers := app.Group("/api/v1/offers")
	handler.NewPaymentHandler(payments, zerolog.New(io.Discard)).RegisterOfferPayments(offers)
	return app
}

func TestPaymentHandlerRecord(t *testing.T) {
	payments := &mockPaymentService{response: dto.RecordPaymentResponse{
		Payment: dto.PaymentResponse{ID: 1, Reference: "TXN-1", Status: models.PaymentStatusCompleted},
	}}
	app := newPaymentApp(payments)

	body, err := json.Marshal(dto.PaymentCreateRequest{
		OfferID:   3,
		Amount:    3000,
		Method:    models.PaymentMethodCard,
		Reference: "TXN-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "TXN-1", payments.lastPayload.Reference)
}

func TestPaymentHandlerDuplicateReference(t *testing.T) {
	payments := &mockPaymentService{err: service.ErrDuplicatePayment}
	app := newPaymentApp(payments)

	body, err := json.Marshal(dto.PaymentCreateRequest{
		OfferID:   3,
		Amount:    3000,
		Method:    models.PaymentMethodCard,
		Reference: "TXN-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPaymentHandlerManual(t *testing.T) {
	payments := &mockPaymentService{response: dto.RecordPaymentResponse{
		Payment: dto.PaymentResponse{ID: 2, Method: models.PaymentMethodManualOverride},
	}}
	app := newPaymentApp(payments)

	body, err := json.Marshal(dto.ManualPaymentRequest{OfferID: 3, Amount: 3000, Reference: "RECON-1", Finalize: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/manual", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payments.manual)
	require.True(t, payments.lastManual.Finalize, "finalize flag reaches the service")
}

func TestPaymentHandlerListByOffer(t *testing.T) {
	payments := &mockPaymentService{response: dto.RecordPaymentResponse{
		Payment: dto.PaymentResponse{ID: 1, OfferID: 3},
	}}
	app := newPaymentApp(payments)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/3/payments", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaymentHandlerUnknownOffer(t *testing.T) {
	payments := &mockPaymentService{err: service.ErrOfferNotFound}
	app := newPaymentApp(payments)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/3/payments", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
