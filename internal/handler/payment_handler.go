package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/service"
	"github.com/noah-isme/admisia-go-api/internal/utils"
)

// PaymentHandler serves the payment gateway webhook and the staff
// reconciliation path.
type PaymentHandler struct {
	payments service.PaymentService
	logger   zerolog.Logger
}

// NewPaymentHandler builds a payment handler instance.
func NewPaymentHandler(payments service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register attaches the gateway routes to the provided router group.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Post("", h.record)
}

// RegisterManual attaches the staff reconciliation route.
func (h *PaymentHandler) RegisterManual(router fiber.Router) {
	router.Post("/manual", h.recordManual)
}

// RegisterOfferPayments attaches the per-offer ledger listing.
func (h *PaymentHandler) RegisterOfferPayments(router fiber.Router) {
	router.Get("/:id/payments", h.listByOffer)
}

func (h *PaymentHandler) record(c *fiber.Ctx) error {
	var payload dto.PaymentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.payments.Record(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithWarnings(c, "payment recorded", result, result.Warnings)
}

func (h *PaymentHandler) recordManual(c *fiber.Ctx) error {
	var payload dto.ManualPaymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.payments.RecordManual(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithWarnings(c, "manual payment recorded", result, result.Warnings)
}

func (h *PaymentHandler) listByOffer(c *fiber.Ctx) error {
	offerID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payments, err := h.payments.ListByOffer(c.Context(), offerID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var invalidTransition lifecycle.ErrInvalidTransition
	switch {
	case errors.Is(err, service.ErrOfferNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "offer not found")
	case errors.Is(err, service.ErrDuplicatePayment):
		return utils.SendError(c, fiber.StatusConflict, "payment reference already recorded")
	case errors.Is(err, service.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, "application was modified concurrently, retry")
	case errors.As(err, &invalidTransition):
		return utils.SendError(c, fiber.StatusConflict, invalidTransition.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
