package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/service"
	"github.com/noah-isme/admisia-go-api/internal/utils"
)

// AdmissionHandler serves the staff console: review transitions, offer
// issuance, document regeneration, and notification resends.
type AdmissionHandler struct {
	engine service.AdmissionService
	offers service.OfferService
	logger zerolog.Logger
}

// NewAdmissionHandler builds an admission handler instance.
func NewAdmissionHandler(engine service.AdmissionService, offers service.OfferService, logger zerolog.Logger) *AdmissionHandler {
	return &AdmissionHandler{
		engine: engine,
		offers: offers,
		logger: logger.With().Str("component", "admission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdmissionHandler) Register(router fiber.Router) {
	router.Post("/:id/review", h.moveToReview)
	router.Post("/:id/request-docs", h.requestDocs)
	router.Post("/:id/admit", h.admit)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/finalize", h.finalize)
	router.Post("/:id/documents/regenerate", h.regenerateDocument)
	router.Post("/:id/notifications/resend", h.resendNotification)
	router.Post("/:id/offer", h.issueOffer)
}

func (h *AdmissionHandler) moveToReview(c *fiber.Ctx) error {
	return h.transition(c, h.engine.MoveToReview, "application moved to review")
}

func (h *AdmissionHandler) requestDocs(c *fiber.Ctx) error {
	return h.transition(c, h.engine.RequestDocs, "additional documents requested")
}

func (h *AdmissionHandler) admit(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Admit, "application admitted")
}

func (h *AdmissionHandler) reject(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Reject, "application rejected")
}

func (h *AdmissionHandler) finalize(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Finalize, "enrollment finalized")
}

func (h *AdmissionHandler) regenerateDocument(c *fiber.Ctx) error {
	return h.transition(c, h.engine.RegenerateDocument, "document regenerated")
}

func (h *AdmissionHandler) resendNotification(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload struct {
		EventType string `json:"event_type"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(payload.EventType) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "event_type is required")
	}

	result, err := h.engine.ResendNotification(c.Context(), id, payload.EventType, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithWarnings(c, "notification resent", result.Application, result.Warnings)
}

func (h *AdmissionHandler) issueOffer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.OfferIssueRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.offers.Issue(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithWarnings(c, "offer issued", result.Offer, result.Warnings)
}

func (h *AdmissionHandler) transition(c *fiber.Ctx, fn transitionFunc, message string) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := fn(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithWarnings(c, message, result.Application, result.Warnings)
}

func (h *AdmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var invalidTransition lifecycle.ErrInvalidTransition
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrOfferMissing):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "no financial offer exists for this application")
	case errors.Is(err, service.ErrNotAdmitted):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "application has not been admitted")
	case errors.Is(err, service.ErrUnknownProgram):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "program fee schedule unavailable")
	case errors.Is(err, service.ErrOfferLocked):
		return utils.SendError(c, fiber.StatusConflict, "offer has completed payments and can no longer be re-issued")
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
