package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/lifecycle"
	"github.com/noah-isme/admisia-go-api/internal/service"
	"github.com/noah-isme/admisia-go-api/internal/utils"
)

// ApplicationHandler serves applicant self-service endpoints: draft
// management, submission, and offer responses.
type ApplicationHandler struct {
	applications service.ApplicationService
	engine       service.AdmissionService
	logger       zerolog.Logger
}

// NewApplicationHandler builds an application handler instance.
func NewApplicationHandler(applications service.ApplicationService, engine service.AdmissionService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		engine:       engine,
		logger:       logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/submit", h.submit)
	router.Post("/:id/offer/accept", h.acceptOffer)
	router.Post("/:id/offer/decline", h.declineOffer)
	router.Get("/:id/notifications", h.notifications)
}

func (h *ApplicationHandler) create(c *fiber.Ctx) error {
	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.applications.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application created", application)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	applications, err := h.applications.ListByApplicant(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *ApplicationHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	application, err := h.applications.Get(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application retrieved", application)
}

func (h *ApplicationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplicationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.applications.Update(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application updated", application)
}

func (h *ApplicationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.applications.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application deleted", nil)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Submit, "application submitted")
}

func (h *ApplicationHandler) acceptOffer(c *fiber.Ctx) error {
	return h.transition(c, h.engine.AcceptOffer, "offer accepted")
}

func (h *ApplicationHandler) declineOffer(c *fiber.Ctx) error {
	return h.transition(c, h.engine.DeclineOffer, "offer declined")
}

func (h *ApplicationHandler) notifications(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notifications, err := h.applications.Notifications(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notifications retrieved", notifications)
}

type transitionFunc func(ctx context.Context, applicationID uint, actor service.Actor) (dto.TransitionResponse, error)

func (h *ApplicationHandler) transition(c *fiber.Ctx, fn transitionFunc, message string) error {
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

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var invalidTransition lifecycle.ErrInvalidTransition
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrProgramNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "program not found")
	case errors.Is(err, service.ErrNotOwner):
		return utils.SendError(c, fiber.StatusForbidden, "application belongs to another applicant")
	case errors.Is(err, service.ErrDuplicateApplication):
		return utils.SendError(c, fiber.StatusConflict, "an active application already exists for this program")
	case errors.Is(err, service.ErrNotEditable):
		return utils.SendError(c, fiber.StatusConflict, "application can no longer be edited")
	case errors.Is(err, service.ErrApplicationRetained):
		return utils.SendError(c, fiber.StatusConflict, "enrolled applications are permanently retained")
	case errors.Is(err, service.ErrSectionsIncomplete):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "application sections are incomplete")
	case errors.Is(err, service.ErrOfferMissing):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "no financial offer exists for this application")
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
