package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/repository"
	"github.com/noah-isme/admisia-go-api/internal/service"
	"github.com/noah-isme/admisia-go-api/internal/utils"
)

// AdminHandler serves staff reporting endpoints.
type AdminHandler struct {
	admin  service.AdminService
	logger zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(admin service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Get("/audit-log", h.auditLog)
}

func (h *AdminHandler) dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute dashboard statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard statistics retrieved", stats)
}

func (h *AdminHandler) auditLog(c *fiber.Ctx) error {
	filter := repository.AuditLogFilter{Action: c.Query("action")}

	if page, err := parseQueryInt(c, "page"); err == nil {
		filter.Page = page
	}
	if pageSize, err := parseQueryInt(c, "page_size"); err == nil {
		filter.PageSize = pageSize
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if actorID, err := parseQueryUint(c, "actor_id"); err == nil && actorID != nil {
		filter.ActorID = actorID
	}
	if entityID, err := parseQueryUint(c, "entity_id"); err == nil && entityID != nil {
		filter.EntityID = entityID
	}

	entries, total, err := h.admin.AuditLog(c.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit log")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "audit log retrieved", fiber.Map{
		"entries": entries,
		"total":   total,
	})
}
