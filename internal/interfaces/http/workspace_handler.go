package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/usecase"
)

// WorkspaceHandler panel de administración de workspaces y ajustes de email.
type WorkspaceHandler struct {
	uc *usecase.WorkspaceUseCase
}

// NewWorkspaceHandler construye el handler.
func NewWorkspaceHandler(uc *usecase.WorkspaceUseCase) *WorkspaceHandler {
	return &WorkspaceHandler{uc: uc}
}

// Create POST /api/admin/workspaces
func (h *WorkspaceHandler) Create(c *fiber.Ctx) error {
	var in dto.WorkspaceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/admin/workspaces?page=1
func (h *WorkspaceHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.List(c.UserContext(), pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Get GET /api/admin/workspaces/:id
func (h *WorkspaceHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Update PUT /api/admin/workspaces/:id
func (h *WorkspaceHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.WorkspaceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/admin/workspaces/:id
func (h *WorkspaceHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminEmailSettings GET /api/admin/workspaces/:id/email-settings
func (h *WorkspaceHandler) AdminEmailSettings(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	return h.emailSettings(c, id)
}

// AdminUpdateEmailSettings PUT /api/admin/workspaces/:id/email-settings
func (h *WorkspaceHandler) AdminUpdateEmailSettings(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	return h.updateEmailSettings(c, id)
}

// EmailSettings GET /api/t/:slug/settings/email
func (h *WorkspaceHandler) EmailSettings(c *fiber.Ctx) error {
	return h.emailSettings(c, CurrentUser(c).TenantID)
}

// UpdateEmailSettings PUT /api/t/:slug/settings/email
func (h *WorkspaceHandler) UpdateEmailSettings(c *fiber.Ctx) error {
	return h.updateEmailSettings(c, CurrentUser(c).TenantID)
}

func (h *WorkspaceHandler) emailSettings(c *fiber.Ctx, tenantID int64) error {
	res, err := h.uc.EmailSettings(c.UserContext(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (h *WorkspaceHandler) updateEmailSettings(c *fiber.Ctx, tenantID int64) error {
	var in dto.EmailSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UpdateEmailSettings(c.UserContext(), tenantID, in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
