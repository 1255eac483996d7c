package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/usecase"
)

// UserHandler gestión de usuarios del workspace (Owner/Admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create POST /api/t/:slug/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Create(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/t/:slug/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.List(c.UserContext(), CurrentUser(c).TenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Get GET /api/t/:slug/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Get(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateRole PUT /api/t/:slug/users/:id/role
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	actor := CurrentUser(c)
	res, err := h.uc.UpdateRole(c.UserContext(), actor.TenantID, actor.ID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/t/:slug/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	actor := CurrentUser(c)
	if err := h.uc.Delete(c.UserContext(), actor.TenantID, actor.ID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Permissions GET /api/t/:slug/users/:id/permissions
func (h *UserHandler) Permissions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Permissions(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ReplacePermissions PUT /api/t/:slug/users/:id/permissions
func (h *UserHandler) ReplacePermissions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.PermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.ReplacePermissions(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
