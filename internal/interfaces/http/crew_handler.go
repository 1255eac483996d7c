package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/usecase"
)

// CrewHandler equipos, miembros y recomendación.
type CrewHandler struct {
	uc *usecase.CrewUseCase
}

// NewCrewHandler construye el handler.
func NewCrewHandler(uc *usecase.CrewUseCase) *CrewHandler {
	return &CrewHandler{uc: uc}
}

// Create POST /api/t/:slug/crews
func (h *CrewHandler) Create(c *fiber.Ctx) error {
	var in dto.CrewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.CreateCrew(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/t/:slug/crews?page=1 (con readiness)
func (h *CrewHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.ListCrews(c.UserContext(), CurrentUser(c).TenantID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Detail GET /api/t/:slug/crews/:id?members_page=1
func (h *CrewHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Detail(c.UserContext(), CurrentUser(c).TenantID, id, pageQuery(c, "members_page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Update PUT /api/t/:slug/crews/:id
func (h *CrewHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.CrewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.UpdateCrew(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/t/:slug/crews/:id
func (h *CrewHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.uc.DeleteCrew(c.UserContext(), CurrentUser(c).TenantID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recommend POST /api/t/:slug/crews/recommend
func (h *CrewHandler) Recommend(c *fiber.Ctx) error {
	var in dto.RecommendRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Recommend(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ── Miembros ─────────────────────────────────────────────────────────────────

// CreateMember POST /api/t/:slug/crews/:id/members
func (h *CrewHandler) CreateMember(c *fiber.Ctx) error {
	crewID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.MemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.CreateMember(c.UserContext(), CurrentUser(c).TenantID, crewID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListMembers GET /api/t/:slug/crews/:id/members?page=1
func (h *CrewHandler) ListMembers(c *fiber.Ctx) error {
	crewID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.ListMembers(c.UserContext(), CurrentUser(c).TenantID, crewID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetMember GET /api/t/:slug/crews/:id/members/:memberID
func (h *CrewHandler) GetMember(c *fiber.Ctx) error {
	crewID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "memberID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	res, err := h.uc.GetMember(c.UserContext(), CurrentUser(c).TenantID, crewID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateMember PUT /api/t/:slug/crews/:id/members/:memberID
func (h *CrewHandler) UpdateMember(c *fiber.Ctx) error {
	crewID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "memberID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	var in dto.MemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.UpdateMember(c.UserContext(), CurrentUser(c).TenantID, crewID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeleteMember DELETE /api/t/:slug/crews/:id/members/:memberID
func (h *CrewHandler) DeleteMember(c *fiber.Ctx) error {
	crewID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "memberID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	if err := h.uc.DeleteMember(c.UserContext(), CurrentUser(c).TenantID, crewID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
