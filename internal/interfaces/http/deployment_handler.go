package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/tracking"
)

// DeploymentHandler despliegues, jornadas y temporizadores.
type DeploymentHandler struct {
	deployments *tracking.DeploymentUseCase
	tracking    *tracking.TrackingUseCase
}

// NewDeploymentHandler construye el handler.
func NewDeploymentHandler(deployments *tracking.DeploymentUseCase, tr *tracking.TrackingUseCase) *DeploymentHandler {
	return &DeploymentHandler{deployments: deployments, tracking: tr}
}

// Create POST /api/t/:slug/deployments
func (h *DeploymentHandler) Create(c *fiber.Ctx) error {
	var in dto.DeploymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.deployments.Create(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/t/:slug/deployments. ?group=client agrupa por cliente.
func (h *DeploymentHandler) List(c *fiber.Ctx) error {
	tenantID := CurrentUser(c).TenantID
	if c.Query("group") == "client" {
		res, err := h.deployments.ListGrouped(c.UserContext(), tenantID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
	res, err := h.deployments.List(c.UserContext(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Detail GET /api/t/:slug/deployments/:id
func (h *DeploymentHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	u := CurrentUser(c)
	res, err := h.deployments.Detail(c.UserContext(), u.TenantID, u.ID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Update PUT /api/t/:slug/deployments/:id
func (h *DeploymentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.DeploymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.deployments.Update(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/t/:slug/deployments/:id
func (h *DeploymentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.deployments.Delete(c.UserContext(), CurrentUser(c).TenantID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EstimateFee POST /api/t/:slug/deployments/estimate
func (h *DeploymentHandler) EstimateFee(c *fiber.Ctx) error {
	var in dto.FeeEstimateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return c.JSON(h.deployments.EstimateFee(in))
}

// Recommend POST /api/t/:slug/deployments/recommend
func (h *DeploymentHandler) Recommend(c *fiber.Ctx) error {
	var in dto.RecommendRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.deployments.Recommend(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ── Jornadas ─────────────────────────────────────────────────────────────────

// ListUpdates GET /api/t/:slug/deployments/:id/updates
func (h *DeploymentHandler) ListUpdates(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.tracking.ListUpdates(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// CreateUpdate POST /api/t/:slug/deployments/:id/updates
func (h *DeploymentHandler) CreateUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.WorkUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.DeploymentID = id
	u := CurrentUser(c)
	res, err := h.tracking.CreateUpdate(c.UserContext(), u.TenantID, u.ID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// UpdateUpdate PUT /api/t/:slug/updates/:id
func (h *DeploymentHandler) UpdateUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.WorkUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.tracking.UpdateUpdate(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeleteUpdate DELETE /api/t/:slug/updates/:id
func (h *DeploymentHandler) DeleteUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	deploymentID, err := h.tracking.DeleteUpdate(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deployment_id": deploymentID})
}

// ── Temporizadores ───────────────────────────────────────────────────────────

// StartTimer POST /api/t/:slug/deployments/:id/timer/start
func (h *DeploymentHandler) StartTimer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	u := CurrentUser(c)
	res, err := h.tracking.StartTimer(c.UserContext(), u.TenantID, u.ID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// StopTimer POST /api/t/:slug/deployments/:id/timer/stop
func (h *DeploymentHandler) StopTimer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	u := CurrentUser(c)
	res, err := h.tracking.StopTimer(c.UserContext(), u.TenantID, u.ID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ActiveTimer GET /api/t/:slug/timer. 204 si no hay temporizador abierto.
func (h *DeploymentHandler) ActiveTimer(c *fiber.Ctx) error {
	u := CurrentUser(c)
	res, err := h.tracking.ActiveTimer(c.UserContext(), u.TenantID, u.ID)
	if err != nil {
		return writeError(c, err)
	}
	if res == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(res)
}
