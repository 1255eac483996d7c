package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/usecase"
)

// DashboardHandler resumen del workspace.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary GET /api/t/:slug/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	res, err := h.uc.Summary(c.UserContext(), CurrentUser(c).TenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
