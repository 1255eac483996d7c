package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/mail"
)

// EmailHandler cola de emails salientes.
type EmailHandler struct {
	uc *mail.MailUseCase
}

// NewEmailHandler construye el handler.
func NewEmailHandler(uc *mail.MailUseCase) *EmailHandler {
	return &EmailHandler{uc: uc}
}

// Queue POST /api/t/:slug/emails. 202: el envío puede quedar en cola.
func (h *EmailHandler) Queue(c *fiber.Ctx) error {
	var in dto.EmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.QueueEmail(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}

// List GET /api/t/:slug/emails?page=1
func (h *EmailHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.ListEmails(c.UserContext(), CurrentUser(c).TenantID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Get GET /api/t/:slug/emails/:id
func (h *EmailHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.GetEmail(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
