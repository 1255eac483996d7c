package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/billing"
	"github.com/jhoicas/kinetic/internal/application/dto"
)

// InvoiceHandler facturas, PDF y envío por email.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create POST /api/t/:slug/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Create(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/t/:slug/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	res, err := h.uc.List(c.UserContext(), CurrentUser(c).TenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Candidates GET /api/t/:slug/invoices/candidates
func (h *InvoiceHandler) Candidates(c *fiber.Ctx) error {
	res, err := h.uc.Candidates(c.UserContext(), CurrentUser(c).TenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Detail GET /api/t/:slug/invoices/:id
func (h *InvoiceHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Detail(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Update PUT /api/t/:slug/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Update(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/t/:slug/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.uc.Delete(c.UserContext(), CurrentUser(c).TenantID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF GET /api/t/:slug/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	data, filename, err := h.uc.DownloadPDF(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// EmailDraft GET /api/t/:slug/invoices/:id/email
func (h *InvoiceHandler) EmailDraft(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.EmailDraft(c.UserContext(), CurrentUser(c).TenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// SendEmail POST /api/t/:slug/invoices/:id/email
func (h *InvoiceHandler) SendEmail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.SendInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.SendEmail(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}
