package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/usecase"
)

// ClientHandler clientes, contactos y citas.
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// Create POST /api/t/:slug/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.CreateClient(c.UserContext(), CurrentUser(c).TenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List GET /api/t/:slug/clients?page=1. ?all=1 devuelve la lista completa para selectores.
func (h *ClientHandler) List(c *fiber.Ctx) error {
	tenantID := CurrentUser(c).TenantID
	if c.QueryBool("all") {
		res, err := h.uc.ListAllClients(c.UserContext(), tenantID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
	res, err := h.uc.ListClients(c.UserContext(), tenantID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Detail GET /api/t/:slug/clients/:id?contacts_page=1&appointments_page=1
func (h *ClientHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.Detail(c.UserContext(), CurrentUser(c).TenantID, id,
		pageQuery(c, "contacts_page"), pageQuery(c, "appointments_page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Update PUT /api/t/:slug/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.UpdateClient(c.UserContext(), CurrentUser(c).TenantID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete DELETE /api/t/:slug/clients/:id (borrado lógico)
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.uc.DeleteClient(c.UserContext(), CurrentUser(c).TenantID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Contactos ────────────────────────────────────────────────────────────────

// CreateContact POST /api/t/:slug/clients/:id/contacts
func (h *ClientHandler) CreateContact(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.CreateContact(c.UserContext(), CurrentUser(c).TenantID, clientID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListContacts GET /api/t/:slug/clients/:id/contacts?page=1
func (h *ClientHandler) ListContacts(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.ListContacts(c.UserContext(), CurrentUser(c).TenantID, clientID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetContact GET /api/t/:slug/clients/:id/contacts/:contactID
func (h *ClientHandler) GetContact(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "contactID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	res, err := h.uc.GetContact(c.UserContext(), CurrentUser(c).TenantID, clientID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateContact PUT /api/t/:slug/clients/:id/contacts/:contactID
func (h *ClientHandler) UpdateContact(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "contactID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.UpdateContact(c.UserContext(), CurrentUser(c).TenantID, clientID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeleteContact DELETE /api/t/:slug/clients/:id/contacts/:contactID
func (h *ClientHandler) DeleteContact(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "contactID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	if err := h.uc.DeleteContact(c.UserContext(), CurrentUser(c).TenantID, clientID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Citas ────────────────────────────────────────────────────────────────────

// CreateAppointment POST /api/t/:slug/clients/:id/appointments
func (h *ClientHandler) CreateAppointment(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in dto.AppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.CreateAppointment(c.UserContext(), CurrentUser(c).TenantID, clientID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListAppointments GET /api/t/:slug/clients/:id/appointments?page=1
func (h *ClientHandler) ListAppointments(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.uc.ListAppointments(c.UserContext(), CurrentUser(c).TenantID, clientID, pageQuery(c, "page"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetAppointment GET /api/t/:slug/clients/:id/appointments/:appointmentID
func (h *ClientHandler) GetAppointment(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "appointmentID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	res, err := h.uc.GetAppointment(c.UserContext(), CurrentUser(c).TenantID, clientID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateAppointment PUT /api/t/:slug/clients/:id/appointments/:appointmentID
func (h *ClientHandler) UpdateAppointment(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "appointmentID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	var in dto.AppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.UpdateAppointment(c.UserContext(), CurrentUser(c).TenantID, clientID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeleteAppointment DELETE /api/t/:slug/clients/:id/appointments/:appointmentID
func (h *ClientHandler) DeleteAppointment(c *fiber.Ctx) error {
	clientID, ok1 := paramID(c, "id")
	id, ok2 := paramID(c, "appointmentID")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	if err := h.uc.DeleteAppointment(c.UserContext(), CurrentUser(c).TenantID, clientID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
