package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
)

// Códigos de error del cuerpo JSON.
const (
	CodeValidation   = "VALIDATION"
	CodeQuota        = "QUOTA_EXCEEDED"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeStorage      = "STORAGE"
	CodeTransport    = "TRANSPORT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInvalidBody  = "INVALID_BODY"
	CodeInternal     = "INTERNAL"
)

// writeError traduce un error de la capa de aplicación a la respuesta HTTP:
//
//	validación / cuota → 422   conflicto → 409   no encontrado → 404
//	almacenamiento → 500       transporte → 502  no autorizado → 401
//	prohibido → 303 al dashboard del propio workspace
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)

	if status == fiber.StatusSeeOther {
		return redirectForbidden(c)
	}

	body := dto.ErrorResponse{Code: code, Message: err.Error()}
	if ve, ok := domain.AsValidation(err); ok {
		body.Form = ve.Form
	}
	if status >= fiber.StatusInternalServerError {
		ev := log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path())
		if u := CurrentUser(c); u != nil {
			ev = ev.Int64("tenant_id", u.TenantID)
		}
		ev.Msg("[HTTP] request failed")
		if code == CodeInternal {
			body.Message = "Internal server error."
		}
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return fiber.StatusUnprocessableEntity, CodeQuota
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity, CodeValidation
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusBadGateway, CodeTransport
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, CodeStorage
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusSeeOther, ""
	}
	return fiber.StatusInternalServerError, CodeInternal
}

// redirectForbidden envía al dashboard del workspace del usuario; sin
// sesión de workspace responde 401.
func redirectForbidden(c *fiber.Ctx) error {
	u := CurrentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthorized, Message: "Authentication required."})
	}
	return c.Redirect(TenantPath(u.TenantSlug, "/dashboard"), fiber.StatusSeeOther)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "Request body is not valid JSON."})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: "Not found."})
}
