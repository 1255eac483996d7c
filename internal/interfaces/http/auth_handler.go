package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/auth"
	"github.com/jhoicas/kinetic/internal/application/dto"
)

// AuthHandler registro, login y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func setSessionCookie(c *fiber.Ctx, res *dto.LoginResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	setSessionCookie(c, res)
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Join POST /api/auth/join/:slug
func (h *AuthHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Join(c.UserContext(), c.Params("slug"), in)
	if err != nil {
		return writeError(c, err)
	}
	setSessionCookie(c, res)
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	setSessionCookie(c, res)
	return c.JSON(res)
}

// AdminLogin POST /api/auth/admin-login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var in dto.AdminLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.AdminLogin(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	setSessionCookie(c, res)
	return c.JSON(res)
}

// Logout POST /api/auth/logout. Siempre borra la cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := sessionToken(c); token != "" {
		if err := h.uc.Logout(c.UserContext(), token); err != nil {
			return writeError(c, err)
		}
	}
	c.Cookie(&fiber.Cookie{Name: SessionCookie, Value: "", Path: "/", Expires: time.Unix(0, 0), HTTPOnly: true})
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /api/t/:slug/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.NewUserResponse(CurrentUser(c)))
}
