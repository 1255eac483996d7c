package http

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/access"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// Locals keys.
const (
	LocalUser  = "user"
	LocalAdmin = "admin"
	LocalToken = "session_token"
)

// SessionCookie cookie alternativa al header Authorization.
const SessionCookie = "kinetic_session"

// APIPrefix raíz de todas las rutas.
const APIPrefix = "/api"

// TenantPath ruta absoluta dentro del workspace: TenantPath("acme", "/clients") → /api/t/acme/clients.
func TenantPath(slug, rest string) string {
	return APIPrefix + "/t/" + slug + rest
}

// identityResolver lo implementa *auth.AuthUseCase.
type identityResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
	ResolveAdmin(ctx context.Context, token string) (*entity.Admin, error)
}

// permissionChecker lo implementa *authz.Service.
type permissionChecker interface {
	Can(ctx context.Context, user *entity.User, resource string, action access.Action) (bool, error)
}

// requestObserver lo implementa *metrics.Prometheus.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// sessionToken extrae el token del header "Bearer <token>" o de la cookie de sesión.
func sessionToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(c.Cookies(SessionCookie))
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// AuthMiddleware resuelve la sesión de usuario y la deja en c.Locals.
func AuthMiddleware(resolver identityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authentication required.")
		}
		user, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return unauthorized(c, "INVALID_TOKEN", "Session is invalid or expired.")
			}
			return writeError(c, err)
		}
		c.Locals(LocalUser, user)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// AdminMiddleware resuelve la sesión de administrador.
func AdminMiddleware(resolver identityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authentication required.")
		}
		admin, err := resolver.ResolveAdmin(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return unauthorized(c, "INVALID_TOKEN", "Session is invalid or expired.")
			}
			return writeError(c, err)
		}
		c.Locals(LocalAdmin, admin)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// TenantGuard compara el slug de la URL con el workspace de la sesión. Un slug
// ajeno no cambia de workspace: redirige a la misma ruta bajo el slug propio.
func TenantGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return unauthorized(c, "MISSING_TOKEN", "Authentication required.")
		}
		slug := c.Params("slug")
		if slug == u.TenantSlug {
			return c.Next()
		}
		return c.Redirect(SwapSlug(c.OriginalURL(), slug, u.TenantSlug), fiber.StatusSeeOther)
	}
}

// SwapSlug reemplaza el segmento /t/{from} de la URL por /t/{to}.
func SwapSlug(url, from, to string) string {
	prefix := APIPrefix + "/t/" + from
	if !strings.HasPrefix(url, prefix) {
		return TenantPath(to, "/dashboard")
	}
	rest := url[len(prefix):]
	if rest != "" && rest[0] != '/' && rest[0] != '?' {
		return TenantPath(to, "/dashboard")
	}
	return TenantPath(to, rest)
}

// RequirePermission decide ver/editar/borrar sobre un recurso. Denegado → 303 al dashboard.
func RequirePermission(checker permissionChecker, resource string, action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return unauthorized(c, "MISSING_TOKEN", "Authentication required.")
		}
		ok, err := checker.Can(c.UserContext(), u, resource, action)
		if err != nil {
			return writeError(c, domain.NewStorage("Unable to check permissions", err, nil))
		}
		if !ok {
			return redirectForbidden(c)
		}
		return c.Next()
	}
}

// RequireRole restringe la ruta a los roles indicados (comparación normalizada).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return unauthorized(c, "MISSING_TOKEN", "Authentication required.")
		}
		role := access.NormalizeRole(u.Role)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return redirectForbidden(c)
	}
}

// RequestID propaga X-Request-ID o genera un UUID v4.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// RequestLogger una línea por petición con zerolog.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("[HTTP] request")
		return err
	}
}

// RequestMetrics observa duración y código por patrón de ruta.
func RequestMetrics(obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		obs.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

// ── Locals ───────────────────────────────────────────────────────────────────

// CurrentUser usuario de la sesión (después de AuthMiddleware).
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// CurrentAdmin administrador de la sesión (después de AdminMiddleware).
func CurrentAdmin(c *fiber.Ctx) *entity.Admin {
	a, _ := c.Locals(LocalAdmin).(*entity.Admin)
	return a
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return s
}

// paramID id positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageQuery ?page=N; valores inválidos caen en 1 y el caso de uso acota al rango.
func pageQuery(c *fiber.Ctx, name string) int {
	p, err := strconv.Atoi(c.Query(name, "1"))
	if err != nil {
		return 1
	}
	return p
}
