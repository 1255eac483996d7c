package http

import (
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kinetic/internal/application/dto"
)

// ServerConfig opciones de la aplicación Fiber.
type ServerConfig struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Metrics lo implementa *metrics.Prometheus.
type Metrics interface {
	requestObserver
	Handler() nethttp.Handler
}

// NewApp crea la aplicación con el middleware común: recover, request id,
// log de peticiones y, si hay métricas, su medición y GET /metrics.
func NewApp(cfg ServerConfig, m Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger())
	if m != nil {
		app.Use(RequestMetrics(m))
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})
	return app
}

// errorHandler errores que escapan de los handlers (404 de rutas, pánicos recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
