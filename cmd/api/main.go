package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/kinetic/internal/application/auth"
	"github.com/jhoicas/kinetic/internal/application/authz"
	"github.com/jhoicas/kinetic/internal/application/billing"
	"github.com/jhoicas/kinetic/internal/application/mail"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/application/tracking"
	"github.com/jhoicas/kinetic/internal/application/usecase"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/infrastructure/cache"
	"github.com/jhoicas/kinetic/internal/infrastructure/catalog"
	"github.com/jhoicas/kinetic/internal/infrastructure/mailer"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
	"github.com/jhoicas/kinetic/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/kinetic/internal/infrastructure/pdf"
	"github.com/jhoicas/kinetic/internal/infrastructure/postgres"
	"github.com/jhoicas/kinetic/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/kinetic/internal/interfaces/http"
	"github.com/jhoicas/kinetic/pkg/config"
	"github.com/jhoicas/kinetic/pkg/logger"
	"github.com/jhoicas/kinetic/pkg/session"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Persistencia ─────────────────────────────────────────────────────────
	var reg repository.Registry
	switch cfg.Storage.Driver {
	case "memory":
		reg = memory.New().Registry()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		reg = postgres.NewRegistry(pool)
	}
	if err := catalog.Seed(ctx, reg.Plans); err != nil {
		log.Fatal().Err(err).Msg("catálogo de planes")
	}

	// ── Sesiones ─────────────────────────────────────────────────────────────
	issuer, err := session.NewIssuer(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("emisor de sesiones")
	}
	var revoker ports.SessionRevoker = cache.NewMemoryRevoker()
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración de Redis")
		}
		defer rdb.Close()
		redisRevoker := cache.NewRedisRevoker(rdb)
		if err := redisRevoker.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		revoker = redisRevoker
	}

	// ── Casos de uso ─────────────────────────────────────────────────────────
	m := metrics.New(cfg.Metrics.Namespace, nil)
	gate := quota.NewGate(reg.Tenants, reg.Plans)
	authUC := auth.NewAuthUseCase(reg.Tenants, reg.Users, reg.Admins, gate, issuer, revoker)
	if created, err := authUC.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("administrador inicial")
	} else if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}
	authzSvc := authz.NewService(reg.Permissions, reg.Users, reg.Tx, m)

	smtp := mailer.NewSMTP(15 * time.Second)
	mailUC := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{
		entity.EmailProviderMailtrap: smtp,
		entity.EmailProviderSMTP:     smtp,
		entity.EmailProviderSES:      mailer.NewSES(),
	}, m)
	trackingUC := tracking.NewTrackingUseCase(reg.Deployments, reg.Updates, reg.Timers, reg.Tx, m)
	invoiceUC := billing.NewInvoiceUseCase(reg.Invoices, reg.Deployments, reg.Updates, reg.Tenants,
		infrapdf.NewMarotoPDFGenerator(), mailUC, m)

	// ── HTTP ─────────────────────────────────────────────────────────────────
	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, m)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Kinetic API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Authz:        authzSvc,
		WorkspaceUC:  usecase.NewWorkspaceUseCase(reg.Tenants, reg.Plans),
		UserUC:       usecase.NewUserUseCase(reg.Users, reg.Tx, gate, authzSvc),
		ClientUC:     usecase.NewClientUseCase(reg.Clients, reg.Contacts, reg.Appointments, reg.Tx, gate),
		CrewUC:       usecase.NewCrewUseCase(reg.Crews, reg.Members, reg.Users, reg.Deployments, reg.Tx, gate),
		DashboardUC:  usecase.NewDashboardUseCase(reg, gate),
		DeploymentUC: tracking.NewDeploymentUseCase(reg.Deployments, reg.Clients, reg.Crews, reg.Updates, reg.Timers, gate),
		TrackingUC:   trackingUC,
		InvoiceUC:    invoiceUC,
		MailUC:       mailUC,
	})

	// ── Jobs ─────────────────────────────────────────────────────────────────
	jobs, err := scheduler.New(scheduler.Config{
		EmailDrainInterval: cfg.Scheduler.EmailDrainInterval,
		EmailDrainBatch:    cfg.Scheduler.EmailDrainBatch,
		TimerSweepInterval: cfg.Scheduler.TimerSweepInterval,
	}, mailUC, trackingUC, log)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	jobs.Start()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := jobs.Shutdown(); err != nil {
		log.Error().Err(err).Msg("apagado del scheduler")
	}

	log.Info().Msg("aplicación detenida")
}
