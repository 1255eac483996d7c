package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kinetic/internal/application/auth"
	"github.com/jhoicas/kinetic/internal/application/authz"
	"github.com/jhoicas/kinetic/internal/application/billing"
	"github.com/jhoicas/kinetic/internal/application/mail"
	"github.com/jhoicas/kinetic/internal/application/tracking"
	"github.com/jhoicas/kinetic/internal/application/usecase"
	"github.com/jhoicas/kinetic/internal/domain/access"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Authz        *authz.Service
	WorkspaceUC  *usecase.WorkspaceUseCase
	UserUC       *usecase.UserUseCase
	ClientUC     *usecase.ClientUseCase
	CrewUC       *usecase.CrewUseCase
	DashboardUC  *usecase.DashboardUseCase
	DeploymentUC *tracking.DeploymentUseCase
	TrackingUC   *tracking.TrackingUseCase
	InvoiceUC    *billing.InvoiceUseCase
	MailUC       *mail.MailUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group(APIPrefix)

	authHandler := NewAuthHandler(deps.AuthUC)
	workspaceHandler := NewWorkspaceHandler(deps.WorkspaceUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/join/:slug", authHandler.Join)
	authGroup.Post("/admin-login", authHandler.AdminLogin)

	// Panel de administración
	admin := api.Group("/admin", AdminMiddleware(deps.AuthUC))
	admin.Get("/workspaces", workspaceHandler.List)
	admin.Post("/workspaces", workspaceHandler.Create)
	admin.Get("/workspaces/:id", workspaceHandler.Get)
	admin.Put("/workspaces/:id", workspaceHandler.Update)
	admin.Delete("/workspaces/:id", workspaceHandler.Delete)
	admin.Get("/workspaces/:id/email-settings", workspaceHandler.AdminEmailSettings)
	admin.Put("/workspaces/:id/email-settings", workspaceHandler.AdminUpdateEmailSettings)

	// Rutas del workspace (sesión + slug propio)
	t := api.Group("/t/:slug", AuthMiddleware(deps.AuthUC), TenantGuard())
	t.Get("/me", authHandler.Me)

	can := func(resource string, action access.Action) fiber.Handler {
		return RequirePermission(deps.Authz, resource, action)
	}
	view := func(resource string) fiber.Handler { return can(resource, access.ActionView) }
	edit := func(resource string) fiber.Handler { return can(resource, access.ActionEdit) }
	del := func(resource string) fiber.Handler { return can(resource, access.ActionDelete) }

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	t.Get("/dashboard", view(access.ResourceDashboard), dashboardHandler.Summary)

	// Ajustes del workspace
	t.Get("/settings/email", view(access.ResourceSettings), workspaceHandler.EmailSettings)
	t.Put("/settings/email", edit(access.ResourceSettings), workspaceHandler.UpdateEmailSettings)

	// Usuarios (solo Owner/Admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := t.Group("/users", RequireRole(entity.RoleOwner, entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)
	users.Get("/:id/permissions", userHandler.Permissions)
	users.Put("/:id/permissions", userHandler.ReplacePermissions)

	// Clientes, contactos y citas
	clientHandler := NewClientHandler(deps.ClientUC)
	res := access.ResourceClients
	t.Get("/clients", view(res), clientHandler.List)
	t.Post("/clients", edit(res), clientHandler.Create)
	t.Get("/clients/:id", view(res), clientHandler.Detail)
	t.Put("/clients/:id", edit(res), clientHandler.Update)
	t.Delete("/clients/:id", del(res), clientHandler.Delete)
	t.Get("/clients/:id/contacts", view(res), clientHandler.ListContacts)
	t.Post("/clients/:id/contacts", edit(res), clientHandler.CreateContact)
	t.Get("/clients/:id/contacts/:contactID", view(res), clientHandler.GetContact)
	t.Put("/clients/:id/contacts/:contactID", edit(res), clientHandler.UpdateContact)
	t.Delete("/clients/:id/contacts/:contactID", del(res), clientHandler.DeleteContact)
	t.Get("/clients/:id/appointments", view(res), clientHandler.ListAppointments)
	t.Post("/clients/:id/appointments", edit(res), clientHandler.CreateAppointment)
	t.Get("/clients/:id/appointments/:appointmentID", view(res), clientHandler.GetAppointment)
	t.Put("/clients/:id/appointments/:appointmentID", edit(res), clientHandler.UpdateAppointment)
	t.Delete("/clients/:id/appointments/:appointmentID", del(res), clientHandler.DeleteAppointment)

	// Emails
	emailHandler := NewEmailHandler(deps.MailUC)
	t.Get("/emails", view(res), emailHandler.List)
	t.Post("/emails", edit(res), emailHandler.Queue)
	t.Get("/emails/:id", view(res), emailHandler.Get)

	// Equipos y miembros
	crewHandler := NewCrewHandler(deps.CrewUC)
	res = access.ResourceCrew
	t.Get("/crews", view(res), crewHandler.List)
	t.Post("/crews", edit(res), crewHandler.Create)
	t.Post("/crews/recommend", view(res), crewHandler.Recommend)
	t.Get("/crews/:id", view(res), crewHandler.Detail)
	t.Put("/crews/:id", edit(res), crewHandler.Update)
	t.Delete("/crews/:id", del(res), crewHandler.Delete)
	t.Get("/crews/:id/members", view(res), crewHandler.ListMembers)
	t.Post("/crews/:id/members", edit(res), crewHandler.CreateMember)
	t.Get("/crews/:id/members/:memberID", view(res), crewHandler.GetMember)
	t.Put("/crews/:id/members/:memberID", edit(res), crewHandler.UpdateMember)
	t.Delete("/crews/:id/members/:memberID", del(res), crewHandler.DeleteMember)

	// Despliegues
	deploymentHandler := NewDeploymentHandler(deps.DeploymentUC, deps.TrackingUC)
	res = access.ResourceDeployments
	t.Get("/deployments", view(res), deploymentHandler.List)
	t.Post("/deployments", edit(res), deploymentHandler.Create)
	t.Post("/deployments/estimate", view(res), deploymentHandler.EstimateFee)
	t.Post("/deployments/recommend", view(res), deploymentHandler.Recommend)
	t.Get("/deployments/:id", view(res), deploymentHandler.Detail)
	t.Put("/deployments/:id", edit(res), deploymentHandler.Update)
	t.Delete("/deployments/:id", del(res), deploymentHandler.Delete)

	// Seguimiento: jornadas y temporizadores
	res = access.ResourceTracking
	t.Get("/deployments/:id/updates", view(res), deploymentHandler.ListUpdates)
	t.Post("/deployments/:id/updates", edit(res), deploymentHandler.CreateUpdate)
	t.Put("/updates/:id", edit(res), deploymentHandler.UpdateUpdate)
	t.Delete("/updates/:id", del(res), deploymentHandler.DeleteUpdate)
	t.Get("/timer", view(res), deploymentHandler.ActiveTimer)
	t.Post("/deployments/:id/timer/start", edit(res), deploymentHandler.StartTimer)
	t.Post("/deployments/:id/timer/stop", edit(res), deploymentHandler.StopTimer)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	res = access.ResourceInvoices
	t.Get("/invoices", view(res), invoiceHandler.List)
	t.Post("/invoices", edit(res), invoiceHandler.Create)
	t.Get("/invoices/candidates", view(res), invoiceHandler.Candidates)
	t.Get("/invoices/:id", view(res), invoiceHandler.Detail)
	t.Put("/invoices/:id", edit(res), invoiceHandler.Update)
	t.Delete("/invoices/:id", del(res), invoiceHandler.Delete)
	t.Get("/invoices/:id/pdf", view(res), invoiceHandler.PDF)
	t.Get("/invoices/:id/email", view(res), invoiceHandler.EmailDraft)
	t.Post("/invoices/:id/email", edit(res), invoiceHandler.SendEmail)
}
