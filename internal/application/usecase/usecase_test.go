package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/application/authz"
	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/application/usecase"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
)

type fixture struct {
	reg      repository.Registry
	gate     *quota.Gate
	tenantID int64
	ownerID  int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	reg := memory.New().Registry()
	two := 2
	require.NoError(t, reg.Plans.Upsert(ctx, &entity.PlanLimits{
		Key: "free", Name: "Free", Clients: &two, ContactsPerClient: &two, Crews: &two, MembersPerCrew: &two, Users: &two,
	}))
	require.NoError(t, reg.Plans.Upsert(ctx, &entity.PlanLimits{Key: "enterprise", Name: "Enterprise"}))
	tenant := &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "free"}
	require.NoError(t, reg.Tenants.Create(ctx, tenant))
	owner := &entity.User{TenantID: tenant.ID, Email: "owner@acme.io", Role: entity.RoleOwner}
	require.NoError(t, reg.Users.Create(ctx, owner))
	return fixture{reg: reg, gate: quota.NewGate(reg.Tenants, reg.Plans), tenantID: tenant.ID, ownerID: owner.ID}
}

func (f fixture) clients() *usecase.ClientUseCase {
	return usecase.NewClientUseCase(f.reg.Clients, f.reg.Contacts, f.reg.Appointments, f.reg.Tx, f.gate)
}

func (f fixture) crews() *usecase.CrewUseCase {
	return usecase.NewCrewUseCase(f.reg.Crews, f.reg.Members, f.reg.Users, f.reg.Deployments, f.reg.Tx, f.gate)
}

func message(t *testing.T, err error) string {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "se esperaba ValidationError, llegó %v", err)
	return ve.Message
}

// ──────────────────────────────────────────────────────────────────────────────
// Workspaces
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkspace_CreateAndValidate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := usecase.NewWorkspaceUseCase(f.reg.Tenants, f.reg.Plans)

	res, err := uc.Create(ctx, dto.WorkspaceRequest{Slug: "Globex Corp", Name: " Globex ", PlanKey: "Enterprise"})
	require.NoError(t, err)
	assert.Equal(t, "globex-corp", res.Slug)
	assert.Equal(t, "enterprise", res.PlanKey)

	_, err = uc.Create(ctx, dto.WorkspaceRequest{Slug: "acme", Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Create(ctx, dto.WorkspaceRequest{Slug: "bad_slug", Name: "x"})
	assert.Equal(t, "Slug must be lowercase letters, numbers, or dashes.", message(t, err))
	_, err = uc.Create(ctx, dto.WorkspaceRequest{Slug: "ok", Name: " "})
	assert.Equal(t, "Workspace name is required.", message(t, err))
	_, err = uc.Create(ctx, dto.WorkspaceRequest{Slug: "ok", Name: "Ok", PlanKey: "platinum"})
	assert.Equal(t, "Plan is not supported.", message(t, err))

	page, err := uc.List(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Page)
	assert.Len(t, page.Items, 2)

	require.NoError(t, uc.Delete(ctx, res.ID))
	assert.ErrorIs(t, uc.Delete(ctx, res.ID), domain.ErrNotFound)
}

func TestWorkspace_EmailSettings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := usecase.NewWorkspaceUseCase(f.reg.Tenants, f.reg.Plans)

	cases := []struct {
		in   dto.EmailSettingsRequest
		want string
	}{
		{dto.EmailSettingsRequest{}, "Email provider is required."},
		{dto.EmailSettingsRequest{EmailProvider: "Pigeon", FromAddress: "a@b.io"}, "Email provider is not supported."},
		{dto.EmailSettingsRequest{EmailProvider: "SMTP"}, "From address is required."},
		{dto.EmailSettingsRequest{EmailProvider: "SMTP", FromAddress: "a@b.io", SMTPHost: "smtp.b.io", SMTPUsername: "u"},
			"Missing required fields: SMTP port, SMTP password."},
		{dto.EmailSettingsRequest{EmailProvider: "Amazon SES (Simple Email Service)", FromAddress: "a@b.io", SESAccessKey: "k"},
			"SES access key, secret key, and region are required."},
		{dto.EmailSettingsRequest{EmailProvider: "mailgun", FromAddress: "a@b.io"}, "Mailgun domain and API key are required."},
		{dto.EmailSettingsRequest{EmailProvider: "Postmark", FromAddress: "a@b.io"}, "Postmark server token is required."},
		{dto.EmailSettingsRequest{EmailProvider: "Resend", FromAddress: "a@b.io"}, "Resend API key is required."},
		{dto.EmailSettingsRequest{EmailProvider: "Sendmail", FromAddress: "a@b.io"}, "Sendmail path is required."},
	}
	for _, tc := range cases {
		err := uc.UpdateEmailSettings(ctx, f.tenantID, tc.in)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, tc.want, message(t, err))
	}

	err := uc.UpdateEmailSettings(ctx, f.tenantID, dto.EmailSettingsRequest{
		EmailProvider: "smtp", FromAddress: " ops@acme.io ", SMTPHost: "smtp.acme.io", SMTPPort: "587",
		SMTPUsername: "ops", SMTPPassword: "secret", SMTPEncryption: "starttls",
	})
	require.NoError(t, err)
	got, err := uc.EmailSettings(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailProviderSMTP, got.EmailProvider)
	assert.Equal(t, "ops@acme.io", got.FromAddress)
	assert.Equal(t, entity.SMTPEncryptionSTARTTLS, got.SMTPEncryption)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := authz.NewService(f.reg.Permissions, f.reg.Users, f.reg.Tx, nil)
	uc := usecase.NewUserUseCase(f.reg.Users, f.reg.Tx, f.gate, svc)

	_, err := uc.Create(ctx, f.tenantID, dto.CreateUserRequest{Email: "sam@acme.io", Password: "12345678", Role: "Pilot"})
	assert.Equal(t, "Role is not supported.", message(t, err))

	sam, err := uc.Create(ctx, f.tenantID, dto.CreateUserRequest{Email: " SAM@acme.io", Password: "12345678", Role: "sales"})
	require.NoError(t, err)
	assert.Equal(t, "sam@acme.io", sam.Email)
	assert.Equal(t, entity.RoleSales, sam.Role)

	_, err = uc.Create(ctx, f.tenantID, dto.CreateUserRequest{Email: "third@acme.io", Password: "12345678", Role: "Sales"})
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, "Free plan workspaces can have up to 2 users. Upgrade to add more.", message(t, err))

	perms, err := uc.Permissions(ctx, f.tenantID, sam.ID)
	require.NoError(t, err)
	assert.Len(t, perms, 7)

	updated, err := uc.UpdateRole(ctx, f.tenantID, f.ownerID, sam.ID, dto.UpdateRoleRequest{Role: "Accounting"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAccounting, updated.Role)

	_, err = uc.UpdateRole(ctx, f.tenantID, f.ownerID, f.ownerID, dto.UpdateRoleRequest{Role: "Sales"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Delete(ctx, f.tenantID, f.ownerID, f.ownerID), domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(ctx, f.tenantID, f.ownerID, sam.ID))
	list, err := uc.List(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_ValidationAndQuota(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.clients()

	_, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: " ", Stage: "Proposal", Currency: "USD"})
	assert.Equal(t, "Company name is required.", message(t, err))
	_, err = uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Won", Currency: "USD"})
	assert.Equal(t, "Client stage is required.", message(t, err))
	_, err = uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Proposal", Currency: "XXX"})
	assert.Equal(t, "Client currency is required.", message(t, err))

	c, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: " Globex ", Stage: "negotiation", Currency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "Globex", c.CompanyName)
	assert.Equal(t, entity.StageNegotiation, c.Stage)
	assert.Equal(t, "EUR", c.Currency)

	_, err = uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Initech", Stage: "Closed", Currency: "USD"})
	require.NoError(t, err)
	_, err = uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Hooli", Stage: "Closed", Currency: "USD"})
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, "Free plan workspaces can have up to 2 clients. Upgrade to add more.", message(t, err))

	_, err = uc.UpdateClient(ctx, f.tenantID, c.ID, dto.ClientRequest{CompanyName: "Globex Intl", Stage: "Closed", Currency: "USD"})
	require.NoError(t, err, "las ediciones no pasan por el tope")
}

func TestClients_SoftDeleteMarksContactsRogue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.clients()

	c, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Proposal", Currency: "USD"})
	require.NoError(t, err)
	contact, err := uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Hank"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteClient(ctx, f.tenantID, c.ID))

	_, err = uc.GetClient(ctx, f.tenantID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := f.reg.Contacts.GetByID(ctx, f.tenantID, c.ID, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, uc.DeleteClient(ctx, f.tenantID, c.ID), domain.ErrNotFound)
}

func TestClients_ContactsAndAppointments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.clients()

	c, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Proposal", Currency: "USD"})
	require.NoError(t, err)
	_, err = uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: ""})
	assert.Equal(t, "Contact name is required.", message(t, err))

	hank, err := uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Hank"})
	require.NoError(t, err)
	_, err = uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Mindy"})
	require.NoError(t, err)
	_, err = uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Third"})
	assert.Equal(t, "Free plan workspaces can have up to 2 contacts per client. Upgrade to add more.", message(t, err))

	_, err = uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{ContactID: hank.ID, ScheduledFor: "2024-05-01T10:00"})
	assert.Equal(t, "Appointment title is required.", message(t, err))
	_, err = uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{ContactID: hank.ID, Title: "Kickoff"})
	assert.Equal(t, "Scheduled date/time is required.", message(t, err))
	_, err = uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{ContactID: 999, Title: "Kickoff", ScheduledFor: "2024-05-01 10:00"})
	assert.Equal(t, "Selected contact was not found.", message(t, err))

	a, err := uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{
		ContactID: hank.ID, Title: "Kickoff", ScheduledFor: "2024-05-01T10:00", Status: "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:00", a.ScheduledFor)
	assert.Equal(t, entity.AppointmentScheduled, a.Status)
	assert.Equal(t, "Hank", a.ContactName)

	detail, err := uc.Detail(ctx, f.tenantID, c.ID, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Contacts.Page.Page)
	assert.Len(t, detail.Contacts.Items, 2)
	assert.Len(t, detail.Appointments.Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Equipos
// ──────────────────────────────────────────────────────────────────────────────

func TestCrews_MembersCountAndReadiness(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.crews()

	_, err := uc.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: " "})
	assert.Equal(t, "Crew name is required.", message(t, err))

	c, err := uc.CreateCrew(ctx, f.tenantID, dto.CrewRequest{
		Name: "Riggers", Status: "idle", GearScore: 140, SkillTags: "Rigging, sound,rigging",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CrewIdle, c.Status)
	assert.Equal(t, 100, c.GearScore)
	assert.Equal(t, "rigging, sound", c.SkillTags)
	assert.Equal(t, 46, c.Readiness, "sin miembros: (0*45 + 100*25 + 70*30)/100")

	_, err = uc.CreateMember(ctx, f.tenantID, c.ID, dto.MemberRequest{Name: "Ann", Phone: "555"})
	assert.Equal(t, "User account is required.", message(t, err))
	_, err = uc.CreateMember(ctx, f.tenantID, c.ID, dto.MemberRequest{Name: "Ann", Phone: "555", UserID: 999})
	assert.Equal(t, "Selected user was not found.", message(t, err))

	m, err := uc.CreateMember(ctx, f.tenantID, c.ID, dto.MemberRequest{Name: "Ann", Phone: "555", UserID: f.ownerID})
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.io", m.Email)
	assert.Equal(t, entity.AvailabilityAvailable, m.AvailabilityStatus)

	got, err := uc.GetCrew(ctx, f.tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MembersCount)
	assert.Equal(t, 91, got.Readiness, "(100*45 + 100*25 + 70*30)/100")

	require.NoError(t, uc.DeleteMember(ctx, f.tenantID, c.ID, m.ID))
	got, err = uc.GetCrew(ctx, f.tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MembersCount)
}

func TestCrews_DeleteWithDeploymentsConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.crews()

	c, err := uc.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: "Riggers"})
	require.NoError(t, err)
	client := &entity.Client{TenantID: f.tenantID, CompanyName: "Globex", Stage: entity.StageProposal, Currency: "USD"}
	require.NoError(t, f.reg.Clients.Create(ctx, client))
	require.NoError(t, f.reg.Deployments.Create(ctx, &entity.Deployment{
		TenantID: f.tenantID, ClientID: client.ID, CrewID: c.ID, StartAt: "2024-05-01 08:00", EndAt: "2024-05-01 16:00",
		FeePerHour: decimal.NewFromInt(50), Info: "x", Status: entity.DeploymentScheduled,
	}))

	err = uc.DeleteCrew(ctx, f.tenantID, c.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Crew has deployments and cannot be deleted.", message(t, err))
}

func TestCrews_Recommend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.crews()

	_, err := uc.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: "B", Status: "Idle", GearScore: 40, SkillTags: "rigging"})
	require.NoError(t, err)
	_, err = uc.CreateCrew(ctx, f.tenantID, dto.CrewRequest{
		Name: "A", Status: "Active", GearScore: 80, SkillTags: "rigging,sound", CompatibilityTags: "night",
	})
	require.NoError(t, err)

	recs, err := uc.Recommend(ctx, f.tenantID, dto.RecommendRequest{RequiredSkills: "rigging,sound", CompatibilityPref: "night"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Name)
	assert.Equal(t, 16, recs[0].Score)
	assert.Equal(t, 7, recs[1].Score)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Summary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	client := &entity.Client{TenantID: f.tenantID, CompanyName: "Globex", Stage: entity.StageProposal, Currency: "USD"}
	require.NoError(t, f.reg.Clients.Create(ctx, client))
	crew := &entity.Crew{TenantID: f.tenantID, Name: "Riggers", Status: entity.CrewActive}
	require.NoError(t, f.reg.Crews.Create(ctx, crew))
	for _, status := range []string{entity.DeploymentCompleted, entity.DeploymentCompleted, entity.DeploymentScheduled} {
		require.NoError(t, f.reg.Deployments.Create(ctx, &entity.Deployment{
			TenantID: f.tenantID, ClientID: client.ID, CrewID: crew.ID, StartAt: "2024-05-01 08:00", EndAt: "2024-05-01 16:00",
			FeePerHour: decimal.NewFromInt(50), Info: "x", Status: status,
		}))
	}

	sum, err := usecase.NewDashboardUseCase(f.reg, f.gate).Summary(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Clients)
	assert.Equal(t, int64(1), sum.Crews)
	assert.Equal(t, int64(2), sum.DeploymentsByStatus[entity.DeploymentCompleted])
	assert.Equal(t, int64(0), sum.DeploymentsByStatus[entity.DeploymentCancelled])
	assert.Equal(t, 2, sum.InvoiceCandidates)
	assert.True(t, sum.OutstandingAmount.IsZero())
	assert.Equal(t, "free", sum.PlanKey)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado de contactos y usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_DeleteContact(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.clients()

	c, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Proposal", Currency: "USD"})
	require.NoError(t, err)
	hank, err := uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Hank"})
	require.NoError(t, err)
	mindy, err := uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Mindy"})
	require.NoError(t, err)
	_, err = uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{
		ContactID: hank.ID, Title: "Kickoff", ScheduledFor: "2024-05-01 10:00",
	})
	require.NoError(t, err)
	clientID, mindyID := c.ID, mindy.ID
	require.NoError(t, f.reg.Emails.Create(ctx, &entity.OutboundEmail{
		TenantID: f.tenantID, ClientID: &clientID, ContactID: &mindyID, ToEmail: "mindy@globex.io",
		Subject: "Hi", HTMLBody: "<p>Hi</p>", Provider: entity.EmailProviderMailtrap, Status: entity.EmailSent,
	}))

	// Con emails registrados el contacto no se borra.
	err = uc.DeleteContact(ctx, f.tenantID, c.ID, mindy.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Contact has emails and cannot be deleted.", message(t, err))
	got, err := f.reg.Contacts.GetByID(ctx, f.tenantID, c.ID, mindy.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Las citas caen con el contacto.
	require.NoError(t, uc.DeleteContact(ctx, f.tenantID, c.ID, hank.ID))
	n, err := f.reg.Appointments.Count(ctx, f.tenantID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, uc.DeleteContact(ctx, f.tenantID, c.ID, hank.ID), domain.ErrNotFound)
}

func TestClients_DeleteRogueContactKeepsAppointments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := f.clients()

	c, err := uc.CreateClient(ctx, f.tenantID, dto.ClientRequest{CompanyName: "Globex", Stage: "Proposal", Currency: "USD"})
	require.NoError(t, err)
	hank, err := uc.CreateContact(ctx, f.tenantID, c.ID, dto.ContactRequest{Name: "Hank"})
	require.NoError(t, err)
	_, err = uc.CreateAppointment(ctx, f.tenantID, c.ID, dto.AppointmentRequest{
		ContactID: hank.ID, Title: "Kickoff", ScheduledFor: "2024-05-01 10:00",
	})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteClient(ctx, f.tenantID, c.ID))

	err = uc.DeleteContact(ctx, f.tenantID, c.ID, hank.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Selected contact was not found.", message(t, err))

	n, err := f.reg.Appointments.Count(ctx, f.tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el contacto oculto conserva sus citas")
}

// crewSpy registra los equipos recalculados y puede fallar a pedido.
type crewSpy struct {
	repository.CrewRepository
	refreshed []int64
	fail      error
}

func (c *crewSpy) RefreshMembersCount(ctx context.Context, tenantID, crewID int64) error {
	if c.fail != nil {
		return c.fail
	}
	c.refreshed = append(c.refreshed, crewID)
	return c.CrewRepository.RefreshMembersCount(ctx, tenantID, crewID)
}

// spyTx envuelve el runner real y sustituye el repo de equipos dentro de la tx.
type spyTx struct {
	inner repository.TxRunner
	crews *crewSpy
}

func (s spyTx) RunInTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return s.inner.RunInTx(ctx, func(r repository.TxRepos) error {
		s.crews.CrewRepository = r.Crews
		r.Crews = s.crews
		return fn(r)
	})
}

func TestUsers_DeleteRefreshesOnlyTheirCrews(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crews := f.crews()

	sam := &entity.User{TenantID: f.tenantID, Email: "sam@acme.io", Role: entity.RoleEmployee}
	require.NoError(t, f.reg.Users.Create(ctx, sam))
	riggers, err := crews.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: "Riggers"})
	require.NoError(t, err)
	sound, err := crews.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: "Sound"})
	require.NoError(t, err)
	_, err = crews.CreateMember(ctx, f.tenantID, riggers.ID, dto.MemberRequest{Name: "Sam", Phone: "555", UserID: sam.ID})
	require.NoError(t, err)
	_, err = crews.CreateMember(ctx, f.tenantID, sound.ID, dto.MemberRequest{Name: "Ann", Phone: "556", UserID: f.ownerID})
	require.NoError(t, err)

	spy := &crewSpy{}
	svc := authz.NewService(f.reg.Permissions, f.reg.Users, f.reg.Tx, nil)
	uc := usecase.NewUserUseCase(f.reg.Users, spyTx{inner: f.reg.Tx, crews: spy}, f.gate, svc)

	require.NoError(t, uc.Delete(ctx, f.tenantID, f.ownerID, sam.ID))
	assert.Equal(t, []int64{riggers.ID}, spy.refreshed)

	got, err := crews.GetCrew(ctx, f.tenantID, riggers.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MembersCount)
	got, err = crews.GetCrew(ctx, f.tenantID, sound.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MembersCount)
}

func TestUsers_DeleteRollsBackWhenRefreshFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	crews := f.crews()

	sam := &entity.User{TenantID: f.tenantID, Email: "sam@acme.io", Role: entity.RoleEmployee}
	require.NoError(t, f.reg.Users.Create(ctx, sam))
	riggers, err := crews.CreateCrew(ctx, f.tenantID, dto.CrewRequest{Name: "Riggers"})
	require.NoError(t, err)
	m, err := crews.CreateMember(ctx, f.tenantID, riggers.ID, dto.MemberRequest{Name: "Sam", Phone: "555", UserID: sam.ID})
	require.NoError(t, err)

	spy := &crewSpy{fail: errors.New("connection reset")}
	svc := authz.NewService(f.reg.Permissions, f.reg.Users, f.reg.Tx, nil)
	uc := usecase.NewUserUseCase(f.reg.Users, spyTx{inner: f.reg.Tx, crews: spy}, f.gate, svc)

	err = uc.Delete(ctx, f.tenantID, f.ownerID, sam.ID)
	require.ErrorIs(t, err, domain.ErrStorage)

	// Ni el usuario ni su fila de miembro se pierden.
	u, err := f.reg.Users.GetByID(ctx, f.tenantID, sam.ID)
	require.NoError(t, err)
	assert.NotNil(t, u)
	member, err := f.reg.Members.GetByID(ctx, f.tenantID, riggers.ID, m.ID)
	require.NoError(t, err)
	assert.NotNil(t, member)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos de almacenamiento en lecturas
// ──────────────────────────────────────────────────────────────────────────────

type brokenClients struct{ repository.ClientRepository }

func (brokenClients) GetByID(context.Context, int64, int64) (*entity.Client, error) {
	return nil, errors.New("connection reset")
}

func (brokenClients) Count(context.Context, int64) (int64, error) {
	return 0, errors.New("connection reset")
}

type brokenCrews struct{ repository.CrewRepository }

func (brokenCrews) GetByID(context.Context, int64, int64) (*entity.Crew, error) {
	return nil, errors.New("connection reset")
}

func TestReads_StorageFailuresAreTyped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	clients := usecase.NewClientUseCase(brokenClients{f.reg.Clients}, f.reg.Contacts, f.reg.Appointments, f.reg.Tx, f.gate)
	crews := usecase.NewCrewUseCase(brokenCrews{f.reg.Crews}, f.reg.Members, f.reg.Users, f.reg.Deployments, f.reg.Tx, f.gate)

	cases := []struct {
		name string
		call func() error
		want string
	}{
		{"get client", func() error { _, err := clients.GetClient(ctx, f.tenantID, 1); return err },
			"Unable to load client: connection reset"},
		{"list clients", func() error { _, err := clients.ListClients(ctx, f.tenantID, 1); return err },
			"Unable to count clients: connection reset"},
		{"get crew", func() error { _, err := crews.GetCrew(ctx, f.tenantID, 1); return err },
			"Unable to load crew: connection reset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.ErrorIs(t, err, domain.ErrStorage)
			assert.Equal(t, tc.want, message(t, err))
		})
	}
}
