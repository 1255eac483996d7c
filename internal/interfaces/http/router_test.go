package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/application/auth"
	"github.com/jhoicas/kinetic/internal/application/authz"
	"github.com/jhoicas/kinetic/internal/application/billing"
	"github.com/jhoicas/kinetic/internal/application/mail"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/application/tracking"
	"github.com/jhoicas/kinetic/internal/application/usecase"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/infrastructure/cache"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
	"github.com/jhoicas/kinetic/internal/infrastructure/metrics"
	"github.com/jhoicas/kinetic/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/kinetic/internal/interfaces/http"
	"github.com/jhoicas/kinetic/pkg/session"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app    *fiber.App
	authUC *auth.AuthUseCase
}

// newServer arma la API completa sobre el store en memoria. El plan free
// permite un solo cliente.
func newServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()
	reg := memory.New().Registry()
	one := 1
	require.NoError(t, reg.Plans.Upsert(ctx, &entity.PlanLimits{Key: "free", Name: "Free", Clients: &one}))

	issuer, err := session.NewIssuer("test-secret", "kinetic-test", time.Hour)
	require.NoError(t, err)
	m := metrics.New("test", prometheus.NewRegistry())

	gate := quota.NewGate(reg.Tenants, reg.Plans)
	authUC := auth.NewAuthUseCase(reg.Tenants, reg.Users, reg.Admins, gate, issuer, cache.NewMemoryRevoker())
	authzSvc := authz.NewService(reg.Permissions, reg.Users, reg.Tx, m)
	mailUC := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{}, m)

	app := apphttp.NewApp(apphttp.ServerConfig{AppName: "kinetic-test"}, m)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		Authz:        authzSvc,
		WorkspaceUC:  usecase.NewWorkspaceUseCase(reg.Tenants, reg.Plans),
		UserUC:       usecase.NewUserUseCase(reg.Users, reg.Tx, gate, authzSvc),
		ClientUC:     usecase.NewClientUseCase(reg.Clients, reg.Contacts, reg.Appointments, reg.Tx, gate),
		CrewUC:       usecase.NewCrewUseCase(reg.Crews, reg.Members, reg.Users, reg.Deployments, reg.Tx, gate),
		DashboardUC:  usecase.NewDashboardUseCase(reg, gate),
		DeploymentUC: tracking.NewDeploymentUseCase(reg.Deployments, reg.Clients, reg.Crews, reg.Updates, reg.Timers, gate),
		TrackingUC:   tracking.NewTrackingUseCase(reg.Deployments, reg.Updates, reg.Timers, reg.Tx, m),
		InvoiceUC: billing.NewInvoiceUseCase(reg.Invoices, reg.Deployments, reg.Updates, reg.Tenants,
			pdf.NewMarotoPDFGenerator(), mailUC, m),
		MailUC: mailUC,
	})
	return testServer{app: app, authUC: authUC}
}

type response struct {
	status   int
	location string
	body     map[string]any
	raw      string
}

func (s testServer) do(t *testing.T, method, path, token string, payload any) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, location: resp.Header.Get(fiber.HeaderLocation), raw: string(raw)}
	_ = json.Unmarshal(raw, &out.body)
	return out
}

// register crea el workspace "acme" y devuelve el token del Owner.
func (s testServer) register(t *testing.T) string {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"tenant_name": "Acme", "email": "owner@acme.io", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, res.status, res.raw)
	token, _ := res.body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s testServer) login(t *testing.T, email string) string {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"tenant_slug": "acme", "email": email, "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, res.status, res.raw)
	return res.body["token"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y workspace
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegisterAndMe(t *testing.T) {
	s := newServer(t)
	token := s.register(t)

	res := s.do(t, http.MethodGet, "/api/t/acme/me", token, nil)
	require.Equal(t, http.StatusOK, res.status, res.raw)
	assert.Equal(t, "owner@acme.io", res.body["email"])
	assert.Equal(t, "acme", res.body["tenant_slug"])
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	s := newServer(t)
	s.register(t)

	res := s.do(t, http.MethodGet, "/api/t/acme/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "MISSING_TOKEN", res.body["code"])

	res = s.do(t, http.MethodGet, "/api/t/acme/me", "token.invalido.aqui", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "INVALID_TOKEN", res.body["code"])
}

func TestAuth_CookieSession(t *testing.T) {
	s := newServer(t)
	token := s.register(t)

	req := httptest.NewRequest(http.MethodGet, "/api/t/acme/me", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: token})
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_LogoutRevokesToken(t *testing.T) {
	s := newServer(t)
	token := s.register(t)

	res := s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, res.status)

	res = s.do(t, http.MethodGet, "/api/t/acme/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestAuth_InvalidCredentials(t *testing.T) {
	s := newServer(t)
	s.register(t)

	res := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"tenant_slug": "acme", "email": "owner@acme.io", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "Invalid credentials.", res.body["message"])
}

func TestTenantGuard_RedirectsToOwnSlug(t *testing.T) {
	s := newServer(t)
	token := s.register(t)

	res := s.do(t, http.MethodGet, "/api/t/globex/clients?page=2", token, nil)
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/api/t/acme/clients?page=2", res.location)
}

func TestSwapSlug(t *testing.T) {
	assert.Equal(t, "/api/t/acme/crews/3", apphttp.SwapSlug("/api/t/globex/crews/3", "globex", "acme"))
	assert.Equal(t, "/api/t/acme", apphttp.SwapSlug("/api/t/globex", "globex", "acme"))
	assert.Equal(t, "/api/t/acme/dashboard", apphttp.SwapSlug("/api/t/globexcorp/crews", "globex", "acme"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_ErrorMapping(t *testing.T) {
	s := newServer(t)
	token := s.register(t)

	res := s.do(t, http.MethodPost, "/api/t/acme/clients", token, map[string]string{"company_name": "Globex"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "VALIDATION", res.body["code"])
	form, _ := res.body["form"].(map[string]any)
	assert.Equal(t, "Globex", form["company_name"], "el formulario vuelve prellenado")

	valid := map[string]string{"company_name": "Globex", "stage": "Proposal", "currency": "EUR"}
	res = s.do(t, http.MethodPost, "/api/t/acme/clients", token, valid)
	require.Equal(t, http.StatusCreated, res.status, res.raw)

	res = s.do(t, http.MethodPost, "/api/t/acme/clients", token, valid)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "QUOTA_EXCEEDED", res.body["code"])
	assert.Equal(t, "Free plan workspaces can have up to 1 clients. Upgrade to add more.", res.body["message"])

	res = s.do(t, http.MethodGet, "/api/t/acme/clients/999", token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = s.do(t, http.MethodGet, "/api/t/acme/clients/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	req := httptest.NewRequest(http.MethodPost, "/api/t/acme/clients", bytes.NewBufferString("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestPermissions_AccountingRedirectedFromClients(t *testing.T) {
	s := newServer(t)
	owner := s.register(t)

	res := s.do(t, http.MethodPost, "/api/t/acme/users", owner, map[string]string{
		"email": "books@acme.io", "password": "s3cret-pass", "role": entity.RoleAccounting,
	})
	require.Equal(t, http.StatusCreated, res.status, res.raw)

	token := s.login(t, "books@acme.io")

	res = s.do(t, http.MethodGet, "/api/t/acme/clients", token, nil)
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/api/t/acme/dashboard", res.location)

	res = s.do(t, http.MethodGet, "/api/t/acme/invoices", token, nil)
	assert.Equal(t, http.StatusOK, res.status, res.raw)

	res = s.do(t, http.MethodPost, "/api/t/acme/invoices", token, map[string]any{"deployment_id": 1})
	assert.Equal(t, http.StatusSeeOther, res.status, "Accounting solo ve facturas")

	res = s.do(t, http.MethodGet, "/api/t/acme/users", token, nil)
	assert.Equal(t, http.StatusSeeOther, res.status, "solo Owner/Admin gestionan usuarios")

	res = s.do(t, http.MethodGet, "/api/t/acme/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, res.status, res.raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_LoginAndWorkspaces(t *testing.T) {
	s := newServer(t)
	owner := s.register(t)

	created, err := s.authUC.SeedAdmin(context.Background(), "admin@kinetic.local", "s3cret-pass")
	require.NoError(t, err)
	require.True(t, created)

	res := s.do(t, http.MethodPost, "/api/auth/admin-login", "", map[string]string{
		"email": "admin@kinetic.local", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, res.status, res.raw)
	adminToken := res.body["token"].(string)

	res = s.do(t, http.MethodGet, "/api/admin/workspaces", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status, res.raw)
	items, _ := res.body["items"].([]any)
	assert.Len(t, items, 1)

	res = s.do(t, http.MethodGet, "/api/admin/workspaces", owner, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status, "un token de usuario no abre el panel")

	res = s.do(t, http.MethodGet, "/api/t/acme/me", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status, "un token de admin no abre un workspace")
}

// ──────────────────────────────────────────────────────────────────────────────
// Infraestructura HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthRequestIDAndMetrics(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36, "UUID generado")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err = s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(fiber.HeaderXRequestID))

	res := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.raw, `test_http_requests_total{method="GET",route="/health",status="200"} 2`)
}

func TestUnknownRoute(t *testing.T) {
	s := newServer(t)
	res := s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.body["code"])
}
