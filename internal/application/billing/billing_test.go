package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/application/billing"
	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
)

type fakeQueue struct {
	got []dto.EmailRequest
}

func (q *fakeQueue) QueueEmail(_ context.Context, _ int64, in dto.EmailRequest) (*dto.EmailResponse, error) {
	q.got = append(q.got, in)
	return &dto.EmailResponse{ID: int64(len(q.got)), ToEmail: in.To, Subject: in.Subject, Status: entity.EmailQueued}, nil
}

type fakePDF struct {
	doc dto.InvoiceDocument
	err error
}

func (p *fakePDF) Generate(_ context.Context, doc dto.InvoiceDocument) ([]byte, error) {
	p.doc = doc
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4"), nil
}

type countingMetrics struct{ invoices int }

func (m *countingMetrics) InvoiceCreated()                  { m.invoices++ }
func (m *countingMetrics) EmailDispatched(_, _ string)      {}
func (m *countingMetrics) TimersClosed(_ string, _ int)     {}
func (m *countingMetrics) PermissionsMaterialized(_ string) {}

type fixture struct {
	reg          repository.Registry
	tenantID     int64
	deploymentID int64
	queue        *fakeQueue
	pdf          *fakePDF
	metrics      *countingMetrics
}

func setup(t *testing.T, status string) fixture {
	t.Helper()
	ctx := context.Background()
	reg := memory.New().Registry()
	tenant := &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "free", BrandName: "Acme Events", BrandColor: "#112233"}
	require.NoError(t, reg.Tenants.Create(ctx, tenant))
	client := &entity.Client{TenantID: tenant.ID, CompanyName: "Globex & Sons", Email: "billing@globex.io", Stage: entity.StageClosed, Currency: "EUR"}
	require.NoError(t, reg.Clients.Create(ctx, client))
	c := &entity.Crew{TenantID: tenant.ID, Name: "Rigging <Pros>", Status: entity.CrewActive}
	require.NoError(t, reg.Crews.Create(ctx, c))
	d := &entity.Deployment{
		TenantID: tenant.ID, ClientID: client.ID, CrewID: c.ID,
		StartAt: "2024-03-01 08:00", EndAt: "2024-03-02 16:00",
		FeePerHour: decimal.NewFromInt(40), Info: "Stage", Status: status, DeploymentType: entity.DeploymentOnsite,
	}
	require.NoError(t, reg.Deployments.Create(ctx, d))
	for _, u := range []entity.DeploymentUpdate{
		{WorkDate: "2024-03-01", StartTime: "08:00", EndTime: "12:30", HoursWorked: decimal.RequireFromString("4.5"), Notes: "Truss & lights"},
		{WorkDate: "2024-03-02", StartTime: "09:00", EndTime: "12:00", HoursWorked: decimal.NewFromInt(3), Notes: "<b>Strike</b>"},
	} {
		u := u
		u.TenantID, u.DeploymentID = tenant.ID, d.ID
		require.NoError(t, reg.Updates.Create(ctx, &u))
	}
	return fixture{reg: reg, tenantID: tenant.ID, deploymentID: d.ID, queue: &fakeQueue{}, pdf: &fakePDF{}, metrics: &countingMetrics{}}
}

func (f fixture) invoices() *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(f.reg.Invoices, f.reg.Deployments, f.reg.Updates, f.reg.Tenants, f.pdf, f.queue, f.metrics)
}

func message(t *testing.T, err error) string {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "se esperaba ValidationError, llegó %v", err)
	return ve.Message
}

func TestCreateInvoice_DerivedTotals(t *testing.T) {
	f := setup(t, entity.DeploymentCompleted)
	ctx := context.Background()
	uc := f.invoices()

	candidates, err := uc.Candidates(ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Globex & Sons - Rigging <Pros> (2024-03-01 08:00 to 2024-03-02 16:00)", candidates[0].Label)

	inv, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID, Status: "sent", Notes: "  net 30 "})
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", inv.Number)
	assert.Equal(t, entity.InvoiceSent, inv.Status)
	assert.Equal(t, "net 30", inv.Notes)
	assert.True(t, decimal.RequireFromString("7.5").Equal(inv.TotalHours))
	assert.True(t, decimal.NewFromInt(300).Equal(inv.TotalAmount))
	assert.Equal(t, 1, f.metrics.invoices)

	candidates, err = uc.Candidates(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	_, err = uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "An invoice already exists for this deployment.", message(t, err))
}

func TestCreateInvoice_Rejections(t *testing.T) {
	f := setup(t, entity.DeploymentActive)
	ctx := context.Background()
	uc := f.invoices()

	_, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{})
	assert.Equal(t, "Deployment is required.", message(t, err))
	_, err = uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: 999})
	assert.Equal(t, "Deployment not found.", message(t, err))
	_, err = uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	assert.Equal(t, "Only completed deployments can be invoiced.", message(t, err))
	assert.Zero(t, f.metrics.invoices)
}

func TestUpdateInvoice(t *testing.T) {
	f := setup(t, "completed")
	ctx := context.Background()
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceDraft, inv.Status)

	_, err = uc.Update(ctx, f.tenantID, inv.ID, dto.InvoiceRequest{DeploymentID: f.deploymentID + 1, Status: "Paid"})
	assert.Equal(t, "Deployment cannot be changed for an invoice.", message(t, err))

	updated, err := uc.Update(ctx, f.tenantID, inv.ID, dto.InvoiceRequest{DeploymentID: f.deploymentID, Status: "PAID", Notes: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, updated.Status)
	assert.Equal(t, "thanks", updated.Notes)

	_, err = uc.Update(ctx, f.tenantID, 999, dto.InvoiceRequest{})
	assert.Equal(t, "Invoice not found.", message(t, err))

	require.NoError(t, uc.Delete(ctx, f.tenantID, inv.ID))
	assert.ErrorIs(t, uc.Delete(ctx, f.tenantID, inv.ID), domain.ErrNotFound)
}

func TestBuildEmailBody_EscapesAndFormats(t *testing.T) {
	d := &entity.InvoiceDetails{
		Invoice:        entity.Invoice{ID: 42, Notes: `Pay "soon"`},
		ClientName:     "Globex & Sons",
		ClientCurrency: "EUR",
		CrewName:       "Rigging <Pros>",
		StartAt:        "2024-03-01 08:00",
		EndAt:          "2024-03-02 16:00",
		FeePerHour:     decimal.NewFromInt(40),
		TotalHours:     decimal.RequireFromString("7.5"),
		TotalAmount:    decimal.NewFromInt(300),
	}
	updates := []*entity.DeploymentUpdate{
		{WorkDate: "2024-03-01", StartTime: "08:00", EndTime: "12:30", HoursWorked: decimal.RequireFromString("4.5"), Notes: "it's <done>"},
	}
	body := billing.BuildEmailBody(d, updates)

	assert.Contains(t, body, "<h2>Invoice INV-00042</h2>")
	assert.Contains(t, body, "<strong>Client:</strong> Globex &amp; Sons<br><strong>Crew:</strong> Rigging &lt;Pros&gt;")
	assert.Contains(t, body, "<strong>Total hours:</strong> 7.50<br><strong>Rate:</strong> 40.00 EUR<br><strong>Total:</strong> 300.00 EUR")
	assert.Contains(t, body, "<p><strong>Notes:</strong> Pay &quot;soon&quot;</p>")
	assert.Contains(t, body, "<tr><td>2024-03-01</td><td>08:00</td><td>12:30</td><td>4.50</td><td>it&#39;s &lt;done&gt;</td></tr>")
	assert.Equal(t, "Invoice INV-00042 for Globex & Sons", billing.EmailSubject(d))

	d.Notes = " "
	empty := billing.BuildEmailBody(d, nil)
	assert.NotContains(t, empty, "Notes:")
	assert.Contains(t, empty, "<p>No deployment updates were recorded.</p>")
	assert.NotContains(t, empty, "<table")
}

func TestSendEmail(t *testing.T) {
	f := setup(t, entity.DeploymentCompleted)
	ctx := context.Background()
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	require.NoError(t, err)

	draft, err := uc.EmailDraft(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "billing@globex.io", draft.To)
	assert.Equal(t, "Invoice INV-00001 for Globex & Sons", draft.Subject)
	assert.Contains(t, draft.Body, "Truss &amp; lights")

	res, err := uc.SendEmail(ctx, f.tenantID, inv.ID, dto.SendInvoiceRequest{CC: "boss@globex.io, ,cfo@globex.io"})
	require.NoError(t, err)
	assert.Equal(t, entity.EmailQueued, res.Status)
	require.Len(t, f.queue.got, 1)
	sent := f.queue.got[0]
	assert.Equal(t, "billing@globex.io", sent.To)
	assert.Equal(t, []string{"boss@globex.io", "cfo@globex.io"}, sent.CC)
	require.NotNil(t, sent.ClientID)
	assert.Equal(t, inv.ClientID, *sent.ClientID)
	assert.Equal(t, draft.Body, sent.HTMLBody)
}

func TestSendEmail_RequiresRecipient(t *testing.T) {
	f := setup(t, entity.DeploymentCompleted)
	ctx := context.Background()
	c, err := f.reg.Clients.GetByID(ctx, f.tenantID, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	c.Email = ""
	require.NoError(t, f.reg.Clients.Update(ctx, c))

	uc := f.invoices()
	inv, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	require.NoError(t, err)
	_, err = uc.SendEmail(ctx, f.tenantID, inv.ID, dto.SendInvoiceRequest{})
	assert.Equal(t, "Client email is required to send invoices.", message(t, err))
	assert.Empty(t, f.queue.got)
}

func TestDownloadPDF(t *testing.T) {
	f := setup(t, entity.DeploymentCompleted)
	ctx := context.Background()
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.tenantID, dto.InvoiceRequest{DeploymentID: f.deploymentID})
	require.NoError(t, err)

	pdf, name, err := uc.DownloadPDF(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "Acme Events", f.pdf.doc.BrandName)
	assert.Len(t, f.pdf.doc.Updates, 2)

	_, _, err = uc.DownloadPDF(ctx, f.tenantID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.pdf.err = errors.New("font missing")
	_, _, err = uc.DownloadPDF(ctx, f.tenantID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
