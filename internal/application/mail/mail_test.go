package mail_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/mail"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, _ entity.EmailSettings, msg ports.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTenant(t *testing.T, reg repository.Registry, slug, provider string) int64 {
	t.Helper()
	tenant := &entity.Tenant{Slug: slug, Name: slug, PlanKey: "free"}
	require.NoError(t, reg.Tenants.Create(context.Background(), tenant))
	require.NoError(t, reg.Tenants.UpdateEmailSettings(context.Background(), tenant.ID, entity.EmailSettings{
		EmailProvider: provider, FromName: "Ops", FromAddress: "ops@" + slug + ".io",
	}))
	return tenant.ID
}

func request() dto.EmailRequest {
	return dto.EmailRequest{
		To:       " billing@globex.io ",
		CC:       []string{" ", "boss@globex.io", "cfo@globex.io "},
		Subject:  " Invoice INV-00001 ",
		HTMLBody: "<p>Hello</p>",
	}
}

func message(t *testing.T, err error) string {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "se esperaba ValidationError, llegó %v", err)
	return ve.Message
}

func TestQueueEmail_Validation(t *testing.T) {
	reg := memory.New().Registry()
	tenantID := newTenant(t, reg, "acme", entity.EmailProviderSMTP)
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, nil, nil)
	ctx := context.Background()

	cases := []struct {
		mutate func(*dto.EmailRequest)
		want   string
	}{
		{func(r *dto.EmailRequest) { r.Subject = " " }, "Email subject is required."},
		{func(r *dto.EmailRequest) { r.HTMLBody = "" }, "Email body is required."},
		{func(r *dto.EmailRequest) { r.To = "" }, "Recipient email is required."},
		{func(r *dto.EmailRequest) { r.To = "not-an-email" }, "Recipient email must be a valid address."},
	}
	for _, tc := range cases {
		req := request()
		tc.mutate(&req)
		_, err := uc.QueueEmail(ctx, tenantID, req)
		assert.Equal(t, tc.want, message(t, err))
	}

	_, err := uc.QueueEmail(ctx, 999, request())
	assert.Equal(t, "Workspace not found.", message(t, err))
}

func TestQueueEmail_NonSyncProviderStaysQueued(t *testing.T) {
	reg := memory.New().Registry()
	tenantID := newTenant(t, reg, "acme", entity.EmailProviderPostmark)
	smtp := &fakeMailer{}
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{entity.EmailProviderSMTP: smtp}, nil)

	res, err := uc.QueueEmail(context.Background(), tenantID, request())
	require.NoError(t, err)
	assert.Equal(t, entity.EmailQueued, res.Status)
	assert.Equal(t, "billing@globex.io", res.ToEmail)
	assert.Equal(t, "boss@globex.io, cfo@globex.io", res.CCEmails)
	assert.Equal(t, "Invoice INV-00001", res.Subject)
	assert.Equal(t, entity.EmailProviderPostmark, res.Provider)
	assert.Empty(t, smtp.sent)
}

func TestQueueEmail_MailtrapSendsImmediately(t *testing.T) {
	reg := memory.New().Registry()
	tenantID := newTenant(t, reg, "acme", entity.EmailProviderMailtrap)
	mailtrap := &fakeMailer{}
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{entity.EmailProviderMailtrap: mailtrap}, nil)
	ctx := context.Background()

	res, err := uc.QueueEmail(ctx, tenantID, request())
	require.NoError(t, err)
	assert.Equal(t, entity.EmailSent, res.Status)
	require.Len(t, mailtrap.sent, 1)
	msg := mailtrap.sent[0]
	assert.Equal(t, "ops@acme.io", msg.From)
	assert.Equal(t, "Ops", msg.FromName)
	assert.Equal(t, []string{"boss@globex.io", "cfo@globex.io"}, msg.CC)

	stored, err := uc.GetEmail(ctx, tenantID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailSent, stored.Status)
}

func TestQueueEmail_MailtrapFailureMarksFailed(t *testing.T) {
	reg := memory.New().Registry()
	tenantID := newTenant(t, reg, "acme", entity.EmailProviderMailtrap)
	mailtrap := &fakeMailer{err: errors.New("dial tcp: connection refused")}
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{entity.EmailProviderMailtrap: mailtrap}, nil)
	ctx := context.Background()

	_, err := uc.QueueEmail(ctx, tenantID, request())
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, "Unable to send email via Mailtrap: dial tcp: connection refused", message(t, err))

	page, err := uc.ListEmails(ctx, tenantID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.EmailFailed, page.Items[0].Status)
	assert.Equal(t, "dial tcp: connection refused", page.Items[0].ErrorMessage)
}

func TestDrainQueued(t *testing.T) {
	reg := memory.New().Registry()
	ctx := context.Background()
	smtpTenant := newTenant(t, reg, "acme", entity.EmailProviderSMTP)
	sesTenant := newTenant(t, reg, "globex", entity.EmailProviderSES)
	otherTenant := newTenant(t, reg, "initech", entity.EmailProviderResend)

	smtp := &fakeMailer{}
	ses := &fakeMailer{err: errors.New("MessageRejected")}
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, mail.Mailers{
		entity.EmailProviderSMTP: smtp,
		entity.EmailProviderSES:  ses,
	}, nil)
	assert.Equal(t, []string{entity.EmailProviderSES, entity.EmailProviderSMTP}, uc.DrainProviders())

	for _, id := range []int64{smtpTenant, smtpTenant, sesTenant, otherTenant} {
		_, err := uc.QueueEmail(ctx, id, request())
		require.NoError(t, err)
	}

	sent, err := uc.DrainQueued(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, smtp.sent, 2)

	failed, err := reg.Emails.CountByStatus(ctx, sesTenant, entity.EmailFailed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, failed)
	queued, err := reg.Emails.CountByStatus(ctx, otherTenant, entity.EmailQueued)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queued, "Resend no tiene adaptador y sigue en cola")

	again, err := uc.DrainQueued(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestQueueEmail_RejectsRecipientsFromAnotherWorkspace(t *testing.T) {
	reg := memory.New().Registry()
	ctx := context.Background()
	acme := newTenant(t, reg, "acme", entity.EmailProviderPostmark)
	globex := newTenant(t, reg, "globex", entity.EmailProviderPostmark)
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, nil, nil)

	client := &entity.Client{TenantID: globex, CompanyName: "Initech", Stage: entity.StageProposal, Currency: "EUR"}
	require.NoError(t, reg.Clients.Create(ctx, client))
	contact := &entity.ClientContact{TenantID: globex, ClientID: client.ID, Name: "Bill", Email: "bill@initech.io"}
	require.NoError(t, reg.Contacts.Create(ctx, contact))

	req := request()
	req.ClientID = &client.ID
	_, err := uc.QueueEmail(ctx, acme, req)
	assert.Equal(t, "Selected client was not found.", message(t, err))

	req = request()
	req.ContactID = &contact.ID
	_, err = uc.QueueEmail(ctx, acme, req)
	assert.Equal(t, "Selected contact was not found.", message(t, err), "un contacto sin cliente no se acepta")

	req.ClientID = &client.ID
	_, err = uc.QueueEmail(ctx, globex, req)
	require.NoError(t, err)

	list, err := uc.ListEmails(ctx, acme, 1)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "nada quedó en cola en el workspace ajeno")
}

func TestGetEmail_ForeignIDIsNotFound(t *testing.T) {
	reg := memory.New().Registry()
	ctx := context.Background()
	acme := newTenant(t, reg, "acme", entity.EmailProviderPostmark)
	globex := newTenant(t, reg, "globex", entity.EmailProviderPostmark)
	uc := mail.NewMailUseCase(reg.Emails, reg.Tenants, reg.Clients, reg.Contacts, nil, nil)

	queued, err := uc.QueueEmail(ctx, globex, request())
	require.NoError(t, err)

	_, err = uc.GetEmail(ctx, acme, queued.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Email not found.", message(t, err))

	got, err := uc.GetEmail(ctx, globex, queued.ID)
	require.NoError(t, err)
	assert.Equal(t, "billing@globex.io", got.ToEmail)
}
