package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

const (
	msgClientNotFound      = "Client not found."
	msgContactNotFound     = "Selected contact was not found."
	msgAppointmentNotFound = "Appointment not found."
)

// ClientUseCase clientes, sus contactos y sus citas.
type ClientUseCase struct {
	clients      repository.ClientRepository
	contacts     repository.ContactRepository
	appointments repository.AppointmentRepository
	tx           repository.TxRunner
	gate         *quota.Gate
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(
	clients repository.ClientRepository,
	contacts repository.ContactRepository,
	appointments repository.AppointmentRepository,
	tx repository.TxRunner,
	gate *quota.Gate,
) *ClientUseCase {
	return &ClientUseCase{clients: clients, contacts: contacts, appointments: appointments, tx: tx, gate: gate}
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func validateClient(in dto.ClientRequest) (*entity.Client, error) {
	form := in
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, domain.NewValidation("Company name is required.", form)
	}
	stage := entity.NormalizeOption(in.Stage, entity.ClientStages, "")
	if stage == "" {
		return nil, domain.NewValidation("Client stage is required.", form)
	}
	currency, ok := workspace.NormalizeCurrency(in.Currency)
	if !ok {
		return nil, domain.NewValidation("Client currency is required.", form)
	}
	email := strings.TrimSpace(in.Email)
	if email != "" && !dto.ValidEmail(email) {
		return nil, domain.NewValidation("Client email must be a valid address.", form)
	}
	return &entity.Client{
		CompanyName: name,
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       email,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Stage:       stage,
		Currency:    currency,
	}, nil
}

// CreateClient alta de cliente; el tope del plan se comprueba antes de validar.
func (uc *ClientUseCase) CreateClient(ctx context.Context, tenantID int64, in dto.ClientRequest) (*dto.ClientResponse, error) {
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeClients, func(ctx context.Context) (int64, error) {
		return uc.clients.Count(ctx, tenantID)
	}, in)
	if err != nil {
		return nil, err
	}
	c, err := validateClient(in)
	if err != nil {
		return nil, err
	}
	c.TenantID = tenantID
	if err := uc.clients.Create(ctx, c); err != nil {
		return nil, domain.NewStorage("Unable to create client", err, in)
	}
	res := dto.NewClientResponse(c)
	return &res, nil
}

// UpdateClient edición; nunca se comprueba el tope.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, tenantID, id int64, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := validateClient(in)
	if err != nil {
		return nil, err
	}
	c.ID, c.TenantID = id, tenantID
	if err := uc.clients.Update(ctx, c); err != nil {
		return nil, mutationError(err, "Unable to update client", msgClientNotFound, in)
	}
	return uc.GetClient(ctx, tenantID, id)
}

func (uc *ClientUseCase) client(ctx context.Context, tenantID, id int64) (*entity.Client, error) {
	c, err := uc.clients.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load client", err, nil)
	}
	if c == nil {
		return nil, domain.NewNotFound(msgClientNotFound, nil)
	}
	return c, nil
}

// GetClient un cliente visible.
func (uc *ClientUseCase) GetClient(ctx context.Context, tenantID, id int64) (*dto.ClientResponse, error) {
	c, err := uc.client(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewClientResponse(c)
	return &res, nil
}

// ListClients página de clientes visibles.
func (uc *ClientUseCase) ListClients(ctx context.Context, tenantID int64, page int) (*dto.PageResult[dto.ClientResponse], error) {
	total, err := uc.clients.Count(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to count clients", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.clients.ListPaged(ctx, tenantID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load clients", err, nil)
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewClientResponse(c))
	}
	return &dto.PageResult[dto.ClientResponse]{Items: items, Page: p}, nil
}

// ListAllClients todos los clientes visibles (selectores de formularios).
func (uc *ClientUseCase) ListAllClients(ctx context.Context, tenantID int64) ([]dto.ClientResponse, error) {
	list, err := uc.clients.ListAll(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load clients", err, nil)
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewClientResponse(c))
	}
	return items, nil
}

// DeleteClient borrado lógico: oculta el cliente y marca sus contactos como rogue
// en la misma transacción.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, tenantID, id int64) error {
	err := uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Clients.SoftDelete(ctx, tenantID, id); err != nil {
			return err
		}
		return r.Contacts.MarkRogueByClient(ctx, tenantID, id)
	})
	if err != nil {
		return mutationError(err, "Unable to delete client", msgClientNotFound, nil)
	}
	return nil
}

// Detail ficha del cliente con contactos y citas paginados de forma independiente.
func (uc *ClientUseCase) Detail(ctx context.Context, tenantID, id int64, contactsPage, appointmentsPage int) (*dto.ClientDetail, error) {
	c, err := uc.client(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	contacts, err := uc.ListContacts(ctx, tenantID, id, contactsPage)
	if err != nil {
		return nil, err
	}
	appointments, err := uc.ListAppointments(ctx, tenantID, id, appointmentsPage)
	if err != nil {
		return nil, err
	}
	return &dto.ClientDetail{Client: dto.NewClientResponse(c), Contacts: *contacts, Appointments: *appointments}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Contactos
// ──────────────────────────────────────────────────────────────────────────────

func validateContact(in dto.ContactRequest) (*entity.ClientContact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("Contact name is required.", in)
	}
	email := strings.TrimSpace(in.Email)
	if email != "" && !dto.ValidEmail(email) {
		return nil, domain.NewValidation("Contact email must be a valid address.", in)
	}
	return &entity.ClientContact{
		Name:       name,
		Address:    strings.TrimSpace(in.Address),
		Email:      email,
		Phone:      strings.TrimSpace(in.Phone),
		Department: strings.TrimSpace(in.Department),
		Position:   strings.TrimSpace(in.Position),
	}, nil
}

// CreateContact alta de contacto bajo un cliente visible.
func (uc *ClientUseCase) CreateContact(ctx context.Context, tenantID, clientID int64, in dto.ContactRequest) (*dto.ContactResponse, error) {
	if _, err := uc.client(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeContactsPerClient, func(ctx context.Context) (int64, error) {
		return uc.contacts.Count(ctx, tenantID, clientID)
	}, in)
	if err != nil {
		return nil, err
	}
	c, err := validateContact(in)
	if err != nil {
		return nil, err
	}
	c.TenantID, c.ClientID = tenantID, clientID
	if err := uc.contacts.Create(ctx, c); err != nil {
		return nil, mutationError(err, "Unable to create contact", msgClientNotFound, in)
	}
	res := dto.NewContactResponse(c)
	return &res, nil
}

// UpdateContact edición de contacto.
func (uc *ClientUseCase) UpdateContact(ctx context.Context, tenantID, clientID, id int64, in dto.ContactRequest) (*dto.ContactResponse, error) {
	c, err := validateContact(in)
	if err != nil {
		return nil, err
	}
	c.ID, c.TenantID, c.ClientID = id, tenantID, clientID
	if err := uc.contacts.Update(ctx, c); err != nil {
		return nil, mutationError(err, "Unable to update contact", msgContactNotFound, in)
	}
	return uc.GetContact(ctx, tenantID, clientID, id)
}

// GetContact un contacto visible del cliente.
func (uc *ClientUseCase) GetContact(ctx context.Context, tenantID, clientID, id int64) (*dto.ContactResponse, error) {
	c, err := uc.contacts.GetByID(ctx, tenantID, clientID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load contact", err, nil)
	}
	if c == nil {
		return nil, domain.NewNotFound(msgContactNotFound, nil)
	}
	res := dto.NewContactResponse(c)
	return &res, nil
}

// ListContacts página de contactos visibles.
func (uc *ClientUseCase) ListContacts(ctx context.Context, tenantID, clientID int64, page int) (*dto.PageResult[dto.ContactResponse], error) {
	total, err := uc.contacts.Count(ctx, tenantID, clientID)
	if err != nil {
		return nil, domain.NewStorage("Unable to count contacts", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.contacts.ListPaged(ctx, tenantID, clientID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load contacts", err, nil)
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewContactResponse(c))
	}
	return &dto.PageResult[dto.ContactResponse]{Items: items, Page: p}, nil
}

// DeleteContact borra el contacto y sus citas en una sola transacción.
// Un contacto oculto o ajeno es not-found y no se toca nada.
func (uc *ClientUseCase) DeleteContact(ctx context.Context, tenantID, clientID, id int64) error {
	return uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		c, err := r.Contacts.GetByID(ctx, tenantID, clientID, id)
		if err != nil {
			return domain.NewStorage("Unable to load contact", err, nil)
		}
		if c == nil {
			return domain.NewNotFound(msgContactNotFound, nil)
		}
		if err := r.Contacts.Delete(ctx, tenantID, clientID, id); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.NewConflict("Contact has emails and cannot be deleted.", nil)
			}
			return mutationError(err, "Unable to delete contact", msgContactNotFound, nil)
		}
		return nil
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Citas
// ──────────────────────────────────────────────────────────────────────────────

func (uc *ClientUseCase) validateAppointment(ctx context.Context, tenantID, clientID int64, in dto.AppointmentRequest) (*entity.Appointment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidation("Appointment title is required.", in)
	}
	scheduled := worktime.NormalizeDateTime(in.ScheduledFor)
	if scheduled == "" {
		return nil, domain.NewValidation("Scheduled date/time is required.", in)
	}
	contact, err := uc.contacts.GetByID(ctx, tenantID, clientID, in.ContactID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load contact", err, in)
	}
	if contact == nil {
		return nil, domain.NewValidation(msgContactNotFound, in)
	}
	return &entity.Appointment{
		TenantID:     tenantID,
		ClientID:     clientID,
		ContactID:    contact.ID,
		Title:        title,
		ScheduledFor: scheduled,
		Status:       entity.NormalizeOption(in.Status, entity.AppointmentStatuses, entity.AppointmentScheduled),
		Notes:        strings.TrimSpace(in.Notes),
		ContactName:  contact.Name,
	}, nil
}

// CreateAppointment alta de cita contra un contacto del mismo cliente.
func (uc *ClientUseCase) CreateAppointment(ctx context.Context, tenantID, clientID int64, in dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	if _, err := uc.client(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeAppointmentsPerClient, func(ctx context.Context) (int64, error) {
		return uc.appointments.Count(ctx, tenantID, clientID)
	}, in)
	if err != nil {
		return nil, err
	}
	a, err := uc.validateAppointment(ctx, tenantID, clientID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.appointments.Create(ctx, a); err != nil {
		return nil, mutationError(err, "Unable to create appointment", msgContactNotFound, in)
	}
	res := dto.NewAppointmentResponse(a)
	return &res, nil
}

// UpdateAppointment edición de cita.
func (uc *ClientUseCase) UpdateAppointment(ctx context.Context, tenantID, clientID, id int64, in dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := uc.validateAppointment(ctx, tenantID, clientID, in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := uc.appointments.Update(ctx, a); err != nil {
		return nil, mutationError(err, "Unable to update appointment", msgAppointmentNotFound, in)
	}
	res := dto.NewAppointmentResponse(a)
	return &res, nil
}

// GetAppointment una cita del cliente.
func (uc *ClientUseCase) GetAppointment(ctx context.Context, tenantID, clientID, id int64) (*dto.AppointmentResponse, error) {
	a, err := uc.appointments.GetByID(ctx, tenantID, clientID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load appointment", err, nil)
	}
	if a == nil {
		return nil, domain.NewNotFound(msgAppointmentNotFound, nil)
	}
	res := dto.NewAppointmentResponse(a)
	return &res, nil
}

// ListAppointments página de citas del cliente.
func (uc *ClientUseCase) ListAppointments(ctx context.Context, tenantID, clientID int64, page int) (*dto.PageResult[dto.AppointmentResponse], error) {
	total, err := uc.appointments.Count(ctx, tenantID, clientID)
	if err != nil {
		return nil, domain.NewStorage("Unable to count appointments", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.appointments.ListPaged(ctx, tenantID, clientID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load appointments", err, nil)
	}
	items := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAppointmentResponse(a))
	}
	return &dto.PageResult[dto.AppointmentResponse]{Items: items, Page: p}, nil
}

// DeleteAppointment borra la cita.
func (uc *ClientUseCase) DeleteAppointment(ctx context.Context, tenantID, clientID, id int64) error {
	if err := uc.appointments.Delete(ctx, tenantID, clientID, id); err != nil {
		return mutationError(err, "Unable to delete appointment", msgAppointmentNotFound, nil)
	}
	return nil
}
