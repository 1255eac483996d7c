package repository

import (
	"context"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// ClientRepository clientes visibles (is_deleted = 0) del workspace.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Client, error)
	ListPaged(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Client, error)
	ListAll(ctx context.Context, tenantID int64) ([]*entity.Client, error)
	Count(ctx context.Context, tenantID int64) (int64, error)
	Update(ctx context.Context, c *entity.Client) error
	SoftDelete(ctx context.Context, tenantID, id int64) error
}

// ContactRepository contactos visibles (is_rogue = 0) de un cliente.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.ClientContact) error
	GetByID(ctx context.Context, tenantID, clientID, id int64) (*entity.ClientContact, error)
	ListPaged(ctx context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.ClientContact, error)
	Count(ctx context.Context, tenantID, clientID int64) (int64, error)
	Update(ctx context.Context, c *entity.ClientContact) error
	Delete(ctx context.Context, tenantID, clientID, id int64) error
	MarkRogueByClient(ctx context.Context, tenantID, clientID int64) error
}

// AppointmentRepository citas de un cliente.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, tenantID, clientID, id int64) (*entity.Appointment, error)
	ListPaged(ctx context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.Appointment, error)
	Count(ctx context.Context, tenantID, clientID int64) (int64, error)
	Update(ctx context.Context, a *entity.Appointment) error
	Delete(ctx context.Context, tenantID, clientID, id int64) error
}
