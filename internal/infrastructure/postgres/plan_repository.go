package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo catálogo de planes en la tabla plan_limits (0 = ilimitado).
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador del catálogo de planes.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

// Get devuelve los límites del plan o nil si la clave no existe.
func (r *PlanRepo) Get(ctx context.Context, key string) (*entity.PlanLimits, error) {
	query := `
		SELECT plan_key, name, clients, contacts_per_client, appointments_per_client, deployments_per_client,
			crews, members_per_crew, users, expires_after_days
		FROM plan_limits WHERE plan_key = $1`
	var (
		p                                                                   entity.PlanLimits
		clients, contacts, appointments, deployments, crews, members, users int
	)
	err := r.q.QueryRow(ctx, query, key).Scan(
		&p.Key, &p.Name, &clients, &contacts, &appointments, &deployments, &crews, &members, &users, &p.ExpiresDays,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	p.Clients = limitPtr(clients)
	p.ContactsPerClient = limitPtr(contacts)
	p.AppointmentsPerClient = limitPtr(appointments)
	p.DeploymentsPerClient = limitPtr(deployments)
	p.Crews = limitPtr(crews)
	p.MembersPerCrew = limitPtr(members)
	p.Users = limitPtr(users)
	return &p, nil
}

// Upsert inserta o reemplaza el plan.
func (r *PlanRepo) Upsert(ctx context.Context, p *entity.PlanLimits) error {
	query := `
		INSERT INTO plan_limits (plan_key, name, clients, contacts_per_client, appointments_per_client,
			deployments_per_client, crews, members_per_crew, users, expires_after_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (plan_key) DO UPDATE SET name = EXCLUDED.name, clients = EXCLUDED.clients,
			contacts_per_client = EXCLUDED.contacts_per_client, appointments_per_client = EXCLUDED.appointments_per_client,
			deployments_per_client = EXCLUDED.deployments_per_client, crews = EXCLUDED.crews,
			members_per_crew = EXCLUDED.members_per_crew, users = EXCLUDED.users,
			expires_after_days = EXCLUDED.expires_after_days`
	_, err := r.q.Exec(ctx, query, p.Key, p.Name,
		limitValue(p.Clients), limitValue(p.ContactsPerClient), limitValue(p.AppointmentsPerClient),
		limitValue(p.DeploymentsPerClient), limitValue(p.Crews), limitValue(p.MembersPerCrew),
		limitValue(p.Users), p.ExpiresDays,
	)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}
