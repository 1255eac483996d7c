// Package catalog carga el catálogo de planes embebido (plans.yaml) y lo siembra
// en el repositorio de planes al arrancar.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

//go:embed plans.yaml
var plansYAML []byte

type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	Key                   string `yaml:"key"`
	Name                  string `yaml:"name"`
	Clients               int    `yaml:"clients"`
	ContactsPerClient     int    `yaml:"contacts_per_client"`
	AppointmentsPerClient int    `yaml:"appointments_per_client"`
	DeploymentsPerClient  int    `yaml:"deployments_per_client"`
	Crews                 int    `yaml:"crews"`
	MembersPerCrew        int    `yaml:"members_per_crew"`
	Users                 int    `yaml:"users"`
	ExpiresDays           int    `yaml:"expires_days"`
}

// Plans devuelve el catálogo embebido.
func Plans() ([]entity.PlanLimits, error) {
	return Parse(plansYAML)
}

// Parse decodifica un catálogo en YAML. Un tope 0 se interpreta como ilimitado.
func Parse(data []byte) ([]entity.PlanLimits, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode plans: %w", err)
	}
	out := make([]entity.PlanLimits, 0, len(f.Plans))
	for _, p := range f.Plans {
		if p.Key == "" {
			return nil, fmt.Errorf("catalog: plan without key")
		}
		out = append(out, entity.PlanLimits{
			Key:                   p.Key,
			Name:                  p.Name,
			Clients:               limit(p.Clients),
			ContactsPerClient:     limit(p.ContactsPerClient),
			AppointmentsPerClient: limit(p.AppointmentsPerClient),
			DeploymentsPerClient:  limit(p.DeploymentsPerClient),
			Crews:                 limit(p.Crews),
			MembersPerCrew:        limit(p.MembersPerCrew),
			Users:                 limit(p.Users),
			ExpiresDays:           p.ExpiresDays,
		})
	}
	return out, nil
}

// Seed inserta o actualiza cada plan del catálogo.
func Seed(ctx context.Context, repo repository.PlanRepository) error {
	plans, err := Plans()
	if err != nil {
		return err
	}
	for i := range plans {
		if err := repo.Upsert(ctx, &plans[i]); err != nil {
			return fmt.Errorf("catalog: seed %s: %w", plans[i].Key, err)
		}
	}
	return nil
}

func limit(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
