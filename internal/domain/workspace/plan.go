package workspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

// Claves de plan.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Scope recurso contado por el gate de límites.
type Scope string

const (
	ScopeClients               Scope = "clients"
	ScopeContactsPerClient     Scope = "contacts per client"
	ScopeAppointmentsPerClient Scope = "appointments per client"
	ScopeDeploymentsPerClient  Scope = "deployments per client"
	ScopeCrews                 Scope = "crews"
	ScopeMembersPerCrew        Scope = "members per crew"
	ScopeUsers                 Scope = "users"
)

// Limit tope del plan para el scope; nil = ilimitado.
func Limit(p entity.PlanLimits, s Scope) *int {
	switch s {
	case ScopeClients:
		return p.Clients
	case ScopeContactsPerClient:
		return p.ContactsPerClient
	case ScopeAppointmentsPerClient:
		return p.AppointmentsPerClient
	case ScopeDeploymentsPerClient:
		return p.DeploymentsPerClient
	case ScopeCrews:
		return p.Crews
	case ScopeMembersPerCrew:
		return p.MembersPerCrew
	case ScopeUsers:
		return p.Users
	}
	return nil
}

// PlanName nombre visible del plan ("free" -> "Free").
func PlanName(p entity.PlanLimits) string {
	if p.Name != "" {
		return p.Name
	}
	key := strings.TrimSpace(p.Key)
	if key == "" {
		return "Free"
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// LimitMessage mensaje visible cuando se alcanza el tope.
func LimitMessage(p entity.PlanLimits, s Scope, limit int) string {
	return fmt.Sprintf("%s plan workspaces can have up to %d %s. Upgrade to add more.", PlanName(p), limit, s)
}

// Expired indica si el plan venció. expiresDays 0 o inicio ilegible = no vence.
func Expired(startedAt string, expiresDays int, now time.Time) bool {
	if expiresDays <= 0 {
		return false
	}
	start, ok := worktime.ParseDateTime(startedAt)
	if !ok {
		return false
	}
	return now.After(start.AddDate(0, 0, expiresDays))
}
