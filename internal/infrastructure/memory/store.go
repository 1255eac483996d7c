// Package memory implementa todos los puertos de repositorio en memoria. Respeta las
// mismas restricciones únicas que el esquema PostgreSQL y sirve para STORAGE_DRIVER=memory
// y para las pruebas de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

type permKey struct {
	tenantID, userID int64
	resource         string
}

type tables struct {
	seq          map[string]int64
	tenants      map[int64]entity.Tenant
	plans        map[string]entity.PlanLimits
	users        map[int64]entity.User
	admins       map[int64]entity.Admin
	perms        map[permKey]entity.UserPermission
	clients      map[int64]entity.Client
	contacts     map[int64]entity.ClientContact
	appointments map[int64]entity.Appointment
	crews        map[int64]entity.Crew
	members      map[int64]entity.CrewMember
	deployments  map[int64]entity.Deployment
	updates      map[int64]entity.DeploymentUpdate
	timers       map[int64]entity.WorkTimer
	invoices     map[int64]entity.Invoice
	emails       map[int64]entity.OutboundEmail
}

func newTables() *tables {
	return &tables{
		seq:          make(map[string]int64),
		tenants:      make(map[int64]entity.Tenant),
		plans:        make(map[string]entity.PlanLimits),
		users:        make(map[int64]entity.User),
		admins:       make(map[int64]entity.Admin),
		perms:        make(map[permKey]entity.UserPermission),
		clients:      make(map[int64]entity.Client),
		contacts:     make(map[int64]entity.ClientContact),
		appointments: make(map[int64]entity.Appointment),
		crews:        make(map[int64]entity.Crew),
		members:      make(map[int64]entity.CrewMember),
		deployments:  make(map[int64]entity.Deployment),
		updates:      make(map[int64]entity.DeploymentUpdate),
		timers:       make(map[int64]entity.WorkTimer),
		invoices:     make(map[int64]entity.Invoice),
		emails:       make(map[int64]entity.OutboundEmail),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *tables) clone() *tables {
	return &tables{
		seq:          cloneMap(t.seq),
		tenants:      cloneMap(t.tenants),
		plans:        cloneMap(t.plans),
		users:        cloneMap(t.users),
		admins:       cloneMap(t.admins),
		perms:        cloneMap(t.perms),
		clients:      cloneMap(t.clients),
		contacts:     cloneMap(t.contacts),
		appointments: cloneMap(t.appointments),
		crews:        cloneMap(t.crews),
		members:      cloneMap(t.members),
		deployments:  cloneMap(t.deployments),
		updates:      cloneMap(t.updates),
		timers:       cloneMap(t.timers),
		invoices:     cloneMap(t.invoices),
		emails:       cloneMap(t.emails),
	}
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	t    *tables
	now  func() time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// WithClock fija el reloj usado para created_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) nextID(table string) int64 {
	s.t.seq[table]++
	return s.t.seq[table]
}

func (s *Store) stamp() string {
	return s.now().Format("2006-01-02 15:04:05")
}

// RunInTx serializa las transacciones y restaura el estado previo si fn falla.
func (s *Store) RunInTx(_ context.Context, fn func(r repository.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(s.txRepos()); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) txRepos() repository.TxRepos {
	return repository.TxRepos{
		Users:       &UserRepo{s: s},
		Permissions: &PermissionRepo{s: s},
		Clients:     &ClientRepo{s: s},
		Contacts:    &ContactRepo{s: s},
		Crews:       &CrewRepo{s: s},
		Members:     &CrewMemberRepo{s: s},
		Updates:     &DeploymentUpdateRepo{s: s},
		Timers:      &WorkTimerRepo{s: s},
	}
}

// Registry arma todos los repositorios sobre el Store.
func (s *Store) Registry() repository.Registry {
	tx := s.txRepos()
	return repository.Registry{
		Tenants:      &TenantRepo{s: s},
		Plans:        &PlanRepo{s: s},
		Users:        tx.Users,
		Admins:       &AdminRepo{s: s},
		Permissions:  tx.Permissions,
		Clients:      tx.Clients,
		Contacts:     tx.Contacts,
		Appointments: &AppointmentRepo{s: s},
		Crews:        tx.Crews,
		Members:      tx.Members,
		Deployments:  &DeploymentRepo{s: s},
		Updates:      tx.Updates,
		Timers:       tx.Timers,
		Invoices:     &InvoiceRepo{s: s},
		Emails:       &EmailRepo{s: s},
		Tx:           s,
	}
}

var _ repository.TxRunner = (*Store)(nil)

// collect filtra y ordena los valores de una tabla y devuelve copias.
func collect[V any](m map[int64]V, keep func(V) bool, less func(a, b V) bool) []*V {
	var out []*V
	for _, v := range m {
		if keep(v) {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(*out[i], *out[j]) })
	return out
}

func page[V any](list []*V, limit, offset int) []*V {
	if offset >= len(list) {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	end := len(list)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func count[V any](m map[int64]V, keep func(V) bool) int64 {
	var n int64
	for _, v := range m {
		if keep(v) {
			n++
		}
	}
	return n
}
