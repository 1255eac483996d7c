package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// ──────────────────────────────────────────────────────────────────────────────
// Workspaces y planes
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewTenantRepository(mock)

	mock.ExpectQuery("INSERT INTO tenants").
		WithArgs("acme", "Acme", "free", "", entity.EmailProviderMailtrap, "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "plan_started_at", "brand_name", "created_at"}).
			AddRow(int64(7), "2024-03-01 09:00", "Kinetic", "2024-03-01 09:00:00"))

	tn := &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "free"}
	require.NoError(t, repo.Create(context.Background(), tn))
	assert.Equal(t, int64(7), tn.ID)
	assert.Equal(t, entity.EmailProviderMailtrap, tn.EmailProvider)
	assert.Equal(t, "Kinetic", tn.BrandName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepo_CreateDuplicateSlug(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewTenantRepository(mock)

	mock.ExpectQuery("INSERT INTO tenants").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "free"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTenantRepo_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewTenantRepository(mock)

	mock.ExpectExec("DELETE FROM tenants").WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), domain.ErrNotFound)
}

func TestPlanRepo_GetMapsZeroToUnlimited(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewPlanRepository(mock)

	cols := []string{"plan_key", "name", "clients", "contacts_per_client", "appointments_per_client",
		"deployments_per_client", "crews", "members_per_crew", "users", "expires_after_days"}
	mock.ExpectQuery("FROM plan_limits").WithArgs("enterprise").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("enterprise", "Enterprise", 0, 0, 0, 0, 3, 0, 0, 365))

	p, err := repo.Get(context.Background(), "enterprise")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.Clients)
	require.NotNil(t, p.Crews)
	assert.Equal(t, 3, *p.Crews)
	assert.Equal(t, 365, p.ExpiresDays)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestPermissionRepo_ListByUser(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewPermissionRepository(mock)

	mock.ExpectQuery("FROM user_permissions").WithArgs(int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"resource", "can_view", "can_edit", "can_delete"}).
			AddRow("clients", int16(1), int16(1), int16(0)).
			AddRow("invoices", int16(0), int16(0), int16(0)))

	perms, err := repo.ListByUser(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, entity.UserPermission{TenantID: 1, UserID: 2, Resource: "clients", CanView: true, CanEdit: true}, perms[0])
	assert.False(t, perms[1].CanView)
}

func TestPermissionRepo_InsertDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewPermissionRepository(mock)

	mock.ExpectExec("INSERT INTO user_permissions").
		WithArgs(int64(1), int64(2), "clients", int16(1), int16(0), int16(0)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Insert(context.Background(), entity.UserPermission{TenantID: 1, UserID: 2, Resource: "clients", CanView: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Temporizadores, jornadas y facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkTimerRepo_StopAlreadyClosed(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewWorkTimerRepository(mock)

	mock.ExpectExec("UPDATE work_timers SET end_at").
		WithArgs(int64(1), int64(5), "2024-03-01 17:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Stop(context.Background(), 1, 5, "2024-03-01 17:00")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestWorkTimerRepo_CreateSecondOpenTimer(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewWorkTimerRepository(mock)

	mock.ExpectQuery("INSERT INTO work_timers").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_work_timers_open"})

	err := repo.Create(context.Background(), &entity.WorkTimer{TenantID: 1, DeploymentID: 2, UserID: 3, StartAt: "2024-03-01 08:00"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceRepo_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInvoiceRepository(mock)

	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs(int64(1), int64(4), entity.InvoiceDraft, "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Invoice{TenantID: 1, DeploymentID: 4, Status: entity.InvoiceDraft})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceRepo_GetByIDMissing(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInvoiceRepository(mock)

	mock.ExpectQuery("FROM invoices WHERE").WithArgs(int64(1), int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "deployment_id", "status", "notes", "created_at"}))

	inv, err := repo.GetByID(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, inv)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contactos y miembros
// ──────────────────────────────────────────────────────────────────────────────

// Un contacto oculto o ajeno no borra nada: una sola sentencia y 0 filas.
func TestContactRepo_DeleteHiddenIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewContactRepository(mock)

	mock.ExpectExec("DELETE FROM client_contacts WHERE .* AND is_rogue = 0").
		WithArgs(int64(1), int64(3), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 1, 3, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_DeleteReferencedByEmails(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewContactRepository(mock)

	mock.ExpectExec("DELETE FROM client_contacts").
		WithArgs(int64(1), int64(3), int64(9)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(context.Background(), 1, 3, 9)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCrewMemberRepo_CrewIDsByUser(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCrewMemberRepository(mock)

	mock.ExpectQuery("SELECT DISTINCT crew_id FROM crew_members").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"crew_id"}).AddRow(int64(2)).AddRow(int64(5)))

	ids, err := repo.CrewIDsByUser(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_Commit(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE clients SET is_deleted = 1").WithArgs(int64(1), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE client_contacts SET is_rogue = 1").WithArgs(int64(1), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	err := runner.RunInTx(context.Background(), func(r repository.TxRepos) error {
		if err := r.Clients.SoftDelete(context.Background(), 1, 3); err != nil {
			return err
		}
		return r.Contacts.MarkRogueByClient(context.Background(), 1, 3)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := runner.RunInTx(context.Background(), func(repository.TxRepos) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SkipsAppliedVersions(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM schema_migrations").WithArgs("0001_init").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	require.NoError(t, postgres.Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// El borrado del usuario y el recálculo de sus equipos viajan en la misma tx.
func TestTxRunner_UserDeleteAndRefresh(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT DISTINCT crew_id FROM crew_members").WithArgs(int64(1), int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"crew_id"}).AddRow(int64(2)))
	mock.ExpectExec("DELETE FROM users").WithArgs(int64(1), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE crews SET members_count").WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := runner.RunInTx(ctx, func(r repository.TxRepos) error {
		ids, err := r.Members.CrewIDsByUser(ctx, 1, 7)
		if err != nil {
			return err
		}
		if err := r.Users.Delete(ctx, 1, 7); err != nil {
			return err
		}
		for _, id := range ids {
			if err := r.Crews.RefreshMembersCount(ctx, 1, id); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
