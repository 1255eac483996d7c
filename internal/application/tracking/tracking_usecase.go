package tracking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

const (
	msgUpdateNotFound   = "Update not found."
	msgUpdateExists     = "An update for this work day already exists."
	msgNotesRequired    = "Update notes are required."
	msgReportRequired   = "Please enter a report before saving."
	msgTimerActive      = "You already have an active timer."
	msgNoActiveTimer    = "No active timer found."
	msgTimerOtherTarget = "Active timer belongs to another deployment."
)

// Motivos de cierre de temporizador para las métricas.
const (
	CloseManual = "manual"
	CloseStale  = "stale"
)

// TrackingUseCase jornadas de trabajo y temporizadores. Cerrar un temporizador
// sin reporte deja una jornada placeholder que el usuario completa después.
type TrackingUseCase struct {
	deployments repository.DeploymentRepository
	updates     repository.DeploymentUpdateRepository
	timers      repository.WorkTimerRepository
	tx          repository.TxRunner
	metrics     ports.Metrics
	now         func() time.Time
}

// NewTrackingUseCase construye el caso de uso.
func NewTrackingUseCase(
	deployments repository.DeploymentRepository,
	updates repository.DeploymentUpdateRepository,
	timers repository.WorkTimerRepository,
	tx repository.TxRunner,
	metrics ports.Metrics,
) *TrackingUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &TrackingUseCase{
		deployments: deployments, updates: updates, timers: timers,
		tx: tx, metrics: metrics, now: time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *TrackingUseCase) WithClock(now func() time.Time) *TrackingUseCase {
	uc.now = now
	return uc
}

// ─── Jornadas ────────────────────────────────────────────────────────────────

type shift struct {
	workDate  string
	startTime string
	endTime   string
	hours     decimal.Decimal
	notes     string
}

func validateShift(in dto.WorkUpdateRequest) (*shift, error) {
	workDate := strings.TrimSpace(in.WorkDate)
	if workDate == "" {
		return nil, domain.NewValidation("Work date is required.", in)
	}
	if _, err := time.Parse(worktime.DateLayout, workDate); err != nil {
		return nil, domain.NewValidation("Work date format is invalid.", in)
	}
	start := strings.TrimSpace(in.StartTime)
	end := strings.TrimSpace(in.EndTime)
	if start == "" || end == "" {
		return nil, domain.NewValidation("Start and finish times are required.", in)
	}
	hours, err := worktime.ShiftHours(start, end)
	if err != nil {
		return nil, domain.NewValidation(err.Error(), in)
	}
	return &shift{
		workDate:  workDate,
		startTime: start,
		endTime:   end,
		hours:     hours,
		notes:     strings.TrimSpace(in.Notes),
	}, nil
}

func checkNotes(notes string, in dto.WorkUpdateRequest) error {
	if notes == "" {
		return domain.NewValidation(msgNotesRequired, in)
	}
	if notes == entity.PlaceholderNotes {
		return domain.NewValidation(msgReportRequired, in)
	}
	return nil
}

// CreateUpdate registra la jornada de un día. Si ese día ya tiene un placeholder
// generado por un temporizador, lo completa en vez de rechazarlo.
func (uc *TrackingUseCase) CreateUpdate(ctx context.Context, tenantID, userID int64, in dto.WorkUpdateRequest) (*dto.WorkUpdateResponse, error) {
	if in.DeploymentID <= 0 {
		return nil, domain.NewValidation("Deployment is required.", in)
	}
	if _, err := uc.loadDeployment(ctx, tenantID, in.DeploymentID); err != nil {
		return nil, err
	}
	s, err := validateShift(in)
	if err != nil {
		return nil, err
	}

	existing, err := uc.updates.GetByDate(ctx, tenantID, in.DeploymentID, s.workDate)
	if err != nil {
		return nil, domain.NewStorage("Unable to load updates", err, in)
	}
	if existing != nil && !existing.IsPlaceholder {
		return nil, domain.NewConflict(msgUpdateExists, in)
	}
	if err := checkNotes(s.notes, in); err != nil {
		return nil, err
	}

	u := &entity.DeploymentUpdate{
		TenantID:     tenantID,
		DeploymentID: in.DeploymentID,
		UserID:       &userID,
		WorkDate:     s.workDate,
		StartTime:    s.startTime,
		EndTime:      s.endTime,
		HoursWorked:  s.hours,
		Notes:        s.notes,
	}
	if existing != nil {
		u.ID = existing.ID
		err = uc.updates.Update(ctx, u)
	} else {
		err = uc.updates.Create(ctx, u)
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.NewConflict(msgUpdateExists, in)
	}
	if err != nil {
		return nil, domain.NewStorage("Unable to save update", err, in)
	}
	return uc.getUpdate(ctx, tenantID, u.ID)
}

// UpdateUpdate edita una jornada. El despliegue no cambia; la marca de placeholder
// se pierde en cuanto las notas dejan de ser las generadas.
func (uc *TrackingUseCase) UpdateUpdate(ctx context.Context, tenantID, id int64, in dto.WorkUpdateRequest) (*dto.WorkUpdateResponse, error) {
	existing, err := uc.updates.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load update", err, in)
	}
	if existing == nil {
		return nil, domain.NewNotFound(msgUpdateNotFound, in)
	}
	in.DeploymentID = existing.DeploymentID
	s, err := validateShift(in)
	if err != nil {
		return nil, err
	}
	other, err := uc.updates.GetByDate(ctx, tenantID, existing.DeploymentID, s.workDate)
	if err != nil {
		return nil, domain.NewStorage("Unable to load updates", err, in)
	}
	if other != nil && other.ID != id {
		return nil, domain.NewConflict(msgUpdateExists, in)
	}
	if s.notes == "" {
		return nil, domain.NewValidation(msgNotesRequired, in)
	}

	u := &entity.DeploymentUpdate{
		ID:            id,
		TenantID:      tenantID,
		DeploymentID:  existing.DeploymentID,
		UserID:        existing.UserID,
		WorkDate:      s.workDate,
		StartTime:     s.startTime,
		EndTime:       s.endTime,
		HoursWorked:   s.hours,
		Notes:         s.notes,
		IsPlaceholder: existing.IsPlaceholder && s.notes == entity.PlaceholderNotes,
	}
	err = uc.updates.Update(ctx, u)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.NewConflict(msgUpdateExists, in)
	}
	if err != nil {
		return nil, mutationError(err, "Unable to update work update", msgUpdateNotFound, in)
	}
	return uc.getUpdate(ctx, tenantID, id)
}

// DeleteUpdate borra la jornada y devuelve el despliegue al que pertenecía.
func (uc *TrackingUseCase) DeleteUpdate(ctx context.Context, tenantID, id int64) (int64, error) {
	existing, err := uc.updates.GetByID(ctx, tenantID, id)
	if err != nil {
		return 0, domain.NewStorage("Unable to load update", err, nil)
	}
	if existing == nil {
		return 0, domain.NewNotFound(msgUpdateNotFound, nil)
	}
	if err := uc.updates.Delete(ctx, tenantID, id); err != nil {
		return 0, mutationError(err, "Unable to delete work update", msgUpdateNotFound, nil)
	}
	return existing.DeploymentID, nil
}

// ListUpdates jornadas de un despliegue ordenadas por fecha.
func (uc *TrackingUseCase) ListUpdates(ctx context.Context, tenantID, deploymentID int64) ([]dto.WorkUpdateResponse, error) {
	list, err := uc.updates.ListByDeployment(ctx, tenantID, deploymentID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load updates", err, nil)
	}
	return dto.NewWorkUpdateResponses(list), nil
}

func (uc *TrackingUseCase) getUpdate(ctx context.Context, tenantID, id int64) (*dto.WorkUpdateResponse, error) {
	u, err := uc.updates.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load update", err, nil)
	}
	if u == nil {
		return nil, domain.NewNotFound(msgUpdateNotFound, nil)
	}
	resp := dto.NewWorkUpdateResponses([]*entity.DeploymentUpdate{u})[0]
	return &resp, nil
}

func (uc *TrackingUseCase) loadDeployment(ctx context.Context, tenantID, id int64) (*entity.Deployment, error) {
	d, err := uc.deployments.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load deployment", err, nil)
	}
	if d == nil {
		return nil, domain.NewNotFound(msgDeploymentNotFound, nil)
	}
	return d, nil
}

// ─── Temporizadores ──────────────────────────────────────────────────────────

// StartTimer abre un temporizador. Un usuario tiene como máximo uno abierto.
func (uc *TrackingUseCase) StartTimer(ctx context.Context, tenantID, userID, deploymentID int64) (*dto.TimerResponse, error) {
	if _, err := uc.loadDeployment(ctx, tenantID, deploymentID); err != nil {
		return nil, err
	}
	active, err := uc.timers.FindActive(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load timer", err, nil)
	}
	if active != nil {
		return nil, domain.NewConflict(msgTimerActive, nil)
	}
	t := &entity.WorkTimer{
		TenantID:     tenantID,
		DeploymentID: deploymentID,
		UserID:       userID,
		StartAt:      worktime.FormatDateTime(uc.now()),
	}
	if err := uc.timers.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict(msgTimerActive, nil)
		}
		return nil, domain.NewStorage("Unable to start timer", err, nil)
	}
	return dto.NewTimerResponse(t), nil
}

// StopTimer cierra el temporizador del usuario sobre el despliegue y deja la
// jornada placeholder del día si no había reporte.
func (uc *TrackingUseCase) StopTimer(ctx context.Context, tenantID, userID, deploymentID int64) (*dto.TimerResponse, error) {
	active, err := uc.timers.FindActive(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load timer", err, nil)
	}
	if active == nil {
		return nil, domain.NewValidation(msgNoActiveTimer, nil)
	}
	if active.DeploymentID != deploymentID {
		return nil, domain.NewValidation(msgTimerOtherTarget, nil)
	}

	endAt := worktime.EnsureEndAfter(active.StartAt, worktime.FormatDateTime(uc.now()))
	if err := uc.closeTimer(ctx, active, endAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflict(msgNoActiveTimer, nil)
		}
		return nil, domain.NewStorage("Unable to stop timer", err, nil)
	}
	uc.metrics.TimersClosed(CloseManual, 1)
	active.EndAt = &endAt
	return dto.NewTimerResponse(active), nil
}

// ActiveTimer temporizador abierto del usuario, nil si no tiene.
func (uc *TrackingUseCase) ActiveTimer(ctx context.Context, tenantID, userID int64) (*dto.TimerResponse, error) {
	t, err := uc.timers.FindActive(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load timer", err, nil)
	}
	return dto.NewTimerResponse(t), nil
}

// CloseStaleTimers cierra los temporizadores abiertos hace más de 9h en todos
// los workspaces, con fin = inicio + 9h. Devuelve cuántos cerró.
func (uc *TrackingUseCase) CloseStaleTimers(ctx context.Context) (int, error) {
	stale, err := uc.timers.ListStale(ctx, worktime.StaleCutoff(uc.now()))
	if err != nil {
		return 0, domain.NewStorage("Unable to load timers", err, nil)
	}
	closed := 0
	for _, t := range stale {
		endAt, ok := worktime.StaleEnd(t.StartAt)
		if !ok {
			log.Warn().Int64("timer_id", t.ID).Str("start_at", t.StartAt).Msg("[TRACKING] temporizador con inicio ilegible")
			continue
		}
		err := uc.closeTimer(ctx, t, endAt)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return closed, domain.NewStorage("Unable to close timer", err, nil)
		}
		closed++
	}
	if closed > 0 {
		uc.metrics.TimersClosed(CloseStale, closed)
	}
	return closed, nil
}

// closeTimer cierra el temporizador y registra el placeholder en la misma transacción.
func (uc *TrackingUseCase) closeTimer(ctx context.Context, t *entity.WorkTimer, endAt string) error {
	return uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Timers.Stop(ctx, t.TenantID, t.ID, endAt); err != nil {
			return err
		}
		return upsertPlaceholder(ctx, r.Updates, t, endAt)
	})
}

// upsertPlaceholder crea la jornada placeholder del día de inicio, o refresca la
// existente si sigue siendo placeholder. Un reporte real nunca se pisa.
func upsertPlaceholder(ctx context.Context, updates repository.DeploymentUpdateRepository, t *entity.WorkTimer, endAt string) error {
	workDate, startTime, ok := worktime.SplitDateTime(t.StartAt)
	if !ok {
		return nil
	}
	_, endTime, ok := worktime.SplitDateTime(endAt)
	if !ok {
		return nil
	}
	start, okStart := worktime.ParseClock(startTime)
	end, okEnd := worktime.ParseClock(endTime)
	minutes := int64(1)
	if okStart && okEnd {
		if m := int64(end.Sub(start).Minutes()); m > 0 {
			minutes = m
		}
	}

	existing, err := updates.GetByDate(ctx, t.TenantID, t.DeploymentID, workDate)
	if err != nil {
		return err
	}
	userID := t.UserID
	u := &entity.DeploymentUpdate{
		TenantID:      t.TenantID,
		DeploymentID:  t.DeploymentID,
		UserID:        &userID,
		WorkDate:      workDate,
		StartTime:     startTime,
		EndTime:       endTime,
		HoursWorked:   worktime.HoursFromMinutes(minutes),
		Notes:         entity.PlaceholderNotes,
		IsPlaceholder: true,
	}
	if existing == nil {
		return updates.Create(ctx, u)
	}
	if !existing.IsPlaceholder {
		return nil
	}
	u.ID = existing.ID
	return updates.Update(ctx, u)
}
