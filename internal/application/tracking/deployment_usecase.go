// Package tracking orquesta despliegues, jornadas de trabajo y temporizadores.
package tracking

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/crew"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

const (
	msgDeploymentNotFound = "Deployment not found."
	detailRecommendations = 3
)

// DeploymentUseCase alta, edición y consulta de despliegues.
type DeploymentUseCase struct {
	deployments repository.DeploymentRepository
	clients     repository.ClientRepository
	crews       repository.CrewRepository
	updates     repository.DeploymentUpdateRepository
	timers      repository.WorkTimerRepository
	gate        *quota.Gate
}

// NewDeploymentUseCase construye el caso de uso.
func NewDeploymentUseCase(
	deployments repository.DeploymentRepository,
	clients repository.ClientRepository,
	crews repository.CrewRepository,
	updates repository.DeploymentUpdateRepository,
	timers repository.WorkTimerRepository,
	gate *quota.Gate,
) *DeploymentUseCase {
	return &DeploymentUseCase{
		deployments: deployments, clients: clients, crews: crews,
		updates: updates, timers: timers, gate: gate,
	}
}

// ─── Validación ──────────────────────────────────────────────────────────────

func (uc *DeploymentUseCase) validate(ctx context.Context, tenantID int64, in dto.DeploymentRequest, checkQuota bool) (*entity.Deployment, error) {
	if in.ClientID <= 0 {
		return nil, domain.NewValidation("Client is required.", in)
	}
	if checkQuota {
		err := uc.gate.Check(ctx, tenantID, workspace.ScopeDeploymentsPerClient, func(ctx context.Context) (int64, error) {
			return uc.deployments.CountByClient(ctx, tenantID, in.ClientID)
		}, in)
		if err != nil {
			return nil, err
		}
	}
	if in.CrewID <= 0 {
		return nil, domain.NewValidation("Crew is required.", in)
	}
	startAt := worktime.NormalizeDateTime(in.StartAt)
	if startAt == "" {
		return nil, domain.NewValidation("Start time is required.", in)
	}
	endAt := worktime.NormalizeDateTime(in.EndAt)
	if endAt == "" {
		return nil, domain.NewValidation("Finish time is required.", in)
	}
	if !in.FeePerHour.IsPositive() {
		return nil, domain.NewValidation("Fee per hour must be greater than 0.", in)
	}
	info := strings.TrimSpace(in.Info)
	if info == "" {
		return nil, domain.NewValidation("Deployment information is required.", in)
	}

	client, err := uc.clients.GetByID(ctx, tenantID, in.ClientID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load client", err, in)
	}
	if client == nil {
		return nil, domain.NewValidation("Selected client was not found.", in)
	}
	c, err := uc.crews.GetByID(ctx, tenantID, in.CrewID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew", err, in)
	}
	if c == nil {
		return nil, domain.NewValidation("Selected crew was not found.", in)
	}

	return &entity.Deployment{
		TenantID:          tenantID,
		ClientID:          in.ClientID,
		CrewID:            in.CrewID,
		StartAt:           startAt,
		EndAt:             endAt,
		FeePerHour:        in.FeePerHour,
		Info:              info,
		Status:            entity.NormalizeOption(in.Status, entity.DeploymentStatuses, entity.DeploymentScheduled),
		DeploymentType:    entity.NormalizeOption(in.DeploymentType, entity.DeploymentTypes, entity.DeploymentOnsite),
		RequiredSkills:    crew.NormalizeTags(in.RequiredSkills),
		CompatibilityPref: crew.NormalizeTags(in.CompatibilityPref),
	}, nil
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

// Create alta de despliegue. Aplica el límite de despliegues por cliente del plan.
func (uc *DeploymentUseCase) Create(ctx context.Context, tenantID int64, in dto.DeploymentRequest) (*dto.DeploymentResponse, error) {
	d, err := uc.validate(ctx, tenantID, in, true)
	if err != nil {
		return nil, err
	}
	if err := uc.deployments.Create(ctx, d); err != nil {
		return nil, domain.NewStorage("Unable to create deployment", err, in)
	}
	return uc.Get(ctx, tenantID, d.ID)
}

// Update reemplaza todos los campos editables.
func (uc *DeploymentUseCase) Update(ctx context.Context, tenantID, id int64, in dto.DeploymentRequest) (*dto.DeploymentResponse, error) {
	d, err := uc.validate(ctx, tenantID, in, false)
	if err != nil {
		return nil, err
	}
	d.ID = id
	if err := uc.deployments.Update(ctx, d); err != nil {
		return nil, mutationError(err, "Unable to update deployment", msgDeploymentNotFound, in)
	}
	return uc.Get(ctx, tenantID, id)
}

// Get despliegue con su tarifa estimada.
func (uc *DeploymentUseCase) Get(ctx context.Context, tenantID, id int64) (*dto.DeploymentResponse, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDeploymentResponse(d, worktime.CalculatedFee(d.StartAt, d.EndAt, d.FeePerHour))
	return &resp, nil
}

func (uc *DeploymentUseCase) load(ctx context.Context, tenantID, id int64) (*entity.Deployment, error) {
	d, err := uc.deployments.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load deployment", err, nil)
	}
	if d == nil {
		return nil, domain.NewNotFound(msgDeploymentNotFound, nil)
	}
	return d, nil
}

// List despliegues del workspace, más recientes primero.
func (uc *DeploymentUseCase) List(ctx context.Context, tenantID int64) ([]dto.DeploymentResponse, error) {
	list, err := uc.deployments.List(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load deployments", err, nil)
	}
	out := make([]dto.DeploymentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewDeploymentResponse(d, worktime.CalculatedFee(d.StartAt, d.EndAt, d.FeePerHour)))
	}
	return out, nil
}

// ListGrouped agrupa el listado por cliente respetando el orden de aparición.
func (uc *DeploymentUseCase) ListGrouped(ctx context.Context, tenantID int64) ([]dto.DeploymentGroup, error) {
	list, err := uc.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	clients, err := uc.clients.ListAll(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load clients", err, nil)
	}
	currency := make(map[int64]string, len(clients))
	for _, c := range clients {
		currency[c.ID] = c.Currency
	}
	return GroupByClient(list, currency), nil
}

// GroupByClient agrupa despliegues consecutivos o no por cliente; el primer
// despliegue de cada cliente fija la posición del grupo.
func GroupByClient(list []dto.DeploymentResponse, currency map[int64]string) []dto.DeploymentGroup {
	groups := make([]dto.DeploymentGroup, 0)
	index := make(map[int64]int)
	for _, d := range list {
		i, ok := index[d.ClientID]
		if !ok {
			i = len(groups)
			index[d.ClientID] = i
			groups = append(groups, dto.DeploymentGroup{
				ClientID:       d.ClientID,
				ClientName:     d.ClientName,
				ClientCurrency: currency[d.ClientID],
			})
		}
		groups[i].Deployments = append(groups[i].Deployments, d)
	}
	return groups
}

// Delete elimina el despliegue con sus jornadas, temporizadores y factura.
func (uc *DeploymentUseCase) Delete(ctx context.Context, tenantID, id int64) error {
	if err := uc.deployments.Delete(ctx, tenantID, id); err != nil {
		return mutationError(err, "Unable to delete deployment", msgDeploymentNotFound, nil)
	}
	return nil
}

// ─── Cálculos ────────────────────────────────────────────────────────────────

// EstimateFee tarifa estimada sin persistir nada.
func (uc *DeploymentUseCase) EstimateFee(in dto.FeeEstimateRequest) dto.FeeEstimateResponse {
	startAt := worktime.NormalizeDateTime(in.StartAt)
	endAt := worktime.NormalizeDateTime(in.EndAt)
	hours := decimal.Zero
	if start, ok := worktime.ParseDateTime(startAt); ok {
		if end, ok := worktime.ParseDateTime(endAt); ok && end.After(start) {
			minutes := worktime.BillableMinutes(int64(end.Sub(start).Minutes()))
			hours = worktime.HoursFromMinutes(minutes)
		}
	}
	return dto.FeeEstimateResponse{
		BillableHours: hours,
		Fee:           worktime.CalculatedFee(startAt, endAt, in.FeePerHour),
	}
}

// Recommend los tres mejores equipos con puntuación positiva para los requisitos dados.
func (uc *DeploymentUseCase) Recommend(ctx context.Context, tenantID int64, in dto.RecommendRequest) ([]dto.RecommendationResponse, error) {
	crews, err := uc.crews.List(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crews", err, in)
	}
	all := make([]entity.Crew, 0, len(crews))
	for _, c := range crews {
		all = append(all, *c)
	}
	recs := crew.Recommend(all, in.RequiredSkills, in.CompatibilityPref)
	top := crew.TopPositive(recs, in.RequiredSkills, in.CompatibilityPref, detailRecommendations)
	return dto.NewRecommendationResponses(top), nil
}

// Detail despliegue con jornadas, horas totales, temporizador activo del usuario
// y recomendación de equipos.
func (uc *DeploymentUseCase) Detail(ctx context.Context, tenantID, userID, id int64) (*dto.DeploymentDetail, error) {
	d, err := uc.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	updates, err := uc.updates.ListByDeployment(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load updates", err, nil)
	}
	total, err := uc.updates.TotalHours(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load updates", err, nil)
	}
	timer, err := uc.timers.FindActive(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load timer", err, nil)
	}
	recs, err := uc.Recommend(ctx, tenantID, dto.RecommendRequest{
		RequiredSkills:    d.RequiredSkills,
		CompatibilityPref: d.CompatibilityPref,
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeploymentDetail{
		Deployment:      *d,
		Updates:         dto.NewWorkUpdateResponses(updates),
		TotalHours:      total,
		ActiveTimer:     dto.NewTimerResponse(timer),
		Recommendations: recs,
	}, nil
}
