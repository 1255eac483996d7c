// Package auth registra workspaces, autentica usuarios y administradores y
// resuelve el token de sesión a la identidad de cada petición.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
	"github.com/jhoicas/kinetic/pkg/password"
	"github.com/jhoicas/kinetic/pkg/session"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgPasswordTooShort   = "Password must be at least 8 characters."
	msgEmailInvalid       = "A valid email address is required."
	minPasswordLen        = 8
)

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	admins  repository.AdminRepository
	gate    *quota.Gate
	issuer  *session.Issuer
	revoker ports.SessionRevoker
}

// NewAuthUseCase construye el caso de uso. revoker nil desactiva la revocación.
func NewAuthUseCase(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	admins repository.AdminRepository,
	gate *quota.Gate,
	issuer *session.Issuer,
	revoker ports.SessionRevoker,
) *AuthUseCase {
	return &AuthUseCase{tenants: tenants, users: users, admins: admins, gate: gate, issuer: issuer, revoker: revoker}
}

// Register crea el workspace (plan free) y su Owner, y abre sesión.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	form := dto.RegisterRequest{TenantName: strings.TrimSpace(in.TenantName), Email: in.Email}
	if form.TenantName == "" {
		return nil, domain.NewValidation("Company name is required.", form)
	}
	slug, ok := workspace.NormalizeSlug(form.TenantName)
	if !ok {
		return nil, domain.NewValidation("Company name must be letters, numbers, or dashes.", form)
	}
	email := dto.NormalizeEmail(in.Email)
	if !dto.ValidEmail(email) {
		return nil, domain.NewValidation(msgEmailInvalid, form)
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return nil, domain.NewValidation(msgPasswordTooShort, form)
	}
	existing, err := uc.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorage("Unable to check workspace", err, form)
	}
	if existing != nil {
		return nil, domain.NewConflict("Workspace already exists.", form)
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash: %w", err)
	}

	tenant := &entity.Tenant{Slug: slug, Name: form.TenantName, PlanKey: workspace.PlanFree}
	if err := uc.tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("Workspace already exists.", form)
		}
		return nil, domain.NewStorage("Unable to create workspace", err, form)
	}
	user := &entity.User{TenantID: tenant.ID, Email: email, PasswordHash: hash, Role: entity.RoleOwner}
	if err := uc.users.Create(ctx, user); err != nil {
		_ = uc.tenants.Delete(ctx, tenant.ID)
		return nil, domain.NewStorage("Unable to create user", err, form)
	}
	user.TenantSlug, user.PlanKey = tenant.Slug, tenant.PlanKey
	return uc.issueUser(user)
}

// Join registra un Employee en un workspace existente. Cuenta contra el tope de usuarios.
func (uc *AuthUseCase) Join(ctx context.Context, slug string, in dto.JoinRequest) (*dto.LoginResponse, error) {
	form := dto.JoinRequest{Email: in.Email}
	normalized, ok := workspace.NormalizeSlug(slug)
	if !ok {
		return nil, domain.NewValidation("Workspace slug must be lowercase letters, numbers, or dashes.", form)
	}
	email := dto.NormalizeEmail(in.Email)
	if !dto.ValidEmail(email) {
		return nil, domain.NewValidation(msgEmailInvalid, form)
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return nil, domain.NewValidation(msgPasswordTooShort, form)
	}
	tenant, err := uc.tenants.GetBySlug(ctx, normalized)
	if err != nil {
		return nil, domain.NewStorage("Unable to check workspace", err, form)
	}
	if tenant == nil {
		return nil, domain.NewNotFound("Workspace not found.", form)
	}
	err = uc.gate.Check(ctx, tenant.ID, workspace.ScopeUsers, func(ctx context.Context) (int64, error) {
		return uc.users.CountByTenant(ctx, tenant.ID)
	}, form)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash: %w", err)
	}
	user := &entity.User{TenantID: tenant.ID, Email: email, PasswordHash: hash, Role: entity.RoleEmployee}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("A user with this email already exists.", form)
		}
		return nil, domain.NewStorage("Unable to create user", err, form)
	}
	user.TenantSlug, user.PlanKey = tenant.Slug, tenant.PlanKey
	return uc.issueUser(user)
}

// Login verifica credenciales dentro del workspace. Cualquier fallo responde igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	form := dto.LoginRequest{Slug: in.Slug, Email: in.Email}
	slug, ok := workspace.NormalizeSlug(in.Slug)
	if !ok {
		return nil, domain.NewValidation("Workspace slug must be lowercase letters, numbers, or dashes.", form)
	}
	tenant, err := uc.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorage("Unable to check workspace", err, form)
	}
	if tenant == nil {
		return nil, domain.NewUnauthorized(msgInvalidCredentials, form)
	}
	user, err := uc.users.GetByEmail(ctx, tenant.ID, dto.NormalizeEmail(in.Email))
	if err != nil {
		return nil, domain.NewStorage("Unable to load user", err, form)
	}
	if user == nil || password.Verify(in.Password, user.PasswordHash) != nil {
		return nil, domain.NewUnauthorized(msgInvalidCredentials, form)
	}
	expired, err := uc.gate.Expired(ctx, tenant.ID)
	if err == nil {
		user.PlanExpired = expired
	}
	return uc.issueUser(user)
}

// AdminLogin verifica credenciales del panel de administración.
func (uc *AuthUseCase) AdminLogin(ctx context.Context, in dto.AdminLoginRequest) (*dto.LoginResponse, error) {
	form := dto.AdminLoginRequest{Email: in.Email}
	admin, err := uc.admins.GetByEmail(ctx, dto.NormalizeEmail(in.Email))
	if err != nil {
		return nil, domain.NewStorage("Unable to load admin", err, form)
	}
	if admin == nil || password.Verify(in.Password, admin.PasswordHash) != nil {
		return nil, domain.NewUnauthorized(msgInvalidCredentials, form)
	}
	token, claims, err := uc.issuer.Issue(session.Identity{AdminID: admin.ID})
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (uc *AuthUseCase) issueUser(user *entity.User) (*dto.LoginResponse, error) {
	token, claims, err := uc.issuer.Issue(session.Identity{UserID: user.ID, TenantID: user.TenantID})
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: dto.NewUserResponse(user)}, nil
}

// claims valida firma, expiración y revocación.
func (uc *AuthUseCase) claims(ctx context.Context, token string) (*session.Claims, error) {
	claims, err := uc.issuer.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if uc.revoker != nil {
		revoked, err := uc.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth: consultar revocación: %w", err)
		}
		if revoked {
			return nil, domain.ErrUnauthorized
		}
	}
	return claims, nil
}

// Resolve devuelve el usuario de la sesión. Un usuario que no pertenece al
// workspace del token es anónimo (ErrUnauthorized).
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := uc.claims(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 || claims.TenantID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth: cargar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	expired, err := uc.gate.Expired(ctx, user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("auth: plan: %w", err)
	}
	user.PlanExpired = expired
	return user, nil
}

// ResolveAdmin devuelve el administrador de la sesión.
func (uc *AuthUseCase) ResolveAdmin(ctx context.Context, token string) (*entity.Admin, error) {
	claims, err := uc.claims(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.AdminID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	admin, err := uc.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		return nil, fmt.Errorf("auth: cargar admin: %w", err)
	}
	if admin == nil {
		return nil, domain.ErrUnauthorized
	}
	return admin, nil
}

// Logout revoca el token hasta su expiración. Un token inválido no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if uc.revoker == nil {
		return nil
	}
	claims, err := uc.issuer.Parse(token)
	if err != nil {
		return nil
	}
	until := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := uc.revoker.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("auth: revocar sesión: %w", err)
	}
	return nil
}

// SeedAdmin crea el administrador inicial solo si no existe ninguno. Nunca
// actualiza uno existente.
func (uc *AuthUseCase) SeedAdmin(ctx context.Context, email, plain string) (bool, error) {
	n, err := uc.admins.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("auth: contar admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return false, fmt.Errorf("auth: hash: %w", err)
	}
	if err := uc.admins.Create(ctx, &entity.Admin{Email: dto.NormalizeEmail(email), PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("auth: crear admin: %w", err)
	}
	return true, nil
}
