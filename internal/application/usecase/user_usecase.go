package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/authz"
	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/access"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
	"github.com/jhoicas/kinetic/pkg/password"
)

const msgUserNotFound = "Selected user was not found."

// UserUseCase gestión de usuarios del workspace por Owner/Admin.
type UserUseCase struct {
	users repository.UserRepository
	tx    repository.TxRunner
	gate  *quota.Gate
	authz *authz.Service
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(users repository.UserRepository, tx repository.TxRunner, gate *quota.Gate, authz *authz.Service) *UserUseCase {
	return &UserUseCase{users: users, tx: tx, gate: gate, authz: authz}
}

// Create alta de usuario; cuenta contra el tope de usuarios del plan.
func (uc *UserUseCase) Create(ctx context.Context, tenantID int64, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	form := dto.CreateUserRequest{Email: in.Email, Role: in.Role}
	email := dto.NormalizeEmail(in.Email)
	if !dto.ValidEmail(email) {
		return nil, domain.NewValidation("A valid email address is required.", form)
	}
	if len(strings.TrimSpace(in.Password)) < 8 {
		return nil, domain.NewValidation("Password must be at least 8 characters.", form)
	}
	role := entity.NormalizeOption(access.NormalizeRole(in.Role), entity.Roles, "")
	if role == "" {
		return nil, domain.NewValidation("Role is not supported.", form)
	}
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeUsers, func(ctx context.Context) (int64, error) {
		return uc.users.CountByTenant(ctx, tenantID)
	}, form)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("user: hash: %w", err)
	}
	user := &entity.User{TenantID: tenantID, Email: email, PasswordHash: hash, Role: role}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("A user with this email already exists.", form)
		}
		return nil, domain.NewStorage("Unable to create user", err, form)
	}
	return uc.Get(ctx, tenantID, user.ID)
}

// Get un usuario del workspace.
func (uc *UserUseCase) Get(ctx context.Context, tenantID, id int64) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load user", err, nil)
	}
	if user == nil {
		return nil, domain.NewNotFound(msgUserNotFound, nil)
	}
	return dto.NewUserResponse(user), nil
}

// List usuarios del workspace.
func (uc *UserUseCase) List(ctx context.Context, tenantID int64) ([]dto.UserResponse, error) {
	list, err := uc.users.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load users", err, nil)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *dto.NewUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol y reescribe sus permisos. Nadie cambia su propio rol.
func (uc *UserUseCase) UpdateRole(ctx context.Context, tenantID, actorID, userID int64, in dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	if actorID == userID {
		return nil, domain.NewValidation("You cannot change your own role.", in)
	}
	if err := uc.authz.RefreshUserRole(ctx, tenantID, userID, in.Role); err != nil {
		return nil, err
	}
	return uc.Get(ctx, tenantID, userID)
}

// Permissions permisos efectivos del usuario (materializa los del rol si no hay filas).
func (uc *UserUseCase) Permissions(ctx context.Context, tenantID, userID int64) ([]dto.PermissionResponse, error) {
	user, err := uc.users.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load user", err, nil)
	}
	if user == nil {
		return nil, domain.NewNotFound(msgUserNotFound, nil)
	}
	perms, err := uc.authz.Permissions(ctx, user)
	if err != nil {
		return nil, err
	}
	return dto.NewPermissionResponses(perms), nil
}

// ReplacePermissions sobrescribe los permisos explícitos del usuario.
func (uc *UserUseCase) ReplacePermissions(ctx context.Context, tenantID, userID int64, in dto.PermissionsRequest) ([]dto.PermissionResponse, error) {
	perms, err := uc.authz.ReplacePermissions(ctx, tenantID, userID, in)
	if err != nil {
		return nil, err
	}
	return dto.NewPermissionResponses(perms), nil
}

// Delete elimina un usuario. Nadie se elimina a sí mismo. Sus filas de miembro
// caen en cascada; en la misma tx se recalcula members_count de sus equipos.
func (uc *UserUseCase) Delete(ctx context.Context, tenantID, actorID, userID int64) error {
	if actorID == userID {
		return domain.NewValidation("You cannot delete your own account.", nil)
	}
	return uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		crewIDs, err := r.Members.CrewIDsByUser(ctx, tenantID, userID)
		if err != nil {
			return domain.NewStorage("Unable to load crews", err, nil)
		}
		if err := r.Users.Delete(ctx, tenantID, userID); err != nil {
			return mutationError(err, "Unable to delete user", msgUserNotFound, nil)
		}
		for _, id := range crewIDs {
			if err := r.Crews.RefreshMembersCount(ctx, tenantID, id); err != nil {
				return domain.NewStorage("Unable to refresh crews", err, nil)
			}
		}
		return nil
	})
}
