package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// BcryptHash hashea contraseñas con el costo por defecto de bcrypt.
func BcryptHash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UserUseCase gestión de usuarios con las reglas de jerarquía de roles.
type UserUseCase struct {
	ac   *access.Controller
	hash workspace.PasswordHasher
}

// NewUserUseCase construye el caso de uso. hash nil = bcrypt.
func NewUserUseCase(ac *access.Controller, hash workspace.PasswordHasher) *UserUseCase {
	if hash == nil {
		hash = BcryptHash
	}
	return &UserUseCase{ac: ac, hash: hash}
}

// List usuarios filtrados por texto (nombre o email), rol y estado.
func (uc *UserUseCase) List(ctx context.Context, s access.Session, in dto.UserListRequest) ([]dto.UserResponse, error) {
	q := strings.ToLower(strings.TrimSpace(in.Q))
	out := make([]dto.UserResponse, 0)
	err := uc.ac.View(ctx, s, entity.PermUsersView, func(ws *workspace.Workspace, _ *entity.User) error {
		for _, u := range ws.Users.List() {
			if q != "" && !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
				continue
			}
			if in.Role != "" && string(u.Role) != in.Role {
				continue
			}
			if in.Status != "" && string(u.Status) != in.Status {
				continue
			}
			out = append(out, toUserResponse(u))
		}
		return nil
	})
	return out, err
}

// Me usuario de la sesión con sus permisos; no exige ningún permiso concreto.
func (uc *UserUseCase) Me(ctx context.Context, s access.Session) (*dto.MeResponse, error) {
	u, err := uc.ac.Actor(ctx, s)
	if err != nil {
		return nil, err
	}
	perms, err := uc.ac.Permissions(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &dto.MeResponse{User: toUserResponse(u), Permissions: make([]string, 0, len(perms))}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, string(p))
	}
	return out, nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, s access.Session, id string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := uc.ac.View(ctx, s, entity.PermUsersView, func(ws *workspace.Workspace, _ *entity.User) error {
		u, err := ws.Users.Get(id)
		out = toUserResponse(u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create da de alta un usuario con un rol no superior al de quien lo crea.
func (uc *UserUseCase) Create(ctx context.Context, s access.Session, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrValidation)
	}
	hash, err := uc.hash(in.Password)
	if err != nil {
		return nil, err
	}
	var out dto.UserResponse
	err = uc.ac.Execute(ctx, s, entity.PermUsersCreate, func(ws *workspace.Workspace, actor *entity.User) (string, error) {
		if err := access.CanAssignRole(actor, entity.Role(in.Role)); err != nil {
			return "", err
		}
		u, err := ws.Users.Add(account.UserInput{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         entity.Role(in.Role),
			Status:       entity.UserStatus(in.Status),
		})
		if err != nil {
			return "", err
		}
		out = toUserResponse(u)
		return fmt.Sprintf("creó el usuario %s (%s)", u.Email, u.Role), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edita un usuario. Nadie puede cambiar su propio rol.
func (uc *UserUseCase) Update(ctx context.Context, s access.Session, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var hash string
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrValidation)
		}
		var err error
		if hash, err = uc.hash(in.Password); err != nil {
			return nil, err
		}
	}
	var out dto.UserResponse
	err := uc.ac.Execute(ctx, s, entity.PermUsersEdit, func(ws *workspace.Workspace, actor *entity.User) (string, error) {
		target, err := ws.Users.Get(id)
		if err != nil {
			return "", err
		}
		if err := access.CanActOn(actor, &target); err != nil {
			return "", err
		}
		role := entity.Role(in.Role)
		if role == "" {
			role = target.Role
		}
		if role != target.Role {
			if actor.ID == target.ID {
				return "", fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrForbidden)
			}
			if err := access.CanAssignRole(actor, role); err != nil {
				return "", err
			}
		}
		if actor.ID == target.ID && in.Status == string(entity.StatusSuspended) {
			return "", fmt.Errorf("%w: no puede suspender su propia cuenta", domain.ErrForbidden)
		}
		u, err := ws.Users.Update(id, account.UserInput{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         role,
			Status:       entity.UserStatus(in.Status),
		})
		if err != nil {
			return "", err
		}
		out = toUserResponse(u)
		return fmt.Sprintf("actualizó el usuario %s", u.Email), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un usuario. Nadie puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	_, err := uc.BulkDelete(ctx, s, []string{id})
	return err
}

// BulkDelete elimina varios usuarios (todo o nada).
func (uc *UserUseCase) BulkDelete(ctx context.Context, s access.Session, ids []string) (*dto.BulkResponse, error) {
	err := uc.ac.Execute(ctx, s, entity.PermUsersDelete, func(ws *workspace.Workspace, actor *entity.User) (string, error) {
		targets, err := uc.targets(ws, actor, ids)
		if err != nil {
			return "", err
		}
		for _, t := range targets {
			if t.ID == actor.ID {
				return "", fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrForbidden)
			}
		}
		if err := ws.Users.Delete(ids...); err != nil {
			return "", err
		}
		if len(targets) == 1 {
			return fmt.Sprintf("eliminó el usuario %s", targets[0].Email), nil
		}
		return fmt.Sprintf("eliminó %d usuarios", len(targets)), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkResponse{Affected: len(ids)}, nil
}

// BulkStatus activa o suspende varios usuarios (todo o nada).
func (uc *UserUseCase) BulkStatus(ctx context.Context, s access.Session, in dto.BulkStatusRequest) (*dto.BulkResponse, error) {
	status := entity.UserStatus(in.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrValidation, in.Status)
	}
	err := uc.ac.Execute(ctx, s, entity.PermUsersEdit, func(ws *workspace.Workspace, actor *entity.User) (string, error) {
		targets, err := uc.targets(ws, actor, in.IDs)
		if err != nil {
			return "", err
		}
		for _, t := range targets {
			if t.ID == actor.ID && status == entity.StatusSuspended {
				return "", fmt.Errorf("%w: no puede suspender su propia cuenta", domain.ErrForbidden)
			}
			if err := ws.Users.SetStatus(t.ID, status); err != nil {
				return "", err
			}
		}
		verb := "activó"
		if status == entity.StatusSuspended {
			verb = "suspendió"
		}
		return fmt.Sprintf("%s %d usuarios", verb, len(targets)), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkResponse{Affected: len(in.IDs)}, nil
}

// targets resuelve los usuarios y comprueba la jerarquía sobre cada uno antes de modificar nada.
func (uc *UserUseCase) targets(ws *workspace.Workspace, actor *entity.User, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no se indicaron usuarios", domain.ErrValidation)
	}
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		t, err := ws.Users.Get(id)
		if err != nil {
			return nil, err
		}
		if err := access.CanActOn(actor, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
