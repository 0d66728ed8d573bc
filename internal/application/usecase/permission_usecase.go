package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// PermissionUseCase matriz rol/permiso. Se edita con users:edit y se consulta con users:view.
type PermissionUseCase struct {
	ac *access.Controller
}

// NewPermissionUseCase construye el caso de uso.
func NewPermissionUseCase(ac *access.Controller) *PermissionUseCase {
	return &PermissionUseCase{ac: ac}
}

// Matrix devuelve roles, catálogo de permisos y concesiones actuales.
func (uc *PermissionUseCase) Matrix(ctx context.Context, s access.Session) (*dto.PermissionMatrixResponse, error) {
	var out dto.PermissionMatrixResponse
	err := uc.ac.View(ctx, s, entity.PermUsersView, func(ws *workspace.Workspace, _ *entity.User) error {
		out = matrix(ws)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Permissions permisos efectivos del usuario de la sesión.
func (uc *PermissionUseCase) Permissions(ctx context.Context, s access.Session) ([]string, error) {
	perms, err := uc.ac.Permissions(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out, nil
}

// Grant concede un permiso a un rol.
func (uc *PermissionUseCase) Grant(ctx context.Context, s access.Session, in dto.PermissionChangeRequest) (*dto.PermissionMatrixResponse, error) {
	return uc.change(ctx, s, in, true)
}

// Revoke retira un permiso a un rol.
func (uc *PermissionUseCase) Revoke(ctx context.Context, s access.Session, in dto.PermissionChangeRequest) (*dto.PermissionMatrixResponse, error) {
	return uc.change(ctx, s, in, false)
}

func (uc *PermissionUseCase) change(ctx context.Context, s access.Session, in dto.PermissionChangeRequest, grant bool) (*dto.PermissionMatrixResponse, error) {
	var out dto.PermissionMatrixResponse
	err := uc.ac.Execute(ctx, s, entity.PermUsersEdit, func(ws *workspace.Workspace, actor *entity.User) (string, error) {
		target, perm := entity.Role(in.Role), entity.Permission(in.Permission)
		if grant {
			if err := ws.Registry.Grant(actor.Role, target, perm); err != nil {
				return "", err
			}
			out = matrix(ws)
			return fmt.Sprintf("concedió %s al rol %s", perm, target), nil
		}
		if err := ws.Registry.Revoke(actor.Role, target, perm); err != nil {
			return "", err
		}
		out = matrix(ws)
		return fmt.Sprintf("revocó %s al rol %s", perm, target), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func matrix(ws *workspace.Workspace) dto.PermissionMatrixResponse {
	out := dto.PermissionMatrixResponse{Grants: make(map[string][]string, len(entity.RolesHierarchy))}
	for _, role := range entity.RolesHierarchy {
		out.Roles = append(out.Roles, string(role))
		perms := make([]string, 0)
		for _, p := range ws.Registry.Permissions(role) {
			perms = append(perms, string(p))
		}
		out.Grants[string(role)] = perms
	}
	for p, desc := range entity.PermissionDescriptions {
		out.Permissions = append(out.Permissions, dto.PermissionInfo{Key: string(p), Description: desc})
	}
	sort.Slice(out.Permissions, func(i, j int) bool { return out.Permissions[i].Key < out.Permissions[j].Key })
	return out
}
