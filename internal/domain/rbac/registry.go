// Package rbac implementa el registro de permisos por rol y las reglas de jerarquía.
package rbac

import (
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// Registry mapa total rol -> conjunto de permisos.
type Registry struct {
	grants map[entity.Role]map[entity.Permission]struct{}
}

// NewRegistry construye el registro; todo rol de la jerarquía queda con entrada (posiblemente vacía).
// Roles o permisos desconocidos en la entrada se ignoran.
func NewRegistry(grants map[entity.Role][]entity.Permission) *Registry {
	r := &Registry{grants: make(map[entity.Role]map[entity.Permission]struct{}, len(entity.RolesHierarchy))}
	for _, role := range entity.RolesHierarchy {
		set := make(map[entity.Permission]struct{})
		for _, p := range grants[role] {
			if p.Known() {
				set[p] = struct{}{}
			}
		}
		r.grants[role] = set
	}
	return r
}

// HasPermission indica si el rol tiene el permiso.
func (r *Registry) HasPermission(role entity.Role, perm entity.Permission) bool {
	_, ok := r.grants[role][perm]
	return ok
}

// Grant concede perm a target. acting solo puede modificar roles de su mismo rango o inferiores.
func (r *Registry) Grant(acting, target entity.Role, perm entity.Permission) error {
	if err := r.check(acting, target, perm); err != nil {
		return err
	}
	r.grants[target][perm] = struct{}{}
	return nil
}

// Revoke retira perm a target con la misma regla de jerarquía que Grant.
func (r *Registry) Revoke(acting, target entity.Role, perm entity.Permission) error {
	if err := r.check(acting, target, perm); err != nil {
		return err
	}
	delete(r.grants[target], perm)
	return nil
}

func (r *Registry) check(acting, target entity.Role, perm entity.Permission) error {
	if !acting.Valid() || !target.Valid() {
		return fmt.Errorf("%w: rol desconocido", domain.ErrValidation)
	}
	if !perm.Known() {
		return fmt.Errorf("%w: permiso desconocido %q", domain.ErrValidation, perm)
	}
	if !CanManage(acting, target) {
		return fmt.Errorf("%w: el rol %s no puede modificar permisos del rol %s", domain.ErrForbidden, acting, target)
	}
	return nil
}

// Permissions permisos del rol ordenados alfabéticamente.
func (r *Registry) Permissions(role entity.Role) []entity.Permission {
	out := make([]entity.Permission, 0, len(r.grants[role]))
	for p := range r.grants[role] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Snapshot copia del mapa completo (forma del documento "permissions").
func (r *Registry) Snapshot() map[entity.Role][]entity.Permission {
	out := make(map[entity.Role][]entity.Permission, len(r.grants))
	for _, role := range entity.RolesHierarchy {
		out[role] = r.Permissions(role)
	}
	return out
}

// CanManage indica si actor puede actuar sobre target: target no es más privilegiado que actor.
func CanManage(actor, target entity.Role) bool {
	a, t := actor.Rank(), target.Rank()
	return a >= 0 && t >= 0 && a <= t
}

// DefaultGrants permisos iniciales por rol.
func DefaultGrants() map[entity.Role][]entity.Permission {
	all := make([]entity.Permission, 0, len(entity.PermissionDescriptions))
	for p := range entity.PermissionDescriptions {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return map[entity.Role][]entity.Permission{
		entity.RoleAdmin: all,
		entity.RoleManager: {
			entity.PermDashboardView,
			entity.PermProductsView, entity.PermProductsCreate, entity.PermProductsEdit, entity.PermProductsDelete,
			entity.PermCategoriesView, entity.PermCategoriesCreate, entity.PermCategoriesEdit, entity.PermCategoriesDelete,
			entity.PermUsersView, entity.PermUsersCreate, entity.PermUsersEdit,
			entity.PermSettingsView,
		},
		entity.RoleUser: {
			entity.PermDashboardView, entity.PermProductsView, entity.PermProductsCreate, entity.PermCategoriesView,
		},
		entity.RoleViewer: {
			entity.PermDashboardView, entity.PermProductsView, entity.PermCategoriesView,
		},
	}
}
