// Package access autoriza cada operación contra el rol del usuario de la sesión y
// registra la actividad de las operaciones aceptadas.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/rbac"
	"github.com/jhoicas/inventario-console/pkg/logger"
	"github.com/jhoicas/inventario-console/pkg/metrics"
)

// Session identidad de quien invoca. El usuario se resuelve en cada operación contra el
// estado actual, de modo que cambios de rol o suspensiones aplican de inmediato.
type Session struct {
	UserID    string
	SessionID string
}

// Op operación mutante. Devuelve la descripción para el registro de actividad;
// una descripción vacía no genera entrada.
type Op func(ws *workspace.Workspace, actor *entity.User) (string, error)

// ReadFn lectura autorizada; no debe modificar el workspace.
type ReadFn func(ws *workspace.Workspace, actor *entity.User) error

// Controller punto único de autorización.
type Controller struct {
	runner  *workspace.TxRunner
	log     *logger.Logger
	metrics *metrics.ConsoleMetrics
}

// NewController construye el controlador.
func NewController(runner *workspace.TxRunner, log *logger.Logger, m *metrics.ConsoleMetrics) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{runner: runner, log: log.Named("access"), metrics: m}
}

// Authorize false si el usuario no existe o está suspendido; si no, consulta el registro de permisos.
func Authorize(ws *workspace.Workspace, user *entity.User, perm entity.Permission) bool {
	if !user.IsActive() {
		return false
	}
	return ws.Registry.HasPermission(user.Role, perm)
}

// Execute autoriza y, si procede, ejecuta op y añade la entrada de actividad en la misma unidad
// de trabajo. Con la autorización denegada op no se ejecuta y nada se escribe.
func (c *Controller) Execute(ctx context.Context, s Session, perm entity.Permission, op Op) error {
	err := c.runner.Run(ctx, func(ws *workspace.Workspace) error {
		actor, err := c.authorize(ws, s, perm)
		if err != nil {
			return err
		}
		desc, err := op(ws, actor)
		if err != nil {
			return err
		}
		if desc != "" {
			ws.Activity.Append(desc, actor)
		}
		return nil
	})
	if err == nil {
		c.metrics.Mutation(string(perm))
	}
	return err
}

// View lectura condicionada al permiso.
func (c *Controller) View(ctx context.Context, s Session, perm entity.Permission, fn ReadFn) error {
	return c.runner.View(ctx, func(ws *workspace.Workspace) error {
		actor, err := c.authorize(ws, s, perm)
		if err != nil {
			return err
		}
		return fn(ws, actor)
	})
}

// Actor usuario activo de la sesión, sin exigir permisos.
func (c *Controller) Actor(ctx context.Context, s Session) (entity.User, error) {
	var out entity.User
	err := c.runner.View(ctx, func(ws *workspace.Workspace) error {
		u, err := resolve(ws, s)
		if err != nil {
			return err
		}
		if !u.IsActive() {
			return fmt.Errorf("%w: cuenta suspendida", domain.ErrForbidden)
		}
		out = *u
		return nil
	})
	return out, err
}

// Permissions permisos del rol del usuario activo de la sesión.
func (c *Controller) Permissions(ctx context.Context, s Session) ([]entity.Permission, error) {
	var out []entity.Permission
	err := c.runner.View(ctx, func(ws *workspace.Workspace) error {
		u, err := resolve(ws, s)
		if err != nil {
			return err
		}
		if !u.IsActive() {
			return fmt.Errorf("%w: cuenta suspendida", domain.ErrForbidden)
		}
		out = ws.Registry.Permissions(u.Role)
		return nil
	})
	return out, err
}

func (c *Controller) authorize(ws *workspace.Workspace, s Session, perm entity.Permission) (*entity.User, error) {
	actor, err := resolve(ws, s)
	if err != nil {
		return nil, err
	}
	allowed := Authorize(ws, actor, perm)
	c.metrics.Authz(string(perm), allowed)
	if !allowed {
		c.log.Warn().
			Str("user_id", actor.ID).
			Str("role", string(actor.Role)).
			Str("permission", string(perm)).
			Msg("acceso denegado")
		return nil, fmt.Errorf("%w: el rol %s no tiene el permiso %s", domain.ErrForbidden, actor.Role, perm)
	}
	return actor, nil
}

func resolve(ws *workspace.Workspace, s Session) (*entity.User, error) {
	if s.UserID == "" {
		return nil, fmt.Errorf("%w: sesión requerida", domain.ErrUnauthorized)
	}
	u := ws.Users.Lookup(s.UserID)
	if u == nil {
		return nil, fmt.Errorf("%w: el usuario de la sesión ya no existe", domain.ErrUnauthorized)
	}
	return u, nil
}

// CanActOn exige que target no sea más privilegiado que actor.
func CanActOn(actor, target *entity.User) error {
	if actor == nil || target == nil || !rbac.CanManage(actor.Role, target.Role) {
		return fmt.Errorf("%w: no puede gestionar usuarios de mayor jerarquía", domain.ErrForbidden)
	}
	return nil
}

// CanAssignRole exige que el rol asignado no sea más privilegiado que el de actor.
func CanAssignRole(actor *entity.User, role entity.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: rol %q", domain.ErrValidation, role)
	}
	if actor == nil || !rbac.CanManage(actor.Role, role) {
		return fmt.Errorf("%w: no puede asignar el rol %s", domain.ErrForbidden, role)
	}
	return nil
}
