package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/apptest"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

func storedHash(t *testing.T, env *apptest.Env, id string) string {
	t.Helper()
	var h string
	require.NoError(t, env.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		u, err := ws.Users.Get(id)
		h = u.PasswordHash
		return err
	}))
	return h
}

// ─── Alta ─────────────────────────────────────────────────────────────────────

func TestUserCreate_Jerarquia(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()
	manager := env.Sessions[entity.RoleManager]

	_, err := uc.Create(ctx, manager, dto.CreateUserRequest{Name: "Jefe", Email: "jefe@example.com", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := uc.Create(ctx, manager, dto.CreateUserRequest{Name: "Nuevo", Email: "nuevo@example.com", Password: "secret1", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "active", u.Status)
	assert.Equal(t, "hash:secret1", storedHash(t, env, u.ID))

	_, err = uc.Create(ctx, manager, dto.CreateUserRequest{Name: "Otro", Email: "NUEVO@example.com", Password: "secret1", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Create(ctx, manager, dto.CreateUserRequest{Name: "Corto", Email: "corto@example.com", Password: "123", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, env.Sessions[entity.RoleUser], dto.CreateUserRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: "viewer"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserCreate_BcryptPorDefecto(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, nil)

	u, err := uc.Create(context.Background(), env.Sessions[entity.RoleAdmin],
		dto.CreateUserRequest{Name: "Cifrado", Email: "cifrado@example.com", Password: "secret1", Role: "viewer"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash(t, env, u.ID)), []byte("secret1")))
}

// ─── Edición ──────────────────────────────────────────────────────────────────

func TestUserUpdate_Reglas(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()
	admin, manager := env.Users[entity.RoleAdmin], env.Users[entity.RoleManager]
	target := env.Users[entity.RoleUser]

	_, err := uc.Update(ctx, env.Sessions[entity.RoleAdmin], admin.ID,
		dto.UpdateUserRequest{Name: admin.Name, Email: admin.Email, Role: "manager"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "no puede cambiar su propio rol")

	_, err = uc.Update(ctx, env.Sessions[entity.RoleManager], admin.ID,
		dto.UpdateUserRequest{Name: "Renombrado", Email: admin.Email, Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "no gestiona roles superiores")

	_, err = uc.Update(ctx, env.Sessions[entity.RoleManager], target.ID,
		dto.UpdateUserRequest{Name: target.Name, Email: target.Email, Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "no asigna roles superiores")

	u, err := uc.Update(ctx, env.Sessions[entity.RoleManager], target.ID,
		dto.UpdateUserRequest{Name: "Usuario degradado", Email: target.Email, Role: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, "viewer", u.Role)
	assert.Equal(t, target.PasswordHash, storedHash(t, env, target.ID), "sin password se conserva el hash")

	self, err := uc.Update(ctx, env.Sessions[entity.RoleManager], manager.ID,
		dto.UpdateUserRequest{Name: "Supervisor", Email: manager.Email, Password: "nueva123"})
	require.NoError(t, err)
	assert.Equal(t, "manager", self.Role)
	assert.Equal(t, "hash:nueva123", storedHash(t, env, manager.ID))
}

// ─── Borrado y estado ─────────────────────────────────────────────────────────

func TestUserDelete_Reglas(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()
	admin := env.Sessions[entity.RoleAdmin]

	assert.ErrorIs(t, uc.Delete(ctx, admin, env.Users[entity.RoleAdmin].ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, env.Sessions[entity.RoleManager], env.Users[entity.RoleViewer].ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, admin, "no-existe"), domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, admin, env.Users[entity.RoleViewer].ID))
	list, err := uc.List(ctx, admin, dto.UserListRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	// la sesión del usuario eliminado deja de ser válida
	_, err = usecase.NewProductUseCase(env.Controller).List(ctx, env.Sessions[entity.RoleViewer], dto.ProductListRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserBulkStatus_SuspensionInmediata(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()
	ids := []string{env.Users[entity.RoleUser].ID, env.Users[entity.RoleViewer].ID}

	_, err := uc.BulkStatus(ctx, env.Sessions[entity.RoleManager],
		dto.BulkStatusRequest{IDs: []string{env.Users[entity.RoleAdmin].ID}, Status: "suspended"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.BulkStatus(ctx, env.Sessions[entity.RoleAdmin],
		dto.BulkStatusRequest{IDs: []string{env.Users[entity.RoleAdmin].ID}, Status: "suspended"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.BulkStatus(ctx, env.Sessions[entity.RoleAdmin], dto.BulkStatusRequest{IDs: ids, Status: "paused"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	res, err := uc.BulkStatus(ctx, env.Sessions[entity.RoleAdmin], dto.BulkStatusRequest{IDs: ids, Status: "suspended"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, "suspendió 2 usuarios", lastActivity(t, env))

	_, err = usecase.NewProductUseCase(env.Controller).List(ctx, env.Sessions[entity.RoleViewer], dto.ProductListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	suspended, err := uc.List(ctx, env.Sessions[entity.RoleAdmin], dto.UserListRequest{Status: "suspended"})
	require.NoError(t, err)
	assert.Len(t, suspended, 2)
}

func TestUserList_Filtros(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()

	byRole, err := uc.List(ctx, env.Sessions[entity.RoleManager], dto.UserListRequest{Role: "viewer"})
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, "viewer@example.com", byRole[0].Email)

	byText, err := uc.List(ctx, env.Sessions[entity.RoleManager], dto.UserListRequest{Q: "SUPERVISOR"})
	require.NoError(t, err)
	assert.Len(t, byText, 1)

	_, err = uc.List(ctx, env.Sessions[entity.RoleUser], dto.UserListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Sesión ───────────────────────────────────────────────────────────────────

func TestUserMe_PermisosDelRol(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewUserUseCase(env.Controller, apptest.Hash)
	ctx := context.Background()

	me, err := uc.Me(ctx, env.Sessions[entity.RoleViewer])
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", me.User.Email)
	assert.ElementsMatch(t, []string{"dashboard:view", "products:view", "categories:view"}, me.Permissions)

	_, err = uc.Me(ctx, access.Session{UserID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
