// Package apptest arma un workspace en memoria con usuarios conocidos para los tests
// de la capa de aplicación.
package apptest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/infrastructure/memory"
)

// Now instante fijo de los tests.
var Now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// Options reloj fijo e ids secuenciales.
func Options() workspace.Options {
	n := 0
	return workspace.Options{
		Now:   func() time.Time { return Now },
		NewID: func() string { n++; return fmt.Sprintf("id-%d", n) },
	}
}

// Hash hash trivial y determinista para no pagar bcrypt en los tests.
func Hash(p string) (string, error) { return "hash:" + p, nil }

// Env workspace de prueba con una sesión por rol.
type Env struct {
	Store      *memory.KVStore
	Runner     *workspace.TxRunner
	Controller *access.Controller
	Sessions   map[entity.Role]access.Session
	Users      map[entity.Role]entity.User
}

// New construye el entorno; con sample incluye el catálogo de ejemplo.
func New(t *testing.T, sample bool) *Env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewKVStore()
	runner := workspace.NewTxRunner(store, Options(), nil, nil)
	docs, err := workspace.Seed(runner.Options(), Hash, sample)
	require.NoError(t, err)
	require.NoError(t, runner.Initialize(ctx, docs))

	require.NoError(t, runner.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.Users.Add(account.UserInput{
			Name: "Visitante", Email: "viewer@example.com", PasswordHash: "hash:viewer123", Role: entity.RoleViewer,
		})
		return err
	}))

	env := &Env{
		Store:      store,
		Runner:     runner,
		Controller: access.NewController(runner, nil, nil),
		Sessions:   map[entity.Role]access.Session{},
		Users:      map[entity.Role]entity.User{},
	}
	require.NoError(t, runner.View(ctx, func(ws *workspace.Workspace) error {
		for _, u := range ws.Users.List() {
			env.Users[u.Role] = u
			env.Sessions[u.Role] = access.Session{UserID: u.ID, SessionID: "session-" + string(u.Role)}
		}
		return nil
	}))
	return env
}

// ActivityLen tamaño actual del registro de actividad.
func (e *Env) ActivityLen(t *testing.T) int {
	t.Helper()
	n := 0
	require.NoError(t, e.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		n = ws.Activity.Len()
		return nil
	}))
	return n
}
