package backup_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/apptest"
	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

func counts(t *testing.T, env *apptest.Env) (products, categories, fields, users int) {
	t.Helper()
	require.NoError(t, env.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		products, categories, fields, users = ws.Catalog.Len(), ws.Tree.Len(), len(ws.Schema.List()), ws.Users.Len()
		return nil
	}))
	return
}

// ─── Exportación ──────────────────────────────────────────────────────────────

func TestExport_SieteColeccionesEnOrden(t *testing.T) {
	env := apptest.New(t, true)
	svc := backup.NewService(env.Controller, env.Runner)

	_, err := svc.Export(context.Background(), env.Sessions[entity.RoleUser])
	assert.ErrorIs(t, err, domain.ErrForbidden)

	data, err := svc.Export(context.Background(), env.Sessions[entity.RoleManager])
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Len(t, generic, 7)

	order := []string{`"products"`, `"categories"`, `"categoryFields"`, `"users"`, `"settings"`, `"permissions"`, `"activityLog"`}
	last := -1
	for _, key := range order {
		i := strings.Index(string(data), key)
		require.Greater(t, i, last, key)
		last = i
	}
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"products\": ["))
}

// ─── Restauración ─────────────────────────────────────────────────────────────

func TestExportRestoreExport_ByteIdentico(t *testing.T) {
	ctx := context.Background()
	src := apptest.New(t, true)
	first, err := backup.NewService(src.Controller, src.Runner).Export(ctx, src.Sessions[entity.RoleAdmin])
	require.NoError(t, err)

	dst := apptest.New(t, false)
	svc := backup.NewService(dst.Controller, dst.Runner)
	require.NoError(t, svc.Restore(ctx, dst.Sessions[entity.RoleAdmin], first))

	second, err := svc.Export(ctx, dst.Sessions[entity.RoleAdmin])
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	products, categories, fields, _ := counts(t, dst)
	assert.Equal(t, 3, products)
	assert.Equal(t, 7, categories)
	assert.Equal(t, 5, fields)
}

func TestRestore_ArchivoInvalidoNoModifica(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, true)
	svc := backup.NewService(env.Controller, env.Runner)
	admin := env.Sessions[entity.RoleAdmin]
	before, err := svc.Export(ctx, admin)
	require.NoError(t, err)

	cases := map[string]string{
		"no es JSON":        `{"products": [`,
		"no es objeto":      `[1, 2, 3]`,
		"padre inexistente": `{"categories": [{"id": "c1", "name": "Hija", "parentId": "fantasma"}]}`,
		"ciclo":             `{"categories": [{"id": "a", "name": "A", "parentId": "b"}, {"id": "b", "name": "B", "parentId": "a"}]}`,
		"settings inválido": `{"settings": {"theme": "neón", "accentColor": "blue", "currency": "SAR", "calendar": "gregorian"}}`,
		"campo huérfano":    `{"categoryFields": [{"id": "f1", "categoryId": "x", "key": "k", "label": "K", "type": "number"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Restore(ctx, admin, []byte(body))
			assert.ErrorIs(t, err, domain.ErrImport)
		})
	}

	after, err := svc.Export(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRestore_ColeccionesAusentesPorDefecto(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, true)
	svc := backup.NewService(env.Controller, env.Runner)
	admin := env.Sessions[entity.RoleAdmin]

	data, err := svc.Export(ctx, admin)
	require.NoError(t, err)
	var f backup.File
	require.NoError(t, json.Unmarshal(data, &f))
	f.Products, f.Settings = nil, nil
	partial, err := json.Marshal(f)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, admin, partial))
	products, categories, _, users := counts(t, env)
	assert.Zero(t, products)
	assert.Equal(t, 7, categories)
	assert.Equal(t, 4, users)
}

func TestRestore_RequierePermiso(t *testing.T) {
	env := apptest.New(t, false)
	svc := backup.NewService(env.Controller, env.Runner)
	data, err := svc.Export(context.Background(), env.Sessions[entity.RoleAdmin])
	require.NoError(t, err)

	err = svc.Restore(context.Background(), env.Sessions[entity.RoleManager], data)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Reinicio ─────────────────────────────────────────────────────────────────

func TestReset_ConservaUsuarios(t *testing.T) {
	env := apptest.New(t, true)
	svc := backup.NewService(env.Controller, env.Runner)
	before := env.ActivityLen(t)

	assert.ErrorIs(t, svc.Reset(context.Background(), env.Sessions[entity.RoleManager]), domain.ErrForbidden)
	require.NoError(t, svc.Reset(context.Background(), env.Sessions[entity.RoleAdmin]))

	products, categories, fields, users := counts(t, env)
	assert.Zero(t, products)
	assert.Zero(t, categories)
	assert.Zero(t, fields)
	assert.Equal(t, 4, users)
	assert.Equal(t, before+1, env.ActivityLen(t))
}
