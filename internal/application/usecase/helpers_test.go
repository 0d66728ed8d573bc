package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/apptest"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
)

// categoryID busca una categoría del catálogo de ejemplo por nombre.
func categoryID(t *testing.T, env *apptest.Env, name string) string {
	t.Helper()
	var id string
	require.NoError(t, env.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		for _, c := range ws.Tree.List() {
			if c.Name == name {
				id = c.ID
			}
		}
		return nil
	}))
	require.NotEmpty(t, id, "categoría %q", name)
	return id
}

func productID(t *testing.T, env *apptest.Env, sku string) string {
	t.Helper()
	var id string
	require.NoError(t, env.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		for _, p := range ws.Catalog.List() {
			if p.SKU == sku {
				id = p.ID
			}
		}
		return nil
	}))
	require.NotEmpty(t, id, "producto %q", sku)
	return id
}

func lastActivity(t *testing.T, env *apptest.Env) string {
	t.Helper()
	var desc string
	require.NoError(t, env.Runner.View(context.Background(), func(ws *workspace.Workspace) error {
		if all := ws.Activity.All(); len(all) > 0 {
			desc = all[0].Description
		}
		return nil
	}))
	return desc
}
