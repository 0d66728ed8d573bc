package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Alta y renombrado
// ──────────────────────────────────────────────────────────────────────────────

func TestTree_AddRaizEHijo(t *testing.T) {
	tree := newTree()
	cams, err := tree.Add("  Cameras ", "", "cámaras de vigilancia")
	require.NoError(t, err)
	assert.Equal(t, "Cameras", cams.Name, "el nombre se guarda sin espacios")
	assert.True(t, cams.IsRoot())

	indoor, err := tree.Add("Indoor", cams.ID, "")
	require.NoError(t, err)
	assert.Equal(t, cams.ID, indoor.ParentID)

	assert.Len(t, tree.Roots(), 1)
	assert.Len(t, tree.Children(cams.ID), 1)
}

func TestTree_AddValidaciones(t *testing.T) {
	tree := newTree()
	_, err := tree.Add("   ", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation, "nombre vacío")

	_, err = tree.Add("Indoor", "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound, "padre inexistente")

	_, err = tree.Add("Cameras", "", "")
	require.NoError(t, err)
	_, err = tree.Add(" cAMERAS", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict, "nombre de hermano duplicado sin distinguir mayúsculas")
	assert.Equal(t, 1, tree.Len(), "el árbol no cambia tras un alta rechazada")
}

func TestTree_MismoNombreEnDistintoPadre(t *testing.T) {
	tree := newTree()
	a, _ := tree.Add("A", "", "")
	b, _ := tree.Add("B", "", "")
	_, err := tree.Add("Accesorios", a.ID, "")
	require.NoError(t, err)
	_, err = tree.Add("Accesorios", b.ID, "")
	assert.NoError(t, err, "la unicidad es solo entre hermanos")
}

func TestTree_RenameRechazaCiclo(t *testing.T) {
	tree := newTree()
	root, _ := tree.Add("Root", "", "")
	mid, _ := tree.Add("Mid", root.ID, "")
	leaf, _ := tree.Add("Leaf", mid.ID, "")

	_, err := tree.Rename(root.ID, "Root", root.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "una categoría no puede ser su propio padre")

	_, err = tree.Rename(root.ID, "Root", leaf.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "no puede moverse bajo un descendiente")

	got, err := tree.Get(root.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.ParentID, "el árbol queda intacto")
}

func TestTree_RenameMueveYValidaHermanos(t *testing.T) {
	tree := newTree()
	a, _ := tree.Add("A", "", "")
	b, _ := tree.Add("B", "", "")
	x, _ := tree.Add("X", a.ID, "")
	_, _ = tree.Add("x", b.ID, "")

	_, err := tree.Rename(x.ID, "X", b.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "ya existe 'x' bajo B")

	moved, err := tree.Rename(x.ID, "Y", b.ID, "nueva")
	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.ParentID)
	assert.Equal(t, "nueva", moved.Description)
	assert.Empty(t, tree.Children(a.ID))
	assert.Len(t, tree.Children(b.ID), 2)

	_, err = tree.Rename(x.ID, "Y", b.ID, "")
	assert.NoError(t, err, "renombrar sin cambios no choca consigo misma")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recorridos
// ──────────────────────────────────────────────────────────────────────────────

func TestTree_DescendantsYAncestorPath(t *testing.T) {
	tree := newTree()
	root, _ := tree.Add("Root", "", "")
	mid, _ := tree.Add("Mid", root.ID, "")
	leaf, _ := tree.Add("Leaf", mid.ID, "")
	other, _ := tree.Add("Other", root.ID, "")

	desc, err := tree.Descendants(root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{mid.ID, leaf.ID, other.ID}, desc)

	path, err := tree.AncestorPath(leaf.ID)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, root.ID, path[0].ID, "la ruta empieza en la raíz")
	assert.Equal(t, mid.ID, path[1].ID)
	for _, c := range path {
		assert.NotEqual(t, leaf.ID, c.ID, "la ruta nunca contiene al propio nodo")
	}

	_, err = tree.AncestorPath("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTree_AncestorPathTerminaConCicloCargado(t *testing.T) {
	// Datos corruptos: a -> b -> a.
	tree := category.NewTree([]entity.Category{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
	}, clock, seqIDs("cat"))

	path, err := tree.AncestorPath("a")
	require.NoError(t, err)
	for _, c := range path {
		assert.NotEqual(t, "a", c.ID)
	}
	assert.ErrorIs(t, tree.Validate(), domain.ErrConflict, "Validate detecta el ciclo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestTree_DeleteGuarded(t *testing.T) {
	tree := newTree()
	root, _ := tree.Add("Root", "", "")
	child, _ := tree.Add("Child", root.ID, "")
	never := func([]string) bool { return false }

	_, err := tree.Delete(root.ID, category.PolicyGuarded, never)
	assert.ErrorIs(t, err, domain.ErrConflict, "tiene hijos")
	assert.Equal(t, 2, tree.Len())

	used := func(ids []string) bool { return true }
	_, err = tree.Delete(child.ID, category.PolicyGuarded, used)
	assert.ErrorIs(t, err, domain.ErrConflict, "usada por productos")

	removed, err := tree.Delete(child.ID, category.PolicyGuarded, never)
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, removed)
	assert.Empty(t, tree.Children(root.ID))
}

func TestTree_DeleteCascadeTodoONada(t *testing.T) {
	tree := newTree()
	root, _ := tree.Add("Root", "", "")
	mid, _ := tree.Add("Mid", root.ID, "")
	leaf, _ := tree.Add("Leaf", mid.ID, "")
	keep, _ := tree.Add("Keep", "", "")

	usedLeaf := func(ids []string) bool {
		for _, id := range ids {
			if id == leaf.ID {
				return true
			}
		}
		return false
	}
	_, err := tree.Delete(root.ID, category.PolicyCascade, usedLeaf)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, tree.Len(), "sin borrado parcial")

	removed, err := tree.Delete(root.ID, category.PolicyCascade, func([]string) bool { return false })
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, mid.ID, leaf.ID}, removed)
	assert.Equal(t, 1, tree.Len())
	assert.True(t, tree.Exists(keep.ID))
	assert.Equal(t, []entity.Category{tree.List()[0]}, tree.Roots())
}

func TestParseDeletePolicy(t *testing.T) {
	p, err := category.ParseDeletePolicy("")
	require.NoError(t, err)
	assert.Equal(t, category.PolicyCascade, p, "cascade es el valor por defecto")

	p, err = category.ParseDeletePolicy("Guarded")
	require.NoError(t, err)
	assert.Equal(t, category.PolicyGuarded, p)

	_, err = category.ParseDeletePolicy("soft")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
