package workspace_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/repository"
	"github.com/jhoicas/inventario-console/internal/infrastructure/memory"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func testOptions() workspace.Options {
	n := 0
	return workspace.Options{
		Now:   func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
		NewID: func() string { n++; return fmt.Sprintf("id-%d", n) },
	}
}

func plainHash(p string) (string, error) { return "hash:" + p, nil }

// spyStore cuenta las claves escritas en cada lote.
type spyStore struct {
	*memory.KVStore
	batches [][]string
}

func (s *spyStore) PutBatch(ctx context.Context, docs map[string][]byte) error {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	s.batches = append(s.batches, keys)
	return s.KVStore.PutBatch(ctx, docs)
}

func newRunner(t *testing.T, sample bool) (*workspace.TxRunner, *spyStore) {
	t.Helper()
	store := &spyStore{KVStore: memory.NewKVStore()}
	opts := testOptions()
	r := workspace.NewTxRunner(store, opts, nil, nil)
	docs, err := workspace.Seed(r.Options(), plainHash, sample)
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), docs))
	store.batches = nil
	return r, store
}

// ─── Decode / Seed ────────────────────────────────────────────────────────────

func TestDecode_DocumentosAusentesTomanDefecto(t *testing.T) {
	ws, err := workspace.Decode(workspace.Documents{}, testOptions())
	require.NoError(t, err)
	assert.Zero(t, ws.Catalog.Len())
	assert.Equal(t, entity.DefaultSettings(), ws.Settings)
	assert.True(t, ws.Registry.HasPermission(entity.RoleAdmin, entity.PermSettingsEdit))
	assert.Equal(t, category.PolicyCascade, ws.DeletePolicy())
	assert.Equal(t, catalog.DefaultLowStockMax, ws.Thresholds().LowMax)
}

func TestDecode_JSONInvalido(t *testing.T) {
	_, err := workspace.Decode(workspace.Documents{repository.DocProducts: []byte("{nope")}, testOptions())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSeed_CatalogoDeEjemplo(t *testing.T) {
	docs, err := workspace.Seed(testOptions(), plainHash, true)
	require.NoError(t, err)
	ws, err := workspace.Decode(docs, testOptions())
	require.NoError(t, err)
	require.NoError(t, ws.Validate())

	assert.Equal(t, 3, ws.Users.Len())
	admin := ws.Users.FindByEmail("admin@example.com")
	require.NotNil(t, admin)
	assert.Equal(t, "hash:admin123", admin.PasswordHash)
	assert.Equal(t, 3, ws.Catalog.Len())
	assert.Len(t, ws.Tree.Roots(), 3)
}

// ─── TxRunner ─────────────────────────────────────────────────────────────────

func TestTxRunner_RunPersisteSoloDocumentosModificados(t *testing.T) {
	r, store := newRunner(t, false)
	ctx := context.Background()

	err := r.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.Tree.Add("Cameras", "", "")
		return err
	})
	require.NoError(t, err)
	require.Len(t, store.batches, 1)
	assert.Equal(t, []string{repository.DocCategories}, store.batches[0])

	// Un runner nuevo sobre el mismo almacén ve el cambio.
	other := workspace.NewTxRunner(store, testOptions(), nil, nil)
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.View(ctx, func(ws *workspace.Workspace) error {
		assert.Equal(t, 1, ws.Tree.Len())
		return nil
	}))
}

func TestTxRunner_OperacionFallidaNoCambiaNada(t *testing.T) {
	r, store := newRunner(t, true)
	ctx := context.Background()
	before, err := r.Snapshot(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = r.Run(ctx, func(ws *workspace.Workspace) error {
		ws.ClearCatalog()
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.batches)

	after, _ := r.Snapshot(ctx)
	assert.Equal(t, before, after)
}

func TestTxRunner_FalloDeEscrituraNoCambiaEstado(t *testing.T) {
	r, store := newRunner(t, true)
	ctx := context.Background()
	store.FailNextWrite(errors.New("sin espacio"))

	err := r.Run(ctx, func(ws *workspace.Workspace) error {
		ws.ClearCatalog()
		return nil
	})
	require.Error(t, err)
	require.NoError(t, r.View(ctx, func(ws *workspace.Workspace) error {
		assert.Equal(t, 3, ws.Catalog.Len(), "el estado en memoria sigue siendo el anterior")
		return nil
	}))
	raw, ok, _ := store.Get(ctx, repository.DocProducts)
	require.True(t, ok)
	assert.NotEqual(t, "[]", string(raw))
}

func TestTxRunner_BorradoEnCascadaDelEscenarioCameras(t *testing.T) {
	r, _ := newRunner(t, false)
	ctx := context.Background()
	var camsID, indoorID, productID, fieldKey string

	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		cams, err := ws.Tree.Add("Cameras", "", "")
		if err != nil {
			return err
		}
		indoor, err := ws.Tree.Add("Indoor", cams.ID, "")
		if err != nil {
			return err
		}
		f, err := ws.Schema.AddField(category.FieldInput{
			CategoryID: cams.ID, Label: "resolution", Type: entity.FieldDropdown, Options: []string{"1080p", "4K"},
		})
		if err != nil {
			return err
		}
		p, err := ws.Catalog.Add(catalog.ProductInput{
			Name: "P", SKU: "P-1", CategoryID: indoor.ID, Price: decimal.NewFromInt(10), Quantity: 1,
			DynamicFields: map[string]any{f.Key: "4K"},
		})
		camsID, indoorID, productID, fieldKey = cams.ID, indoor.ID, p.ID, f.Key
		return err
	}))

	require.NoError(t, r.View(ctx, func(ws *workspace.Workspace) error {
		eff, err := ws.Schema.EffectiveSchema(indoorID)
		require.NoError(t, err)
		require.Len(t, eff, 1)
		assert.Equal(t, fieldKey, eff[0].Key)
		return nil
	}))

	err := r.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.DeleteCategory(camsID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "P referencia Indoor de forma transitiva")

	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		if _, err := ws.Catalog.Delete(productID); err != nil {
			return err
		}
		removed, err := ws.DeleteCategory(camsID)
		assert.ElementsMatch(t, []string{camsID, indoorID}, removed)
		return err
	}))
	require.NoError(t, r.View(ctx, func(ws *workspace.Workspace) error {
		assert.Zero(t, ws.Tree.Len())
		_, ok := ws.Schema.FieldByKey(fieldKey)
		assert.False(t, ok, "el campo propio se elimina con la categoría")
		return nil
	}))
}

// countingLocker bloqueo falso que registra adquisiciones.
type countingLocker struct {
	locks, unlocks int
	err            error
}

func (l *countingLocker) Lock(context.Context) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locks++
	return func(context.Context) error { l.unlocks++; return nil }, nil
}

func TestTxRunner_ModoCompartidoRecargaYBloquea(t *testing.T) {
	r, store := newRunner(t, false)
	ctx := context.Background()
	locker := &countingLocker{}
	r.UseLocker(locker)

	// Otro proceso escribe directamente en el almacén compartido.
	other := workspace.NewTxRunner(store, testOptions(), nil, nil)
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.Tree.Add("Externa", "", "")
		return err
	}))

	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		assert.Equal(t, 1, ws.Tree.Len(), "la unidad de trabajo parte del estado recargado")
		_, err := ws.Tree.Add("Local", "", "")
		return err
	}))
	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, 1, locker.unlocks)

	locker.err = errors.New("redis caído")
	err := r.Run(ctx, func(*workspace.Workspace) error { return nil })
	assert.Error(t, err)
}

func TestTxRunner_KeyHuerfanaNoSeReasignaTrasBorradoEnCascada(t *testing.T) {
	r, _ := newRunner(t, false)
	ctx := context.Background()
	var aID, bID, productID, oldKey string

	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		a, err := ws.Tree.Add("A", "", "")
		if err != nil {
			return err
		}
		b, err := ws.Tree.Add("B", "", "")
		if err != nil {
			return err
		}
		f, err := ws.Schema.AddField(category.FieldInput{CategoryID: a.ID, Label: "Color", Type: entity.FieldShortText})
		if err != nil {
			return err
		}
		p, err := ws.Catalog.Add(catalog.ProductInput{
			Name: "P", SKU: "P-1", CategoryID: a.ID, Price: decimal.NewFromInt(10), Quantity: 1,
			DynamicFields: map[string]any{f.Key: "rojo"},
		})
		aID, bID, productID, oldKey = a.ID, b.ID, p.ID, f.Key
		return err
	}))
	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.Catalog.BulkReassignCategory([]string{productID}, bID)
		return err
	}))
	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		_, err := ws.DeleteCategory(aID)
		return err
	}))

	var newKey string
	require.NoError(t, r.Run(ctx, func(ws *workspace.Workspace) error {
		f, err := ws.Schema.AddField(category.FieldInput{CategoryID: bID, Label: "Color", Type: entity.FieldNumber})
		newKey = f.Key
		return err
	}))
	assert.NotEqual(t, oldKey, newKey)

	require.NoError(t, r.View(ctx, func(ws *workspace.Workspace) error {
		p, err := ws.Catalog.Get(productID)
		require.NoError(t, err)
		assert.Equal(t, entity.TextValue("rojo"), p.DynamicFields[oldKey], "el valor huérfano se conserva")
		_, held := p.DynamicFields[newKey]
		assert.False(t, held, "el campo nuevo empieza sin valores")
		return nil
	}))
}
