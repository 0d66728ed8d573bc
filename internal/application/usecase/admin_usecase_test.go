package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/apptest"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ─── Permisos ─────────────────────────────────────────────────────────────────

func TestPermissionMatrix(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewPermissionUseCase(env.Controller)

	m, err := uc.Matrix(context.Background(), env.Sessions[entity.RoleManager])
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "manager", "user", "viewer"}, m.Roles)
	assert.Len(t, m.Permissions, 16)
	assert.Len(t, m.Grants["admin"], 16)
	assert.ElementsMatch(t, []string{"categories:view", "dashboard:view", "products:view"}, m.Grants["viewer"])

	perms, err := uc.Permissions(context.Background(), env.Sessions[entity.RoleViewer])
	require.NoError(t, err)
	assert.Equal(t, []string{"categories:view", "dashboard:view", "products:view"}, perms)
}

func TestPermissionGrantRevoke_Jerarquia(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewPermissionUseCase(env.Controller)
	ctx := context.Background()
	manager := env.Sessions[entity.RoleManager]

	_, err := uc.Grant(ctx, manager, dto.PermissionChangeRequest{Role: "admin", Permission: "products:view"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Grant(ctx, env.Sessions[entity.RoleUser], dto.PermissionChangeRequest{Role: "viewer", Permission: "products:edit"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "user no tiene users:edit")

	_, err = uc.Grant(ctx, manager, dto.PermissionChangeRequest{Role: "viewer", Permission: "products:fly"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	m, err := uc.Grant(ctx, manager, dto.PermissionChangeRequest{Role: "viewer", Permission: "products:edit"})
	require.NoError(t, err)
	assert.Contains(t, m.Grants["viewer"], "products:edit")
	assert.Equal(t, "concedió products:edit al rol viewer", lastActivity(t, env))

	// el cambio aplica de inmediato a las sesiones abiertas
	products := usecase.NewProductUseCase(env.Controller)
	_, err = products.Update(ctx, env.Sessions[entity.RoleViewer], "no-existe", dto.ProductRequest{Name: "x", SKU: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	m, err = uc.Revoke(ctx, manager, dto.PermissionChangeRequest{Role: "viewer", Permission: "products:edit"})
	require.NoError(t, err)
	assert.NotContains(t, m.Grants["viewer"], "products:edit")
	_, err = products.Update(ctx, env.Sessions[entity.RoleViewer], "no-existe", dto.ProductRequest{Name: "x", SKU: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Configuración ────────────────────────────────────────────────────────────

func TestSettings_GetUpdate(t *testing.T) {
	env := apptest.New(t, false)
	uc := usecase.NewSettingsUseCase(env.Controller)
	ctx := context.Background()

	s, err := uc.Get(ctx, env.Sessions[entity.RoleManager])
	require.NoError(t, err)
	assert.Equal(t, dto.SettingsResponse{Theme: "system", AccentColor: "blue", Currency: "SAR", Calendar: "gregorian"}, *s)

	_, err = uc.Update(ctx, env.Sessions[entity.RoleManager], dto.SettingsRequest{Currency: "USD"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, env.Sessions[entity.RoleAdmin], dto.SettingsRequest{Currency: "EUR"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	s, err = uc.Update(ctx, env.Sessions[entity.RoleAdmin], dto.SettingsRequest{Currency: "USD", Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, "blue", s.AccentColor)

	_, err = uc.Get(ctx, env.Sessions[entity.RoleViewer])
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Actividad ────────────────────────────────────────────────────────────────

func TestActivityList_MasRecientePrimero(t *testing.T) {
	env := apptest.New(t, false)
	cats := usecase.NewCategoryUseCase(env.Controller)
	uc := usecase.NewActivityUseCase(env.Controller)
	ctx := context.Background()

	_, err := cats.Create(ctx, env.Sessions[entity.RoleManager], dto.CategoryRequest{Name: "Primera"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, env.Sessions[entity.RoleAdmin], dto.CategoryRequest{Name: "Segunda"})
	require.NoError(t, err)

	_, err = uc.List(ctx, env.Sessions[entity.RoleManager], dto.ActivityListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := uc.List(ctx, env.Sessions[entity.RoleAdmin], dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, all.Page.Total)
	assert.Contains(t, all.Items[0].Description, "Segunda")
	assert.Equal(t, env.Users[entity.RoleAdmin].Name, all.Items[0].ActorName)

	mine, err := uc.List(ctx, env.Sessions[entity.RoleAdmin], dto.ActivityListRequest{UserID: env.Users[entity.RoleManager].ID})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Contains(t, mine.Items[0].Description, "Primera")
}

// ─── Panel ────────────────────────────────────────────────────────────────────

func TestDashboardSummary(t *testing.T) {
	env := apptest.New(t, true)
	uc := usecase.NewDashboardUseCase(env.Controller)
	products := usecase.NewProductUseCase(env.Controller)
	ctx := context.Background()

	_, err := products.Create(ctx, env.Sessions[entity.RoleAdmin], dto.ProductRequest{
		Name: "Cable UTP", SKU: "ACC-CAB-001", Price: decimal.RequireFromString("2.5"), Quantity: 4,
	})
	require.NoError(t, err)

	d, err := uc.Summary(ctx, env.Sessions[entity.RoleViewer])
	require.NoError(t, err)
	assert.Equal(t, 4, d.TotalProducts)
	assert.Equal(t, 7, d.TotalCategories)
	assert.Equal(t, 3, d.RootCategories)
	assert.True(t, decimal.NewFromInt(38010).Equal(d.StockValue), d.StockValue.String())
	assert.Equal(t, "SAR", d.Currency)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Zero(t, d.OutOfStockCount)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "ACC-CAB-001", d.LowStock[0].SKU)
	assert.Nil(t, d.RecentActivity, "viewer no ve la actividad")

	d, err = uc.Summary(ctx, env.Sessions[entity.RoleAdmin])
	require.NoError(t, err)
	assert.Len(t, d.RecentActivity, 1)
}

// ─── Informes ─────────────────────────────────────────────────────────────────

type fakeReports struct {
	last usecase.ProductReport
}

func (f *fakeReports) ProductsXLSX(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	f.last = r
	return []byte("xlsx"), nil
}

func (f *fakeReports) LowStockPDF(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	f.last = r
	return []byte("%PDF"), nil
}

func TestReport_ExportXLSXConColumnasDinamicas(t *testing.T) {
	env := apptest.New(t, true)
	gen := &fakeReports{}
	uc := usecase.NewReportUseCase(env.Controller, gen)

	b, name, err := uc.ExportXLSX(context.Background(), env.Sessions[entity.RoleViewer],
		dto.ProductListRequest{CategoryID: categoryID(t, env, "Cámaras de vigilancia")})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), b)
	assert.Equal(t, "productos_20240301_1000.xlsx", name)

	require.Len(t, gen.last.Rows, 2)
	keys := make([]string, 0, len(gen.last.Columns))
	for _, c := range gen.last.Columns {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"resolution", "lens_type", "weatherproof"}, keys)
	assert.Equal(t, "Cámaras exteriores", gen.last.Rows[1].Category)
	assert.Equal(t, "true", gen.last.Rows[1].Dynamic["weatherproof"])
	assert.True(t, decimal.NewFromInt(26000).Equal(gen.last.StockValue))
}

func TestReport_LowStockPDF(t *testing.T) {
	env := apptest.New(t, true)
	gen := &fakeReports{}
	uc := usecase.NewReportUseCase(env.Controller, gen)
	products := usecase.NewProductUseCase(env.Controller)
	ctx := context.Background()

	_, err := products.Create(ctx, env.Sessions[entity.RoleUser], dto.ProductRequest{Name: "Soporte", SKU: "ACC-SOP-001"})
	require.NoError(t, err)

	_, name, err := uc.LowStockPDF(ctx, env.Sessions[entity.RoleUser])
	require.NoError(t, err)
	assert.Equal(t, "poco_stock_20240301_1000.pdf", name)
	require.Len(t, gen.last.Rows, 1)
	assert.Equal(t, "out", gen.last.Rows[0].Stock)
	assert.Equal(t, 5, gen.last.LowStockMax)
	assert.Equal(t, env.Users[entity.RoleUser].Name, gen.last.GeneratedBy)
}
