package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/application/apptest"
	"github.com/jhoicas/inventario-console/internal/application/auth"
	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-console/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeReports struct{}

func (fakeReports) ProductsXLSX(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	return []byte("xlsx:" + r.Title), nil
}

func (fakeReports) LowStockPDF(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	return []byte("%PDF " + r.Title), nil
}

func plainVerify(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// buildTestApp arma la API completa sobre un workspace en memoria con el catálogo de ejemplo.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	env := apptest.New(t, true)
	ac := env.Controller
	authUC := auth.NewAuthUseCase(env.Runner, memory.NewSessionStore(),
		auth.JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "test"}, nil, nil).WithVerifier(plainVerify)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		CategoryUC:   usecase.NewCategoryUseCase(ac),
		FieldUC:      usecase.NewFieldUseCase(ac),
		ProductUC:    usecase.NewProductUseCase(ac),
		ReportUC:     usecase.NewReportUseCase(ac, fakeReports{}),
		UserUC:       usecase.NewUserUseCase(ac, apptest.Hash),
		PermissionUC: usecase.NewPermissionUseCase(ac),
		SettingsUC:   usecase.NewSettingsUseCase(ac),
		ActivityUC:   usecase.NewActivityUseCase(ac),
		DashboardUC:  usecase.NewDashboardUseCase(ac),
		Backup:       backup.NewService(ac, env.Runner),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp).Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_LoginMeLogout(t *testing.T) {
	app := buildTestApp(t)
	token := login(t, app, "manager@example.com", "manager123")

	me := decode[dto.MeResponse](t, do(t, app, http.MethodGet, "/api/auth/me", token, nil))
	assert.Equal(t, "manager", me.User.Role)
	assert.Contains(t, me.Permissions, "products:create")
	assert.NotContains(t, me.Permissions, "settings:edit")

	resp := do(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token de sesión cerrada")
}

func TestAuth_CredencialesInvalidas(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "mal"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthMiddleware_Cabeceras(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodGet, "/api/products", "token.invalido.aqui", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recursos y mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ListadoYPermisos(t *testing.T) {
	app := buildTestApp(t)
	viewer := login(t, app, "viewer@example.com", "viewer123")

	list := decode[dto.ProductListResponse](t, do(t, app, http.MethodGet, "/api/products?stock=available", viewer, nil))
	assert.Equal(t, 3, list.Page.Total)

	resp := do(t, app, http.MethodGet, "/api/products?stock=mucho", viewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodPost, "/api/products", viewer, dto.ProductRequest{Name: "Cable", SKU: "CBL-1", Unit: "m"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodGet, "/api/products/no-existe", viewer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_CrearDuplicadoYExportar(t *testing.T) {
	app := buildTestApp(t)
	admin := login(t, app, "admin@example.com", "admin123")

	body := map[string]any{"name": "Cable coaxial", "sku": "CBL-1", "price": 2.5, "quantity": 4, "unit": "m"}
	resp := do(t, app, http.MethodPost, "/api/products", admin, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "low", created.StockStatus)

	resp = do(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Otro", "sku": "cbl-1", "unit": "m"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/products/export", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "xlsx:Productos", string(raw))

	resp = do(t, app, http.MethodGet, "/api/reports/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestCategories_ArbolYConflicto(t *testing.T) {
	app := buildTestApp(t)
	admin := login(t, app, "admin@example.com", "admin123")

	tree := decode[[]dto.CategoryNodeResponse](t, do(t, app, http.MethodGet, "/api/categories/tree", admin, nil))
	require.Len(t, tree, 3)
	assert.Len(t, tree[0].Children, 2)

	resp := do(t, app, http.MethodPost, "/api/categories", admin, dto.CategoryRequest{Name: "accesorios"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "nombre de hermano sin distinguir mayúsculas")

	resp = do(t, app, http.MethodPost, "/api/categories", admin, dto.CategoryRequest{Name: "Cables"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cables := decode[dto.CategoryResponse](t, resp)

	resp = do(t, app, http.MethodPost, "/api/categories/"+cables.ID+"/fields", admin,
		dto.FieldRequest{Label: "Longitud", Type: "number"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	field := decode[dto.FieldResponse](t, resp)

	schema := decode[dto.SchemaResponse](t, do(t, app, http.MethodGet, "/api/categories/"+cables.ID+"/schema", admin, nil))
	require.Len(t, schema.Fields, 1)
	assert.Equal(t, field.Key, schema.Fields[0].Key)

	resp = do(t, app, http.MethodDelete, "/api/fields/"+field.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestBackup_RestauracionInvalida(t *testing.T) {
	app := buildTestApp(t)
	admin := login(t, app, "admin@example.com", "admin123")

	resp := do(t, app, http.MethodGet, "/api/backup/export", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	resp = do(t, app, http.MethodPost, "/api/backup/restore", admin, []byte(`{"products": 3`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "IMPORT_FAILED", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodPost, "/api/backup/restore", admin, exported)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdmin_ConfiguracionYActividad(t *testing.T) {
	app := buildTestApp(t)
	admin := login(t, app, "admin@example.com", "admin123")
	manager := login(t, app, "manager@example.com", "manager123")

	resp := do(t, app, http.MethodPut, "/api/settings", manager, dto.SettingsRequest{Theme: "dark"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, app, http.MethodPut, "/api/settings", admin, dto.SettingsRequest{Theme: "neón"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	settings := decode[dto.SettingsResponse](t, do(t, app, http.MethodPut, "/api/settings", admin, dto.SettingsRequest{Theme: "dark"}))
	assert.Equal(t, "dark", settings.Theme)

	log := decode[dto.ActivityListResponse](t, do(t, app, http.MethodGet, "/api/activity?limit=1", admin, nil))
	require.Len(t, log.Items, 1)
	assert.Equal(t, "actualizó la configuración", log.Items[0].Description)

	dash := decode[dto.DashboardResponse](t, do(t, app, http.MethodGet, "/api/dashboard", admin, nil))
	assert.Equal(t, 3, dash.TotalProducts)
}

func TestErrorHandler_RutaInexistente(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", decode[dto.ErrorResponse](t, resp).Code)
}

func TestErrorHandler_RutaApiInexistenteSinToken(t *testing.T) {
	app := buildTestApp(t)

	// Bajo /api una ruta desconocida es 404 aunque no haya token.
	resp := do(t, app, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", decode[dto.ErrorResponse](t, resp).Code)

	// Los recursos protegidos siguen exigiendo token.
	for _, path := range []string{"/api/categories", "/api/settings", "/api/dashboard", "/api/auth/me"} {
		resp = do(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
