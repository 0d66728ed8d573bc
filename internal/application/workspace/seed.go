package workspace

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// PasswordHasher convierte una contraseña en su hash almacenable.
type PasswordHasher func(password string) (string, error)

// seedUser cuentas iniciales de la consola.
var seedUsers = []struct {
	name, email, password string
	role                  entity.Role
}{
	{"Administrador general", "admin@example.com", "admin123", entity.RoleAdmin},
	{"Supervisor de inventario", "manager@example.com", "manager123", entity.RoleManager},
	{"Usuario", "user@example.com", "user123", entity.RoleUser},
}

// Seed construye los documentos iniciales: usuarios, permisos y configuración por defecto y,
// si sample es true, un catálogo de ejemplo.
func Seed(opts Options, hash PasswordHasher, sample bool) (Documents, error) {
	ws, err := Decode(nil, opts)
	if err != nil {
		return nil, err
	}
	for _, su := range seedUsers {
		h, err := hash(su.password)
		if err != nil {
			return nil, fmt.Errorf("hash de %s: %w", su.email, err)
		}
		if _, err := ws.Users.Add(account.UserInput{
			Name: su.name, Email: su.email, PasswordHash: h, Role: su.role, Status: entity.StatusActive,
		}); err != nil {
			return nil, err
		}
	}
	if sample {
		if err := seedCatalog(ws); err != nil {
			return nil, fmt.Errorf("catálogo de ejemplo: %w", err)
		}
	}
	return ws.Encode()
}

func seedCatalog(ws *Workspace) error {
	cams, err := ws.Tree.Add("Cámaras de vigilancia", "", "")
	if err != nil {
		return err
	}
	indoor, _ := ws.Tree.Add("Cámaras interiores", cams.ID, "")
	outdoor, _ := ws.Tree.Add("Cámaras exteriores", cams.ID, "")
	recorders, _ := ws.Tree.Add("Grabadores", "", "")
	dvr, _ := ws.Tree.Add("DVR", recorders.ID, "")
	if _, err := ws.Tree.Add("NVR", recorders.ID, ""); err != nil {
		return err
	}
	if _, err := ws.Tree.Add("Accesorios", "", ""); err != nil {
		return err
	}

	fields := []category.FieldInput{
		{CategoryID: cams.ID, Label: "Resolución", Type: entity.FieldDropdown, Options: []string{"1080p", "2K", "4K"}, Key: "resolution"},
		{CategoryID: indoor.ID, Label: "Tipo de lente", Type: entity.FieldShortText, Key: "lens_type"},
		{CategoryID: outdoor.ID, Label: "Resistente a la intemperie", Type: entity.FieldCheckbox, Key: "weatherproof"},
		{CategoryID: recorders.ID, Label: "Número de canales", Type: entity.FieldNumber, Key: "channels"},
		{CategoryID: recorders.ID, Label: "Capacidad de almacenamiento", Type: entity.FieldShortText, Key: "storage_capacity"},
	}
	for _, f := range fields {
		if _, err := ws.Schema.AddField(f); err != nil {
			return err
		}
	}

	products := []catalog.ProductInput{
		{
			Name: "Cámara interior 2K", SKU: "CAM-IN-001", CategoryID: indoor.ID,
			Price: decimal.NewFromInt(250), Quantity: 50, Unit: "unidad",
			Description:   "Cámara de alta resolución para interiores con visión nocturna.",
			DynamicFields: map[string]any{"resolution": "2K", "lens_type": "gran angular"},
		},
		{
			Name: "Cámara exterior impermeable", SKU: "CAM-OUT-002", CategoryID: outdoor.ID,
			Price: decimal.NewFromInt(450), Quantity: 30, Unit: "unidad",
			Description:   "Cámara para exteriores con certificación IP67.",
			DynamicFields: map[string]any{"resolution": "4K", "weatherproof": true},
		},
		{
			Name: "Grabador DVR 8 canales", SKU: "DVR-8CH-001", CategoryID: dvr.ID,
			Price: decimal.NewFromInt(800), Quantity: 15, Unit: "equipo",
			Description:   "Grabador para 8 cámaras a 1080p.",
			DynamicFields: map[string]any{"channels": 8, "storage_capacity": "1TB"},
		},
	}
	for _, p := range products {
		if _, err := ws.Catalog.Add(p); err != nil {
			return err
		}
	}
	return nil
}
