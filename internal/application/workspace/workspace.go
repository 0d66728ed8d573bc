// Package workspace agrupa todas las colecciones de la consola y ejecuta cada operación
// como una unidad de trabajo atómica sobre el almacén clave-valor.
package workspace

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/activity"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/rbac"
)

// Options parámetros de construcción compartidos por todas las copias del workspace.
type Options struct {
	Now              func() time.Time
	NewID            func() string
	DeletePolicy     category.DeletePolicy
	Thresholds       catalog.Thresholds
	ActivityCapacity int
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
	if o.DeletePolicy == "" {
		o.DeletePolicy = category.PolicyCascade
	}
	if o.Thresholds.LowMax <= 0 {
		o.Thresholds = catalog.DefaultThresholds()
	}
	if o.ActivityCapacity <= 0 {
		o.ActivityCapacity = activity.DefaultCapacity
	}
	return o
}

// Workspace estado completo de la consola. Cada unidad de trabajo recibe una copia propia.
type Workspace struct {
	opts     Options
	Tree     *category.Tree
	Schema   *category.Schema
	Catalog  *catalog.Catalog
	Users    *account.Directory
	Registry *rbac.Registry
	Activity *activity.Recorder
	Settings entity.Settings
}

// DeletePolicy política de borrado de categorías configurada.
func (w *Workspace) DeletePolicy() category.DeletePolicy { return w.opts.DeletePolicy }

// Thresholds umbrales de stock configurados.
func (w *Workspace) Thresholds() catalog.Thresholds { return w.opts.Thresholds }

// Now reloj del workspace.
func (w *Workspace) Now() time.Time { return w.opts.Now() }

// DeleteCategory borra una categoría según la política y, en cascada, los campos que le pertenecen.
func (w *Workspace) DeleteCategory(id string) ([]string, error) {
	removed, err := w.Tree.Delete(id, w.opts.DeletePolicy, w.Catalog.UsesCategory)
	if err != nil {
		return nil, err
	}
	w.Schema.RemoveOwnedBy(removed)
	return removed, nil
}

// ClearCatalog elimina productos, categorías y campos.
func (w *Workspace) ClearCatalog() {
	w.Tree = category.NewTree(nil, w.opts.Now, w.opts.NewID)
	w.Schema = category.NewSchema(w.Tree, nil, w.opts.Now, w.opts.NewID)
	w.Catalog = catalog.New(w.Tree, w.Schema, nil, w.opts.Now, w.opts.NewID)
}

// Validate comprueba la integridad referencial de todas las colecciones.
func (w *Workspace) Validate() error {
	if err := w.Tree.Validate(); err != nil {
		return err
	}
	if err := w.Schema.Validate(); err != nil {
		return err
	}
	if err := w.Catalog.Validate(); err != nil {
		return err
	}
	return w.Users.Validate()
}

// ReplaceWith sustituye todas las colecciones por las de other (restauración completa).
func (w *Workspace) ReplaceWith(other *Workspace) {
	opts := w.opts
	*w = *other
	w.opts = opts
}
