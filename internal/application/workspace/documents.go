package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/activity"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/rbac"
	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

// Documents documentos serializados indexados por clave (repository.Doc*).
type Documents map[string][]byte

// Clone copia superficial del mapa (los slices de bytes no se mutan).
func (d Documents) Clone() Documents {
	out := make(Documents, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Changed claves cuyo contenido difiere de prev.
func (d Documents) Changed(prev Documents) Documents {
	out := make(Documents)
	for k, v := range d {
		if old, ok := prev[k]; !ok || string(old) != string(v) {
			out[k] = v
		}
	}
	return out
}

// DefaultDocument contenido por defecto de un documento ausente: colección vacía, o la
// configuración y permisos iniciales.
func DefaultDocument(key string) ([]byte, error) {
	switch key {
	case repository.DocSettings:
		return json.Marshal(entity.DefaultSettings())
	case repository.DocPermissions:
		return json.Marshal(rbac.NewRegistry(rbac.DefaultGrants()).Snapshot())
	case repository.DocProducts, repository.DocCategories, repository.DocCategoryFields,
		repository.DocUsers, repository.DocActivityLog:
		return []byte("[]"), nil
	}
	return nil, fmt.Errorf("%w: documento desconocido %q", domain.ErrValidation, key)
}

// Decode construye un workspace a partir de los documentos; los ausentes toman su valor por defecto.
func Decode(docs Documents, opts Options) (*Workspace, error) {
	opts = opts.withDefaults()
	var (
		products    []entity.Product
		categories  []entity.Category
		fields      []entity.CategoryField
		users       []entity.User
		settings    entity.Settings
		permissions map[entity.Role][]entity.Permission
		entries     []entity.ActivityLogEntry
	)
	targets := map[string]any{
		repository.DocProducts:       &products,
		repository.DocCategories:     &categories,
		repository.DocCategoryFields: &fields,
		repository.DocUsers:          &users,
		repository.DocSettings:       &settings,
		repository.DocPermissions:    &permissions,
		repository.DocActivityLog:    &entries,
	}
	for _, key := range repository.Documents {
		raw, ok := docs[key]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			def, err := DefaultDocument(key)
			if err != nil {
				return nil, err
			}
			raw = def
		}
		if err := json.Unmarshal(raw, targets[key]); err != nil {
			return nil, fmt.Errorf("%w: documento %s: %v", domain.ErrValidation, key, err)
		}
	}
	if !settings.Valid() {
		return nil, fmt.Errorf("%w: documento %s con valores desconocidos", domain.ErrValidation, repository.DocSettings)
	}

	ws := &Workspace{opts: opts, Settings: settings}
	ws.Tree = category.NewTree(categories, opts.Now, opts.NewID)
	ws.Schema = category.NewSchema(ws.Tree, fields, opts.Now, opts.NewID)
	ws.Catalog = catalog.New(ws.Tree, ws.Schema, products, opts.Now, opts.NewID)
	ws.Catalog.Normalize()
	ws.Users = account.NewDirectory(users, opts.Now, opts.NewID)
	ws.Registry = rbac.NewRegistry(permissions)
	ws.Activity = activity.NewRecorder(entries, opts.ActivityCapacity, opts.Now, opts.NewID)
	return ws, nil
}

// Encode serializa las siete colecciones en su forma de documento.
func (w *Workspace) Encode() (Documents, error) {
	values := map[string]any{
		repository.DocProducts:       w.Catalog.List(),
		repository.DocCategories:     w.Tree.List(),
		repository.DocCategoryFields: w.Schema.List(),
		repository.DocUsers:          w.Users.List(),
		repository.DocSettings:       w.Settings,
		repository.DocPermissions:    w.Registry.Snapshot(),
		repository.DocActivityLog:    w.Activity.All(),
	}
	docs := make(Documents, len(values))
	for _, key := range repository.Documents {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("serializar %s: %w", key, err)
		}
		docs[key] = raw
	}
	return docs, nil
}
