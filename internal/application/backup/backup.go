// Package backup exporta, restaura y reinicia el estado completo de la consola.
package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

// File forma del archivo de respaldo: las siete colecciones con sus claves de documento.
// El orden de los campos fija el orden de salida.
type File struct {
	Products       json.RawMessage `json:"products"`
	Categories     json.RawMessage `json:"categories"`
	CategoryFields json.RawMessage `json:"categoryFields"`
	Users          json.RawMessage `json:"users"`
	Settings       json.RawMessage `json:"settings"`
	Permissions    json.RawMessage `json:"permissions"`
	ActivityLog    json.RawMessage `json:"activityLog"`
}

func (f *File) slots() map[string]*json.RawMessage {
	return map[string]*json.RawMessage{
		repository.DocProducts:       &f.Products,
		repository.DocCategories:     &f.Categories,
		repository.DocCategoryFields: &f.CategoryFields,
		repository.DocUsers:          &f.Users,
		repository.DocSettings:       &f.Settings,
		repository.DocPermissions:    &f.Permissions,
		repository.DocActivityLog:    &f.ActivityLog,
	}
}

// Service respaldo y restauración.
type Service struct {
	ac     *access.Controller
	runner *workspace.TxRunner
}

// NewService construye el servicio.
func NewService(ac *access.Controller, runner *workspace.TxRunner) *Service {
	return &Service{ac: ac, runner: runner}
}

// Export JSON indentado con las siete colecciones.
func (s *Service) Export(ctx context.Context, sess access.Session) ([]byte, error) {
	var out []byte
	err := s.ac.View(ctx, sess, entity.PermSettingsView, func(ws *workspace.Workspace, _ *entity.User) error {
		docs, err := ws.Encode()
		if err != nil {
			return err
		}
		out, err = Marshal(docs)
		return err
	})
	return out, err
}

// Marshal serializa los documentos en la forma del archivo de respaldo.
func Marshal(docs workspace.Documents) ([]byte, error) {
	var f File
	for key, slot := range f.slots() {
		*slot = json.RawMessage(docs[key])
	}
	return json.MarshalIndent(f, "", "  ")
}

// Parse interpreta un archivo de respaldo y valida la integridad referencial del conjunto.
// Las colecciones ausentes toman su valor por defecto. Cualquier fallo se informa como ErrImport.
func Parse(data []byte, opts workspace.Options) (*workspace.Workspace, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: el archivo no es un respaldo JSON válido: %v", domain.ErrImport, err)
	}
	docs := make(workspace.Documents)
	for key, slot := range f.slots() {
		if *slot != nil {
			docs[key] = []byte(*slot)
		}
	}
	ws, err := workspace.Decode(docs, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImport, err)
	}
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImport, err)
	}
	return ws, nil
}

// Restore reemplaza todo el estado por el del respaldo en una única escritura. Si el archivo no
// es válido el almacén no cambia. La restauración no añade entrada al registro de actividad,
// de modo que exportar tras restaurar reproduce el archivo original.
func (s *Service) Restore(ctx context.Context, sess access.Session, data []byte) error {
	restored, err := Parse(data, s.runner.Options())
	if err != nil {
		return err
	}
	return s.ac.Execute(ctx, sess, entity.PermSettingsEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		ws.ReplaceWith(restored)
		return "", nil
	})
}

// Reset elimina productos, categorías y campos; conserva usuarios, permisos, configuración y registro.
func (s *Service) Reset(ctx context.Context, sess access.Session) error {
	return s.ac.Execute(ctx, sess, entity.PermSettingsEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		ws.ClearCatalog()
		return "reinició los datos del catálogo", nil
	})
}
