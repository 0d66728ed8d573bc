// Package category contiene el bosque de categorías y los esquemas de campos
// personalizados que los productos heredan por la cadena de ancestros.
package category

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// DeletePolicy política de borrado de categorías.
type DeletePolicy string

const (
	// PolicyCascade borra el subárbol completo y sus campos si ningún producto lo usa.
	PolicyCascade DeletePolicy = "cascade"
	// PolicyGuarded solo borra categorías sin hijos y sin productos.
	PolicyGuarded DeletePolicy = "guarded"
)

// ParseDeletePolicy interpreta el valor de configuración ("" = cascade).
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCascade:
		return PolicyCascade, nil
	case PolicyGuarded:
		return PolicyGuarded, nil
	}
	return "", fmt.Errorf("%w: política de borrado desconocida %q", domain.ErrValidation, s)
}

// UsageFunc informa si algún producto referencia alguna de las categorías dadas.
type UsageFunc func(categoryIDs []string) bool

// Tree bosque de categorías indexado por id (lista de adyacencia).
type Tree struct {
	byID     map[string]*entity.Category
	children map[string][]string // parentID ("" = raíz) -> hijos en orden de inserción
	order    []string
	now      func() time.Time
	newID    func() string
}

// NewTree construye el índice a partir de categorías ya persistidas. No valida; usar Validate.
func NewTree(categories []entity.Category, now func() time.Time, newID func() string) *Tree {
	t := &Tree{
		byID:     make(map[string]*entity.Category, len(categories)),
		children: make(map[string][]string),
		order:    make([]string, 0, len(categories)),
		now:      now,
		newID:    newID,
	}
	for i := range categories {
		c := categories[i]
		t.insert(&c)
	}
	return t
}

func (t *Tree) insert(c *entity.Category) {
	t.byID[c.ID] = c
	t.children[c.ParentID] = append(t.children[c.ParentID], c.ID)
	t.order = append(t.order, c.ID)
}

// Len número de categorías.
func (t *Tree) Len() int { return len(t.byID) }

// Exists indica si la categoría existe.
func (t *Tree) Exists(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Get devuelve una copia de la categoría.
func (t *Tree) Get(id string) (entity.Category, error) {
	c, ok := t.byID[id]
	if !ok {
		return entity.Category{}, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return *c, nil
}

// List todas las categorías en orden de creación.
func (t *Tree) List() []entity.Category {
	out := make([]entity.Category, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}

// Roots categorías sin padre.
func (t *Tree) Roots() []entity.Category { return t.collect(t.children[""]) }

// Children hijos directos de id.
func (t *Tree) Children(id string) []entity.Category { return t.collect(t.children[id]) }

func (t *Tree) collect(ids []string) []entity.Category {
	out := make([]entity.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.byID[id])
	}
	return out
}

// Add crea una categoría bajo parentID ("" = raíz).
func (t *Tree) Add(name, parentID, description string) (entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Category{}, fmt.Errorf("%w: el nombre de la categoría es requerido", domain.ErrValidation)
	}
	if parentID != "" && !t.Exists(parentID) {
		return entity.Category{}, fmt.Errorf("%w: categoría padre %s", domain.ErrNotFound, parentID)
	}
	if t.siblingNameTaken(parentID, name, "") {
		return entity.Category{}, fmt.Errorf("%w: ya existe una categoría %q en ese nivel", domain.ErrConflict, name)
	}
	now := t.now()
	c := &entity.Category{
		ID:          t.newID(),
		Name:        name,
		ParentID:    parentID,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.insert(c)
	return *c, nil
}

// Rename cambia nombre, descripción y/o padre. Rechaza mover una categoría debajo de sí misma
// o de uno de sus descendientes.
func (t *Tree) Rename(id, newName, newParentID, description string) (entity.Category, error) {
	c, ok := t.byID[id]
	if !ok {
		return entity.Category{}, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return entity.Category{}, fmt.Errorf("%w: el nombre de la categoría es requerido", domain.ErrValidation)
	}
	if newParentID != "" {
		if !t.Exists(newParentID) {
			return entity.Category{}, fmt.Errorf("%w: categoría padre %s", domain.ErrNotFound, newParentID)
		}
		if t.isAncestorOrSelf(id, newParentID) {
			return entity.Category{}, fmt.Errorf("%w: mover %q bajo %s crearía un ciclo", domain.ErrConflict, c.Name, newParentID)
		}
	}
	if t.siblingNameTaken(newParentID, newName, id) {
		return entity.Category{}, fmt.Errorf("%w: ya existe una categoría %q en ese nivel", domain.ErrConflict, newName)
	}
	if newParentID != c.ParentID {
		t.children[c.ParentID] = without(t.children[c.ParentID], id)
		t.children[newParentID] = append(t.children[newParentID], id)
		c.ParentID = newParentID
	}
	c.Name = newName
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = t.now()
	return *c, nil
}

// isAncestorOrSelf sube desde node hasta la raíz buscando candidate.
func (t *Tree) isAncestorOrSelf(candidate, node string) bool {
	for steps, cur := 0, node; cur != "" && steps <= len(t.byID); steps++ {
		if cur == candidate {
			return true
		}
		c, ok := t.byID[cur]
		if !ok {
			return false
		}
		cur = c.ParentID
	}
	return false
}

func (t *Tree) siblingNameTaken(parentID, name, exceptID string) bool {
	folded := foldName(name)
	for _, sid := range t.children[parentID] {
		if sid == exceptID {
			continue
		}
		if foldName(t.byID[sid].Name) == folded {
			return true
		}
	}
	return false
}

// foldName normaliza para comparar nombres sin distinguir mayúsculas (plegado Unicode).
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Descendants ids de todos los descendientes de id (BFS, sin incluir id).
func (t *Tree) Descendants(id string) ([]string, error) {
	if !t.Exists(id) {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	var out []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range t.children[cur] {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out, nil
}

// Subtree id más sus descendientes.
func (t *Tree) Subtree(id string) ([]string, error) {
	desc, err := t.Descendants(id)
	if err != nil {
		return nil, err
	}
	return append([]string{id}, desc...), nil
}

// AncestorPath ancestros de id desde la raíz, sin incluir id.
// Termina aunque los datos cargados contengan un ciclo.
func (t *Tree) AncestorPath(id string) ([]entity.Category, error) {
	c, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	var rev []entity.Category
	seen := map[string]bool{id: true}
	for cur := c.ParentID; cur != "" && !seen[cur]; {
		p, ok := t.byID[cur]
		if !ok {
			break
		}
		seen[cur] = true
		rev = append(rev, *p)
		cur = p.ParentID
	}
	path := make([]entity.Category, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path, nil
}

// Breadcrumb ancestros más la propia categoría.
func (t *Tree) Breadcrumb(id string) ([]entity.Category, error) {
	path, err := t.AncestorPath(id)
	if err != nil {
		return nil, err
	}
	return append(path, *t.byID[id]), nil
}

// Delete borra según la política y devuelve los ids eliminados. Todo o nada.
func (t *Tree) Delete(id string, policy DeletePolicy, inUse UsageFunc) ([]string, error) {
	c, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	var doomed []string
	switch policy {
	case PolicyGuarded:
		if len(t.children[id]) > 0 {
			return nil, fmt.Errorf("%w: la categoría %q tiene subcategorías", domain.ErrConflict, c.Name)
		}
		doomed = []string{id}
	case PolicyCascade, "":
		doomed, _ = t.Subtree(id)
	default:
		return nil, fmt.Errorf("%w: política de borrado desconocida %q", domain.ErrValidation, policy)
	}
	if inUse != nil && inUse(doomed) {
		return nil, fmt.Errorf("%w: la categoría %q o alguna subcategoría está en uso por productos", domain.ErrConflict, c.Name)
	}
	gone := make(map[string]bool, len(doomed))
	for _, d := range doomed {
		gone[d] = true
	}
	t.children[c.ParentID] = without(t.children[c.ParentID], id)
	for _, d := range doomed {
		delete(t.children, d)
		delete(t.byID, d)
	}
	kept := t.order[:0]
	for _, oid := range t.order {
		if !gone[oid] {
			kept = append(kept, oid)
		}
	}
	t.order = kept
	return doomed, nil
}

// Validate comprueba la integridad de datos cargados: padres existentes, sin ciclos
// y nombres de hermanos únicos.
func (t *Tree) Validate() error {
	for _, id := range t.order {
		c := t.byID[id]
		if id == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: categoría sin id o nombre", domain.ErrValidation)
		}
		if c.ParentID != "" && !t.Exists(c.ParentID) {
			return fmt.Errorf("%w: la categoría %s referencia un padre inexistente %s", domain.ErrValidation, id, c.ParentID)
		}
		if c.ParentID != "" && t.isAncestorOrSelf(id, c.ParentID) {
			return fmt.Errorf("%w: ciclo en la categoría %s", domain.ErrConflict, id)
		}
	}
	if len(t.order) != len(t.byID) {
		return fmt.Errorf("%w: ids de categoría duplicados", domain.ErrConflict)
	}
	for parent, ids := range t.children {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			n := foldName(t.byID[id].Name)
			if seen[n] {
				return fmt.Errorf("%w: nombre duplicado %q bajo %q", domain.ErrConflict, t.byID[id].Name, parent)
			}
			seen[n] = true
		}
	}
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
