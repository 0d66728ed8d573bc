// Package catalog mantiene los productos y sus comprobaciones referenciales contra
// el árbol de categorías y los esquemas de campos.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ProductInput datos mutables de un producto. DynamicFields admite valores decodificados
// de JSON (string, json.Number, bool) o entity.FieldValue.
type ProductInput struct {
	Name          string
	SKU           string
	CategoryID    string
	Price         decimal.Decimal
	Quantity      int
	Unit          string
	Description   string
	Image         string
	DynamicFields map[string]any
}

// Catalog productos indexados por id.
type Catalog struct {
	tree   *category.Tree
	schema *category.Schema
	byID   map[string]*entity.Product
	order  []string
	now    func() time.Time
	newID  func() string
}

// New construye el catálogo sobre el árbol y el esquema dados.
func New(tree *category.Tree, schema *category.Schema, products []entity.Product, now func() time.Time, newID func() string) *Catalog {
	c := &Catalog{
		tree:   tree,
		schema: schema,
		byID:   make(map[string]*entity.Product, len(products)),
		order:  make([]string, 0, len(products)),
		now:    now,
		newID:  newID,
	}
	for i := range products {
		p := products[i]
		c.byID[p.ID] = p.Clone()
		c.order = append(c.order, p.ID)
	}
	if schema != nil {
		schema.TrackStoredKeys(c.storedKeys(), c.UsesFieldKey)
	}
	return c
}

func (c *Catalog) storedKeys() []string {
	var keys []string
	for _, p := range c.byID {
		for k := range p.DynamicFields {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len número de productos.
func (c *Catalog) Len() int { return len(c.byID) }

// Get devuelve una copia del producto.
func (c *Catalog) Get(id string) (entity.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return *p.Clone(), nil
}

// List todos los productos en orden de creación.
func (c *Catalog) List() []entity.Product {
	out := make([]entity.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id].Clone())
	}
	return out
}

// Add crea un producto tras validar datos básicos, categoría y campos dinámicos.
func (c *Catalog) Add(in ProductInput) (entity.Product, error) {
	if err := c.validateBasics(in, ""); err != nil {
		return entity.Product{}, err
	}
	dyn, err := c.resolveDynamic(in.CategoryID, in.DynamicFields, nil)
	if err != nil {
		return entity.Product{}, err
	}
	now := c.now()
	p := &entity.Product{
		ID:            c.newID(),
		CreatedAt:     now,
		UpdatedAt:     now,
		DynamicFields: dyn,
	}
	apply(p, in)
	c.byID[p.ID] = p
	c.order = append(c.order, p.ID)
	return *p.Clone(), nil
}

// Update reemplaza todos los campos mutables y refresca UpdatedAt.
// Las keys fuera del esquema efectivo solo se aceptan si el producto ya las tenía.
func (c *Catalog) Update(id string, in ProductInput) (entity.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if err := c.validateBasics(in, id); err != nil {
		return entity.Product{}, err
	}
	dyn, err := c.resolveDynamic(in.CategoryID, in.DynamicFields, p.DynamicFields)
	if err != nil {
		return entity.Product{}, err
	}
	apply(p, in)
	p.DynamicFields = dyn
	p.UpdatedAt = c.now()
	return *p.Clone(), nil
}

func apply(p *entity.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.SKU = strings.TrimSpace(in.SKU)
	p.CategoryID = in.CategoryID
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Unit = strings.TrimSpace(in.Unit)
	p.Description = in.Description
	p.Image = in.Image
}

// Delete elimina un producto.
func (c *Catalog) Delete(id string) (entity.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	removed := *p
	c.remove(map[string]bool{id: true})
	return removed, nil
}

// BulkDelete elimina varios productos; si alguno no existe no se elimina ninguno.
func (c *Catalog) BulkDelete(ids []string) (int, error) {
	set, err := c.requireAll(ids)
	if err != nil {
		return 0, err
	}
	c.remove(set)
	return len(set), nil
}

// BulkReassignCategory mueve productos a otra categoría ("" = sin categoría).
// Los campos dinámicos que dejan de pertenecer al esquema se conservan.
func (c *Catalog) BulkReassignCategory(ids []string, categoryID string) (int, error) {
	if categoryID != "" && !c.tree.Exists(categoryID) {
		return 0, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	set, err := c.requireAll(ids)
	if err != nil {
		return 0, err
	}
	now := c.now()
	for id := range set {
		p := c.byID[id]
		p.CategoryID = categoryID
		p.UpdatedAt = now
	}
	return len(set), nil
}

// Clear elimina todos los productos.
func (c *Catalog) Clear() {
	c.byID = make(map[string]*entity.Product)
	c.order = nil
}

func (c *Catalog) requireAll(ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no se indicaron productos", domain.ErrValidation)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.byID[id]; !ok {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		set[id] = true
	}
	return set, nil
}

func (c *Catalog) remove(set map[string]bool) {
	kept := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if set[id] {
			delete(c.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
}

func (c *Catalog) validateBasics(in ProductInput, selfID string) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre del producto es requerido", domain.ErrValidation)
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return fmt.Errorf("%w: el SKU es requerido", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrValidation)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrValidation)
	}
	if in.CategoryID != "" && !c.tree.Exists(in.CategoryID) {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
	}
	folded := cases.Fold().String(sku)
	for id, p := range c.byID {
		if id != selfID && cases.Fold().String(p.SKU) == folded {
			return fmt.Errorf("%w: el SKU %q ya existe", domain.ErrConflict, sku)
		}
	}
	return nil
}

// resolveDynamic valida los valores contra el esquema efectivo de la categoría.
// previous son los valores ya guardados (nil al crear).
func (c *Catalog) resolveDynamic(categoryID string, raw map[string]any, previous map[string]entity.FieldValue) (map[string]entity.FieldValue, error) {
	fields, err := c.schema.EffectiveSchema(categoryID)
	if err != nil {
		return nil, err
	}
	effective := make(map[string]entity.CategoryField, len(fields))
	for _, f := range fields {
		effective[f.Key] = f
	}
	out := make(map[string]entity.FieldValue, len(raw))
	for key, value := range raw {
		f, inSchema := effective[key]
		if !inSchema {
			_, stale := previous[key]
			global, known := c.schema.FieldByKey(key)
			if !stale || !known {
				return nil, fmt.Errorf("%w: el campo %q no pertenece al esquema de la categoría", domain.ErrValidation, key)
			}
			f = global
		}
		v, ok, err := category.ParseValue(f, value)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = v
		}
	}
	for _, f := range fields {
		if _, present := out[f.Key]; f.Required && !present {
			return nil, fmt.Errorf("%w: el campo %q es obligatorio", domain.ErrValidation, f.Label)
		}
	}
	return out, nil
}

// UsesCategory indica si algún producto referencia alguna de las categorías.
func (c *Catalog) UsesCategory(categoryIDs []string) bool {
	set := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		set[id] = true
	}
	for _, p := range c.byID {
		if p.CategoryID != "" && set[p.CategoryID] {
			return true
		}
	}
	return false
}

// UsesFieldKey indica si algún producto guarda valor bajo la key.
func (c *Catalog) UsesFieldKey(key string) bool {
	for _, p := range c.byID {
		if _, ok := p.DynamicFields[key]; ok {
			return true
		}
	}
	return false
}

// ValuesOf valores guardados bajo la key, en orden de creación.
func (c *Catalog) ValuesOf(key string) []entity.FieldValue {
	var out []entity.FieldValue
	for _, id := range c.order {
		if v, ok := c.byID[id].DynamicFields[key]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Normalize reinterpreta los valores cargados según el tipo actual de cada campo
// (p. ej. strings de fecha u opción). Valores que ya no encajan se dejan como estaban.
func (c *Catalog) Normalize() {
	for _, p := range c.byID {
		for key, v := range p.DynamicFields {
			f, ok := c.schema.FieldByKey(key)
			if !ok {
				continue
			}
			if nv, ok, err := category.ParseValue(f, v); err == nil && ok {
				p.DynamicFields[key] = nv
			}
		}
	}
}

// Validate comprueba datos cargados: ids únicos, categorías existentes y números no negativos.
func (c *Catalog) Validate() error {
	if len(c.byID) != len(c.order) {
		return fmt.Errorf("%w: ids de producto duplicados", domain.ErrConflict)
	}
	for _, id := range c.order {
		p := c.byID[id]
		if p.CategoryID != "" && !c.tree.Exists(p.CategoryID) {
			return fmt.Errorf("%w: el producto %s referencia una categoría inexistente %s", domain.ErrValidation, id, p.CategoryID)
		}
		if p.Price.IsNegative() || p.Quantity < 0 {
			return fmt.Errorf("%w: el producto %s tiene precio o cantidad negativos", domain.ErrValidation, id)
		}
	}
	return nil
}
