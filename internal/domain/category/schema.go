package category

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

var (
	keyPattern   = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)
	keySuffix    = regexp.MustCompile(`_(\d+)$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// FieldInput datos para crear un campo. Key vacío = se genera desde Label.
type FieldInput struct {
	CategoryID string
	Label      string
	Type       entity.FieldType
	Options    []string
	Required   bool
	Key        string
}

// FieldUpdate atributos mutables de un campo (Key y CategoryID son inmutables).
type FieldUpdate struct {
	Label    string
	Type     entity.FieldType
	Options  []string
	Required bool
}

// KeyUsageFunc informa si algún producto guarda un valor bajo la key.
type KeyUsageFunc func(key string) bool

// KeyValuesFunc valores guardados por los productos bajo la key.
type KeyValuesFunc func(key string) []entity.FieldValue

// Schema campos personalizados por categoría, con keys únicas globales.
type Schema struct {
	tree   *Tree
	byID   map[string]*entity.CategoryField
	byKey  map[string]string
	order  []string
	seq    int
	stored KeyUsageFunc // keys con valores en productos, aunque su campo ya no exista
	now    func() time.Time
	newID  func() string
}

// NewSchema indexa los campos persistidos. El contador de keys continúa desde el mayor sufijo existente.
func NewSchema(tree *Tree, fields []entity.CategoryField, now func() time.Time, newID func() string) *Schema {
	s := &Schema{
		tree:  tree,
		byID:  make(map[string]*entity.CategoryField, len(fields)),
		byKey: make(map[string]string, len(fields)),
		order: make([]string, 0, len(fields)),
		now:   now,
		newID: newID,
	}
	for i := range fields {
		f := fields[i]
		f.Options = append([]string(nil), f.Options...)
		s.byID[f.ID] = &f
		s.byKey[f.Key] = f.ID
		s.order = append(s.order, f.ID)
		s.observe(f.Key)
	}
	return s
}

// TrackStoredKeys reserva las keys que los productos ya guardan: el contador continúa desde su
// mayor sufijo y ninguna key nueva coincide con una guardada, exista o no su campo.
func (s *Schema) TrackStoredKeys(keys []string, inUse KeyUsageFunc) {
	for _, k := range keys {
		s.observe(k)
	}
	s.stored = inUse
}

func (s *Schema) observe(key string) {
	if m := keySuffix.FindStringSubmatch(key); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > s.seq {
			s.seq = n
		}
	}
}

// keyTaken key de un campo vivo o guardada en algún producto.
func (s *Schema) keyTaken(key string) bool {
	if _, ok := s.byKey[key]; ok {
		return true
	}
	return s.stored != nil && s.stored(key)
}

// List todos los campos en orden de creación.
func (s *Schema) List() []entity.CategoryField {
	out := make([]entity.CategoryField, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyField(s.byID[id]))
	}
	return out
}

// Get devuelve un campo por id.
func (s *Schema) Get(id string) (entity.CategoryField, error) {
	f, ok := s.byID[id]
	if !ok {
		return entity.CategoryField{}, fmt.Errorf("%w: campo %s", domain.ErrNotFound, id)
	}
	return copyField(f), nil
}

// FieldByKey busca un campo por su key global.
func (s *Schema) FieldByKey(key string) (entity.CategoryField, bool) {
	id, ok := s.byKey[key]
	if !ok {
		return entity.CategoryField{}, false
	}
	return copyField(s.byID[id]), true
}

// FieldsOf campos propios de una categoría (sin heredados).
func (s *Schema) FieldsOf(categoryID string) []entity.CategoryField {
	var out []entity.CategoryField
	for _, id := range s.order {
		if f := s.byID[id]; f.CategoryID == categoryID {
			out = append(out, copyField(f))
		}
	}
	return out
}

// EffectiveSchema campos de la cadena de ancestros, de la raíz hacia la categoría,
// sin keys duplicadas. categoryID vacío devuelve un esquema vacío.
func (s *Schema) EffectiveSchema(categoryID string) ([]entity.CategoryField, error) {
	if categoryID == "" {
		return nil, nil
	}
	chain, err := s.tree.Breadcrumb(categoryID)
	if err != nil {
		return nil, err
	}
	var out []entity.CategoryField
	seen := make(map[string]bool)
	for _, c := range chain {
		for _, f := range s.FieldsOf(c.ID) {
			if seen[f.Key] {
				continue
			}
			seen[f.Key] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// AddField crea un campo en la categoría indicada.
func (s *Schema) AddField(in FieldInput) (entity.CategoryField, error) {
	if !s.tree.Exists(in.CategoryID) {
		return entity.CategoryField{}, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return entity.CategoryField{}, fmt.Errorf("%w: la etiqueta del campo es requerida", domain.ErrValidation)
	}
	options, err := normalizeOptions(in.Type, in.Options)
	if err != nil {
		return entity.CategoryField{}, err
	}
	key := strings.TrimSpace(in.Key)
	if key != "" {
		if !keyPattern.MatchString(key) {
			return entity.CategoryField{}, fmt.Errorf("%w: key %q inválida (minúsculas, dígitos y _)", domain.ErrValidation, key)
		}
		if s.keyTaken(key) {
			return entity.CategoryField{}, fmt.Errorf("%w: la key %q ya existe", domain.ErrConflict, key)
		}
	} else {
		key = s.nextKey(label)
	}
	now := s.now()
	f := &entity.CategoryField{
		ID:         s.newID(),
		CategoryID: in.CategoryID,
		Key:        key,
		Label:      label,
		Type:       in.Type,
		Options:    options,
		Required:   in.Required,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.byID[f.ID] = f
	s.byKey[key] = f.ID
	s.order = append(s.order, f.ID)
	return copyField(f), nil
}

// nextKey genera slug(label)_N con N creciente hasta encontrar una key libre.
func (s *Schema) nextKey(label string) string {
	base := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(label), "_"), "_")
	if base == "" {
		base = "field"
	}
	for {
		s.seq++
		key := base + "_" + strconv.Itoa(s.seq)
		if !s.keyTaken(key) {
			return key
		}
	}
}

// UpdateField modifica etiqueta, tipo, opciones y obligatoriedad. Las opciones se vacían
// si el nuevo tipo no es dropdown/radio. Falla con conflicto si algún valor guardado bajo la key
// deja de encajar en el nuevo tipo u opciones.
func (s *Schema) UpdateField(id string, in FieldUpdate, stored KeyValuesFunc) (entity.CategoryField, error) {
	f, ok := s.byID[id]
	if !ok {
		return entity.CategoryField{}, fmt.Errorf("%w: campo %s", domain.ErrNotFound, id)
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return entity.CategoryField{}, fmt.Errorf("%w: la etiqueta del campo es requerida", domain.ErrValidation)
	}
	options, err := normalizeOptions(in.Type, in.Options)
	if err != nil {
		return entity.CategoryField{}, err
	}
	if stored != nil {
		next := copyField(f)
		next.Label, next.Type, next.Options = label, in.Type, options
		for _, v := range stored(f.Key) {
			if _, _, err := ParseValue(next, v); err != nil {
				return entity.CategoryField{}, fmt.Errorf("%w: hay productos con valores incompatibles con el cambio (%v)", domain.ErrConflict, err)
			}
		}
	}
	f.Label = label
	f.Type = in.Type
	f.Options = options
	f.Required = in.Required
	f.UpdatedAt = s.now()
	return copyField(f), nil
}

// DeleteField elimina un campo si ningún producto guarda valor bajo su key.
func (s *Schema) DeleteField(id string, inUse KeyUsageFunc) (entity.CategoryField, error) {
	f, ok := s.byID[id]
	if !ok {
		return entity.CategoryField{}, fmt.Errorf("%w: campo %s", domain.ErrNotFound, id)
	}
	if inUse != nil && inUse(f.Key) {
		return entity.CategoryField{}, fmt.Errorf("%w: el campo %q está en uso por productos", domain.ErrConflict, f.Label)
	}
	removed := copyField(f)
	s.remove(id)
	return removed, nil
}

// RemoveOwnedBy elimina los campos de las categorías dadas (borrado en cascada).
func (s *Schema) RemoveOwnedBy(categoryIDs []string) []entity.CategoryField {
	owners := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		owners[id] = true
	}
	var removed []entity.CategoryField
	for _, id := range append([]string(nil), s.order...) {
		if f := s.byID[id]; owners[f.CategoryID] {
			removed = append(removed, copyField(f))
			s.remove(id)
		}
	}
	return removed
}

func (s *Schema) remove(id string) {
	f := s.byID[id]
	delete(s.byKey, f.Key)
	delete(s.byID, id)
	s.order = without(s.order, id)
}

// Validate comprueba datos cargados: categoría dueña existente, tipo válido y keys únicas.
func (s *Schema) Validate() error {
	if len(s.byKey) != len(s.order) || len(s.byID) != len(s.order) {
		return fmt.Errorf("%w: ids o keys de campo duplicados", domain.ErrConflict)
	}
	for _, id := range s.order {
		f := s.byID[id]
		if !s.tree.Exists(f.CategoryID) {
			return fmt.Errorf("%w: el campo %s pertenece a una categoría inexistente %s", domain.ErrValidation, f.Key, f.CategoryID)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("%w: tipo %q del campo %s", domain.ErrValidation, f.Type, f.Key)
		}
		if f.Key == "" {
			return fmt.Errorf("%w: campo %s sin key", domain.ErrValidation, f.ID)
		}
	}
	return nil
}

func normalizeOptions(t entity.FieldType, options []string) ([]string, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: tipo de campo %q", domain.ErrValidation, t)
	}
	if !t.HasOptions() {
		return []string{}, nil
	}
	out := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: los campos %s requieren al menos una opción", domain.ErrValidation, t)
	}
	return out, nil
}

func copyField(f *entity.CategoryField) entity.CategoryField {
	cp := *f
	cp.Options = append([]string{}, f.Options...)
	return cp
}
