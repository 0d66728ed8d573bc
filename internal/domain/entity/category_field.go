package entity

import "time"

// FieldType tipo de un campo personalizado de categoría.
type FieldType string

// Tipos de campo soportados.
const (
	FieldShortText FieldType = "short_text"
	FieldLongText  FieldType = "long_text"
	FieldNumber    FieldType = "number"
	FieldDate      FieldType = "date"
	FieldCheckbox  FieldType = "checkbox"
	FieldDropdown  FieldType = "dropdown"
	FieldRadio     FieldType = "radio"
)

// FieldTypes lista en orden de presentación.
var FieldTypes = []FieldType{
	FieldShortText, FieldLongText, FieldNumber, FieldDate, FieldCheckbox, FieldDropdown, FieldRadio,
}

// Valid indica si el tipo es uno de los soportados.
func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HasOptions indica si el tipo usa la lista de opciones (dropdown/radio).
func (t FieldType) HasOptions() bool {
	return t == FieldDropdown || t == FieldRadio
}

// CategoryField definición de un campo personalizado propiedad de una categoría.
// Key es inmutable y única en todas las categorías.
type CategoryField struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	Options    []string  `json:"options"`
	Required   bool      `json:"required"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
