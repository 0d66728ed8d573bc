package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de los campos tipo date.
const DateLayout = "2006-01-02"

// ValueKind etiqueta de la variante almacenada en FieldValue.
type ValueKind string

// Variantes de valor dinámico.
const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindDate   ValueKind = "date"
	KindOption ValueKind = "option"
)

// FieldValue valor de un campo dinámico de producto (variante cerrada).
// Solo el miembro correspondiente a Kind es significativo.
type FieldValue struct {
	Kind   ValueKind
	Text   string
	Number decimal.Decimal
	Bool   bool
	Date   time.Time
	Option string
}

// TextValue construye una variante de texto.
func TextValue(s string) FieldValue { return FieldValue{Kind: KindText, Text: s} }

// NumberValue construye una variante numérica.
func NumberValue(d decimal.Decimal) FieldValue { return FieldValue{Kind: KindNumber, Number: d} }

// BoolValue construye una variante booleana.
func BoolValue(b bool) FieldValue { return FieldValue{Kind: KindBool, Bool: b} }

// DateValue construye una variante de fecha (se trunca al día, UTC).
func DateValue(t time.Time) FieldValue {
	y, m, d := t.Date()
	return FieldValue{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// OptionValue construye una variante de opción (dropdown/radio).
func OptionValue(s string) FieldValue { return FieldValue{Kind: KindOption, Option: s} }

// IsEmpty indica si el valor no aporta dato (texto u opción vacíos, o sin variante).
func (v FieldValue) IsEmpty() bool {
	switch v.Kind {
	case KindText:
		return v.Text == ""
	case KindOption:
		return v.Option == ""
	case "":
		return true
	}
	return false
}

// Raw devuelve el valor en su forma JSON natural (string, json.Number, bool).
func (v FieldValue) Raw() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return json.Number(v.Number.String())
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindOption:
		return v.Option
	}
	return nil
}

// String representación legible (exportes y reportes).
func (v FieldValue) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Number.String()
	}
	if s, ok := v.Raw().(string); ok {
		return s
	}
	return ""
}

// MarshalJSON serializa como valor JSON plano, igual que en el documento "products".
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Kind == "" {
		return []byte("null"), nil
	}
	return json.Marshal(v.Raw())
}

// UnmarshalJSON infiere la variante desde el tipo JSON. Los strings quedan como texto;
// la normalización contra el tipo del campo (fecha, opción) la hace el esquema al cargar.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = FieldValue{}
	case string:
		*v = TextValue(x)
	case bool:
		*v = BoolValue(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return fmt.Errorf("valor numérico inválido %q: %w", x, err)
		}
		*v = NumberValue(d)
	default:
		return fmt.Errorf("valor dinámico no soportado: %s", string(data))
	}
	return nil
}
