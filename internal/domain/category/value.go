package category

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ParseValue convierte un valor de entrada (decodificado de JSON o ya tipado) en la variante
// que corresponde al tipo del campo, validando opciones y formato.
// Devuelve ok=false si el valor está vacío (nil o string en blanco).
func ParseValue(f entity.CategoryField, raw any) (v entity.FieldValue, ok bool, err error) {
	if fv, isFV := raw.(entity.FieldValue); isFV {
		raw = fv.Raw()
	}
	if raw == nil {
		return entity.FieldValue{}, false, nil
	}
	if s, isStr := raw.(string); isStr && strings.TrimSpace(s) == "" {
		return entity.FieldValue{}, false, nil
	}
	invalid := func(detail string) error {
		return fmt.Errorf("%w: valor de %q: %s", domain.ErrValidation, f.Label, detail)
	}

	switch f.Type {
	case entity.FieldShortText, entity.FieldLongText:
		s, isStr := raw.(string)
		if !isStr {
			return entity.FieldValue{}, false, invalid("se esperaba texto")
		}
		if f.Type == entity.FieldShortText && strings.ContainsAny(s, "\n\r") {
			return entity.FieldValue{}, false, invalid("el texto corto no admite saltos de línea")
		}
		return entity.TextValue(s), true, nil

	case entity.FieldNumber:
		d, err := toDecimal(raw)
		if err != nil {
			return entity.FieldValue{}, false, invalid("se esperaba un número")
		}
		return entity.NumberValue(d), true, nil

	case entity.FieldCheckbox:
		switch x := raw.(type) {
		case bool:
			return entity.BoolValue(x), true, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return entity.FieldValue{}, false, invalid("se esperaba verdadero/falso")
			}
			return entity.BoolValue(b), true, nil
		}
		return entity.FieldValue{}, false, invalid("se esperaba verdadero/falso")

	case entity.FieldDate:
		switch x := raw.(type) {
		case time.Time:
			return entity.DateValue(x), true, nil
		case string:
			x = strings.TrimSpace(x)
			if t, err := time.Parse(entity.DateLayout, x); err == nil {
				return entity.DateValue(t), true, nil
			}
			if t, err := time.Parse(time.RFC3339, x); err == nil {
				return entity.DateValue(t), true, nil
			}
		}
		return entity.FieldValue{}, false, invalid("se esperaba una fecha AAAA-MM-DD")

	case entity.FieldDropdown, entity.FieldRadio:
		s, isStr := raw.(string)
		if !isStr {
			return entity.FieldValue{}, false, invalid("se esperaba una opción")
		}
		s = strings.TrimSpace(s)
		for _, o := range f.Options {
			if o == s {
				return entity.OptionValue(s), true, nil
			}
		}
		return entity.FieldValue{}, false, invalid(fmt.Sprintf("%q no está entre las opciones", s))
	}
	return entity.FieldValue{}, false, invalid(fmt.Sprintf("tipo %q desconocido", f.Type))
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch x := raw.(type) {
	case decimal.Decimal:
		return x, nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	}
	return decimal.Decimal{}, fmt.Errorf("tipo %T no numérico", raw)
}
