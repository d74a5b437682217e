// Package validation valida los registros entrantes contra el esquema de cada recurso.
package validation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jhoicas/Gudang-api/internal/domain"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
)

// MessageValidationFailed es el mensaje de la respuesta 400 por validación.
const MessageValidationFailed = "Validation failed"

// SchemaValidator aplica las reglas de campo (texto no vacío, qty entero positivo).
type SchemaValidator struct {
	v *validator.Validate
}

// New construye el validador y registra la regla notblank.
func New() *SchemaValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: registrar notblank: %v", err))
	}
	return &SchemaValidator{v: v}
}

// Engine expone el validador subyacente para validar otras estructuras (p. ej. paginación).
func (sv *SchemaValidator) Engine() *validator.Validate {
	return sv.v
}

// Validate revisa candidate campo por campo y devuelve el registro normalizado, o un
// *domain.ValidationError con todos los campos inválidos en el orden del esquema.
// Cualquier entrada que no sea un objeto JSON se trata como un objeto vacío.
func (sv *SchemaValidator) Validate(schema entity.Schema, candidate any) (*entity.Record, error) {
	obj, _ := candidate.(map[string]any)
	rec := schema.NewRecord()
	var errs []domain.FieldError

	for _, f := range schema.Fields {
		s, ok := obj[f.Key].(string)
		if !ok || sv.v.Var(s, "notblank") != nil {
			errs = append(errs, domain.FieldError{
				Field:   f.Key,
				Code:    domain.CodeRequiredField,
				Message: f.Label + " is required",
			})
			continue
		}
		rec.Values[f.Key] = s
	}

	qty, ok := toInt64(obj[schema.QtyKey])
	if !ok || sv.v.Var(qty, "min=1") != nil {
		errs = append(errs, domain.FieldError{
			Field:   schema.QtyKey,
			Code:    domain.CodeInvalidQuantity,
			Message: schema.QtyLabel + " must be a positive integer",
		})
	} else {
		rec.Qty = qty
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Message: MessageValidationFailed, Errors: errs}
	}
	return rec, nil
}

// toInt64 acepta números JSON enteros, incluidos los flotantes sin parte decimal (10.0).
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(MaxInt64) redondea a 2^63, que ya no cabe en int64
	if f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}
