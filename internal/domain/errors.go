package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrMissingID    = errors.New("id requerido")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrStoreFault   = errors.New("fallo del almacén de documentos")
)

// Códigos de error por campo.
const (
	CodeRequiredField     = "RequiredField"
	CodeInvalidQuantity   = "InvalidQuantity"
	CodeInvalidPagination = "InvalidPagination"
)

// FieldError describe un campo que no superó la validación.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError agrupa todos los campos inválidos de una entrada.
// Message es el texto que se devuelve al cliente ("Validation failed", ...).
type ValidationError struct {
	Message string
	Errors  []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return e.Message + ": " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StoreFault envuelve un error inesperado del almacén. errors.Is(err, ErrStoreFault) es true.
type StoreFault struct {
	Op  string
	Err error
}

func (e *StoreFault) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func (e *StoreFault) Unwrap() error { return e.Err }

func (e *StoreFault) Is(target error) bool { return target == ErrStoreFault }
