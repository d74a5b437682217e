package dto

// Valores de "status" en todas las respuestas.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ListQuery parámetros de GET: paginación y búsqueda libre.
type ListQuery struct {
	Page   int64 `validate:"min=1"`
	Limit  int64 `validate:"min=1"`
	Search string
}

// Offset posición del primer registro de la página.
func (q ListQuery) Offset() int64 {
	return (q.Page - 1) * q.Limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// ErrorResponse cuerpo de error HTTP. Errors es una lista de campos o el texto del fallo.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// NewError construye un ErrorResponse con status "error".
func NewError(message string, errs any) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message, Errors: errs}
}
