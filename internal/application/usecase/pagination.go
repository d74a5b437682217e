package usecase

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Gudang-api/internal/application/dto"
	"github.com/jhoicas/Gudang-api/internal/domain"
)

// MessageInvalidPagination es el mensaje de la respuesta 400 por page/limit inválidos.
const MessageInvalidPagination = "Invalid pagination parameters"

// Paginator convierte los parámetros page/limit de la query en un ListQuery validado.
type Paginator struct {
	defaultLimit int64
	maxLimit     int64
	validate     *validator.Validate
}

// NewPaginator construye el paginador. maxLimit <= 0 desactiva el tope.
func NewPaginator(defaultLimit, maxLimit int64, v *validator.Validate) *Paginator {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if v == nil {
		v = validator.New()
	}
	return &Paginator{defaultLimit: defaultLimit, maxLimit: maxLimit, validate: v}
}

// Parse aplica los valores por defecto (page=1, limit=defaultLimit) y exige enteros positivos.
func (p *Paginator) Parse(rawPage, rawLimit, search string) (dto.ListQuery, error) {
	q := dto.ListQuery{
		Page:   parsePositive(rawPage, 1),
		Limit:  parsePositive(rawLimit, p.defaultLimit),
		Search: strings.TrimSpace(search),
	}

	var errs []domain.FieldError
	if err := p.validate.Struct(q); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return dto.ListQuery{}, err
		}
		for _, fe := range ves {
			name := strings.ToLower(fe.Field())
			errs = append(errs, domain.FieldError{
				Field:   name,
				Code:    domain.CodeInvalidPagination,
				Message: name + " must be a positive integer",
			})
		}
	}
	if len(errs) > 0 {
		return dto.ListQuery{}, &domain.ValidationError{Message: MessageInvalidPagination, Errors: errs}
	}

	if p.maxLimit > 0 && q.Limit > p.maxLimit {
		q.Limit = p.maxLimit
	}
	if q.Page-1 > math.MaxInt64/q.Limit {
		return dto.ListQuery{}, &domain.ValidationError{
			Message: MessageInvalidPagination,
			Errors: []domain.FieldError{{
				Field:   "page",
				Code:    domain.CodeInvalidPagination,
				Message: "page is out of range",
			}},
		}
	}
	return q, nil
}

// parsePositive devuelve def si raw está vacío y 0 si no es un entero (lo rechaza la validación).
func parsePositive(raw string, def int64) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// TotalPages = ceil(total/limit).
func TotalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
