package usecase

import (
	"strings"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
)

// BuildFilter arma el predicado de búsqueda sobre los campos buscables del esquema.
// Sin término, el filtro coincide con todos los registros.
func BuildFilter(schema entity.Schema, term string) repository.Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return repository.Filter{}
	}
	return repository.Filter{Term: term, Fields: schema.SearchableKeys()}
}
